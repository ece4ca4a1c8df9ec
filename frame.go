package logo

// testState is the tri-state flag set by test and read by iftrue/iffalse.
type testState uint8

const (
	testUnset testState = iota
	testTrue
	testFalse
)

// A Frame is one call activation. Bindings are kept in insertion order;
// lookup scans newest first so the latest write wins.
type Frame struct {
	proc     *Procedure // nil for the top-level frame
	bindings []binding
	test     testState
	repcount int
}

type binding struct {
	name  Node // folded intern
	value Value
}

// Proc returns the procedure this frame activates, nil at top level.
func (fr *Frame) Proc() *Procedure { return fr.proc }

func (fr *Frame) bind(name Node, v Value) {
	for i := len(fr.bindings) - 1; i >= 0; i-- {
		if fr.bindings[i].name == name {
			fr.bindings[i].value = v
			return
		}
	}
	fr.bindings = append(fr.bindings, binding{name, v})
}

func (fr *Frame) lookup(name Node) (Value, bool) {
	for i := len(fr.bindings) - 1; i >= 0; i-- {
		if fr.bindings[i].name == name {
			return fr.bindings[i].value, true
		}
	}
	return Value{}, false
}

// rebind replaces this frame's state in place for a tail call: parameter
// bindings are swapped wholesale after every argument was already evaluated
// against the old ones, and per-invocation state resets as if freshly
// pushed.
func (fr *Frame) rebind(proc *Procedure, args []Value) {
	fr.proc = proc
	fr.bindings = fr.bindings[:0]
	for i, param := range proc.params {
		fr.bindings = append(fr.bindings, binding{param, args[i]})
	}
	fr.test = testUnset
	fr.repcount = 0
}

// pushFrame starts a new activation with parameter bindings in place.
// Exceeding the frame limit is workspace exhaustion, not a language error.
func (in *Interp) pushFrame(proc *Procedure, args []Value) *Frame {
	if in.frameLimit != 0 && len(in.frames) >= in.frameLimit {
		panic(haltError{errOutOfSpace})
	}
	fr := &Frame{proc: proc}
	for i, param := range proc.params {
		fr.bindings = append(fr.bindings, binding{param, args[i]})
	}
	in.frames = append(in.frames, fr)
	return fr
}

func (in *Interp) popFrame() {
	in.frames = in.frames[:len(in.frames)-1]
}

// curFrame is the innermost activation; frame 0 holds the globals.
func (in *Interp) curFrame() *Frame { return in.frames[len(in.frames)-1] }

// lookupName walks outward from the innermost frame along the current call
// chain: dynamic scoping, not lexical.
func (in *Interp) lookupName(name Node) (Value, bool) {
	for i := len(in.frames) - 1; i >= 0; i-- {
		if v, ok := in.frames[i].lookup(name); ok {
			return v, ok
		}
	}
	return Value{}, false
}

// setName rebinds the nearest existing binding anywhere in the chain, or
// creates a new global when the name is bound nowhere.
func (in *Interp) setName(name Node, v Value) {
	for i := len(in.frames) - 1; i >= 0; i-- {
		fr := in.frames[i]
		for j := len(fr.bindings) - 1; j >= 0; j-- {
			if fr.bindings[j].name == name {
				fr.bindings[j].value = v
				return
			}
		}
	}
	in.frames[0].bind(name, v)
}

// localName creates a binding in the current frame only, shadowing any
// outer binding of the same name until this frame returns.
func (in *Interp) localName(name Node) {
	fr := in.curFrame()
	if _, ok := fr.lookup(name); !ok {
		fr.bindings = append(fr.bindings, binding{name, Value{}})
	}
}

// testValue finds the nearest test flag set along the call chain; the flag
// a procedure sets is visible to its callees and dies with its frame.
func (in *Interp) testValue() testState {
	for i := len(in.frames) - 1; i >= 0; i-- {
		if in.frames[i].test != testUnset {
			return in.frames[i].test
		}
	}
	return testUnset
}
