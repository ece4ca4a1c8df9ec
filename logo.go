package logo

import (
	"context"
	"errors"
	"io"

	"github.com/BlairLeduc/pico-logo/internal/panicerr"
)

// Console is the line-oriented I/O collaborator the interpreter talks to.
// ReadLine blocks for one line of input, presenting the prompt when the
// device can show one; it returns ErrInterrupted if the user broke the
// read, and io.EOF when the input is exhausted. The identity queries drive
// prompt suppression: prompts appear only for a keyboard reader.
type Console interface {
	ReadLine(prompt string) (string, error)
	WriteString(s string) error
	Flush() error
	IsKeyboard() bool
	IsScreen() bool
}

// Hardware exposes the pollable condition flags. The evaluator consults
// PollInterrupt between instructions and the REPL driver consults it
// between reads; nothing is ever delivered preemptively into running code.
// PollInterrupt and PollPause clear the flag they report.
type Hardware interface {
	PollInterrupt() bool
	PollPause() bool
	Frozen() bool
}

// Storage opens named streams for the load primitive.
type Storage interface {
	Open(name string) (io.ReadCloser, error)
}

// Interp is one interpreter instance: its arena, procedure store, frame
// stack, and collaborator wiring. Instances are independent; nothing is
// shared at package level.
type Interp struct {
	arena
	procs      procStore
	frames     []*Frame
	primitives map[string]*primitive

	console  Console
	hardware Hardware
	storage  Storage

	logf func(mess string, args ...interface{})

	frameLimit int
	defsOK     bool
	quit       bool

	ctx context.Context
}

// New builds an interpreter with the given options over the defaults:
// a discarding console, no hardware flags, no storage, and procedure
// definitions accepted.
func New(opts ...Option) *Interp {
	in := &Interp{
		primitives: newPrimitives(),
		defsOK:     true,
	}
	defaultOptions.apply(in)
	Options(opts...).apply(in)
	in.frames = append(in.frames, &Frame{}) // frame 0: the globals
	return in
}

// Run drives the top-level read-eval loop until input is exhausted or bye.
// A throw to "toplevel" unwinds every nesting level back here and restarts
// the loop silently. Host-level faults (broken console, workspace
// exhaustion) surface as the returned error.
func (in *Interp) Run(ctx context.Context) error {
	err := panicerr.Recover("logo", func() error {
		in.ctx = ctx
		defer func() { in.ctx = nil }()
		for !in.quit {
			res := in.session("", false)
			if res.Status == StatusThrow {
				continue
			}
			break
		}
		return nil
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	return err
}

// Execute parses and runs one logical line of instructions against the
// current frame, for embedding and for primitive front-ends. The Result is
// the language-level outcome; err reports host-level faults only.
func (in *Interp) Execute(text string) (res Result, err error) {
	err = panicerr.Recover("logo", func() error {
		res = in.execute(text)
		return nil
	})
	if err != nil {
		var halt haltError
		if errors.As(err, &halt) {
			err = halt.error
		}
	}
	return res, err
}

func (in *Interp) execute(text string) Result {
	list, res := in.ParseLine(text)
	if res.breaks() {
		return res
	}
	return in.runList(list, false)
}

// Globals returns the outermost frame, where make without an existing
// binding creates its variable.
func (in *Interp) Globals() *Frame { return in.frames[0] }

// CurrentFrame returns the innermost activation.
func (in *Interp) CurrentFrame() *Frame { return in.curFrame() }

// Lookup reads a variable by name along the current call chain.
func (in *Interp) Lookup(name string) (Value, bool) {
	v, ok := in.lookupName(in.foldIntern(name))
	if !ok || v.IsNone() {
		return Value{}, false
	}
	return v, true
}

// Set binds a variable by name with make semantics.
func (in *Interp) Set(name string, v Value) {
	in.setName(in.foldIntern(name), v)
}

func (in *Interp) writeString(s string) {
	if err := in.console.WriteString(s); err != nil {
		panic(haltError{err})
	}
}

func (in *Interp) writeLine(s string) { in.writeString(s + "\n") }

func (in *Interp) checkContext() {
	if in.ctx != nil {
		if err := in.ctx.Err(); err != nil {
			panic(haltError{err})
		}
	}
}
