package logo

import (
	"strconv"
	"strings"
)

// A cursor walks the remaining tokens of one line or bracketed list.
type cursor struct {
	in   *Interp
	rest Node
}

func newCursor(in *Interp, list Node) cursor {
	return cursor{in: in, rest: list.Unmark()}
}

func (c *cursor) atEnd() bool { return !c.rest.IsCons() }

func (c *cursor) next() Node {
	n := c.in.Head(c.rest)
	c.rest = c.in.Tail(c.rest)
	return n
}

func (c *cursor) peek() Node { return c.in.Head(c.rest) }

func (c *cursor) peekWord() string {
	if c.atEnd() {
		return ""
	}
	if n := c.peek(); n.IsAtom() {
		return c.in.Text(n)
	}
	return ""
}

// exprCtx carries the evaluation context down the expression grammar.
type exprCtx struct {
	instr    bool   // instruction level: commands are welcome
	tailOK   bool   // a call ending the last body line may reuse the frame
	consumer string // who is waiting on this value, for error rendering
}

var valueCtx = exprCtx{}

func argCtx(consumer string) exprCtx { return exprCtx{consumer: consumer} }

// RunList executes a token list as a sequence of instructions against the
// current frame. tailOK marks the last line of a procedure body.
func (in *Interp) runList(list Node, tailOK bool) Result {
	c := newCursor(in, list)
	for !c.atEnd() {
		res := in.instruction(&c, tailOK)
		if res.Status == StatusOk {
			return resultError(ErrDontKnowWhat, "", in.format(res.Value, true))
		}
		if res.breaks() {
			return res
		}
	}
	return resultNone
}

// instruction dispatches one statement. The hardware interrupt flag is
// polled first: an interrupt discards the instruction and unwinds with
// Error(Stopped). A pending pause request suspends into a nested session
// before the instruction runs.
func (in *Interp) instruction(c *cursor, tailOK bool) Result {
	in.checkContext()
	if in.hardware != nil {
		if in.hardware.PollInterrupt() {
			return resultError(ErrStopped, "", "")
		}
		if in.curFrame().proc != nil && in.hardware.PollPause() {
			if res := in.pause(); res.breaks() {
				return res
			}
		}
	}
	if in.logf != nil {
		in.logf("eval %v", in.format(ListValue(c.rest), true))
	}
	if n := c.peek(); n.IsList() {
		c.next()
		return in.runList(n, tailOK && c.atEnd())
	}
	return in.evalExpr(c, exprCtx{instr: true, tailOK: tailOK})
}

// EvalInstruction executes one statement from the front of list, returning
// the Result and the unconsumed remainder. Primitive implementations use it
// to run caller-supplied instruction lists.
func (in *Interp) EvalInstruction(list Node) (Result, Node) {
	c := newCursor(in, list)
	res := in.instruction(&c, false)
	return res, c.rest
}

// EvalExpression reduces one value-producing expression from the front of
// list.
func (in *Interp) EvalExpression(list Node) (Result, Node) {
	c := newCursor(in, list)
	res := in.evalExpr(&c, valueCtx)
	return res, c.rest
}

// evalExpr parses and reduces one expression. Comparisons bind loosest,
// then additive, then multiplicative operators; the operand grammar lives
// in evalTerm.
func (in *Interp) evalExpr(c *cursor, ctx exprCtx) Result {
	res := in.evalSum(c, ctx)
	for res.Status == StatusOk {
		op := c.peekWord()
		if op != "=" && op != "<" && op != ">" {
			break
		}
		c.next()
		rhs := in.evalSum(c, argCtx(op))
		if rhs.Status != StatusOk {
			return rhs
		}
		res = in.compare(op, res.Value, rhs.Value)
	}
	return res
}

func (in *Interp) evalSum(c *cursor, ctx exprCtx) Result {
	res := in.evalProduct(c, ctx)
	for res.Status == StatusOk {
		op := c.peekWord()
		if op != "+" && op != "-" {
			break
		}
		c.next()
		rhs := in.evalProduct(c, argCtx(op))
		if rhs.Status != StatusOk {
			return rhs
		}
		res = in.arith(op, res.Value, rhs.Value)
	}
	return res
}

func (in *Interp) evalProduct(c *cursor, ctx exprCtx) Result {
	res := in.evalTerm(c, ctx)
	for res.Status == StatusOk {
		op := c.peekWord()
		if op != "*" && op != "/" {
			break
		}
		c.next()
		rhs := in.evalTerm(c, argCtx(op))
		if rhs.Status != StatusOk {
			return rhs
		}
		res = in.arith(op, res.Value, rhs.Value)
	}
	return res
}

// evalTerm handles one operand. Dispatch order for a leading word: colon
// reference, quoted literal, numeric literal, bracketed list, then
// primitive lookup, then user-procedure lookup.
func (in *Interp) evalTerm(c *cursor, ctx exprCtx) Result {
	if c.atEnd() {
		if ctx.consumer != "" {
			return resultError(ErrNotEnoughInputs, ctx.consumer, "")
		}
		return resultNone
	}
	tok := c.next()
	if tok.IsList() {
		return resultOk(ListValue(tok))
	}

	word := in.Text(tok)
	switch {
	case word == "":
		return resultError(ErrDontKnowHow, "", word)
	case word[0] == ':':
		name := in.foldIntern(word[1:])
		v, bound := in.lookupName(name)
		if !bound || v.IsNone() {
			return resultError(ErrNoValue, "", word[1:])
		}
		return resultOk(v)
	case word[0] == '"':
		return resultOk(WordValue(in.Intern(word[1:])))
	case word == "(":
		return in.evalParen(c, ctx)
	case word == ")":
		return resultError(ErrUnexpectedParen, "", "")
	case word == "-":
		// unary minus in operand position
		res := in.evalTerm(c, argCtx("-"))
		if res.Status != StatusOk {
			return res
		}
		n, ok := in.asNumber(res.Value)
		if !ok {
			return resultError(ErrDoesntLikeInput, "-", in.format(res.Value, true))
		}
		return resultOk(NumberValue(-n))
	}
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return resultOk(NumberValue(n))
	}
	return in.apply(word, c, ctx, -1)
}

// evalParen reduces a parenthesized form: either a grouped expression or an
// application with an explicit, possibly variadic, argument count.
func (in *Interp) evalParen(c *cursor, ctx exprCtx) Result {
	word := c.peekWord()
	callable := word != "" && word != "(" && word != ")" &&
		!strings.ContainsAny(word[:1], `:"0123456789.+-*/=<>`) &&
		(in.isPrimitive(word) || in.ProcExists(word))
	if callable {
		c.next()
		res := in.apply(word, c, ctx, parenArity)
		if res.Status != StatusOk && res.breaks() {
			return res
		}
		if c.peekWord() != ")" {
			return resultError(ErrTooManyInputs, word, "")
		}
		c.next()
		return res
	}
	res := in.evalExpr(c, valueCtx)
	if res.Status != StatusOk {
		if res.Status == StatusNone {
			return resultError(ErrNotEnoughInputs, "(", "")
		}
		return res
	}
	if c.peekWord() != ")" {
		return resultError(ErrUnexpectedParen, "", "")
	}
	c.next()
	return res
}

// parenArity asks apply to consume arguments up to the closing paren.
const parenArity = -2

// apply invokes a primitive or user procedure by name, evaluating each
// argument expression left to right against the bindings as they stand
// before the call.
func (in *Interp) apply(name string, c *cursor, ctx exprCtx, arity int) Result {
	fold := strings.ToLower(name)
	prim := in.primitives[fold]
	proc := in.procs.procs[in.Intern(fold)]
	if prim == nil && proc == nil {
		return resultError(ErrDontKnowHow, "", name)
	}

	want := 0
	if prim != nil {
		want = prim.dflt
	} else {
		want = len(proc.params)
	}

	var args []Value
	if arity == parenArity {
		for c.peekWord() != ")" {
			if c.atEnd() {
				return resultError(ErrNotEnoughInputs, name, "")
			}
			res := in.evalExpr(c, argCtx(name))
			if res.Status != StatusOk {
				return in.badArg(res, name)
			}
			args = append(args, res.Value)
		}
		if prim != nil {
			if len(args) < prim.min {
				return resultError(ErrNotEnoughInputs, name, "")
			}
			if prim.max >= 0 && len(args) > prim.max {
				return resultError(ErrTooManyInputs, name, "")
			}
		} else if len(args) != want {
			if len(args) < want {
				return resultError(ErrNotEnoughInputs, name, "")
			}
			return resultError(ErrTooManyInputs, name, "")
		}
	} else {
		for len(args) < want {
			if c.atEnd() {
				return resultError(ErrNotEnoughInputs, name, "")
			}
			res := in.evalExpr(c, argCtx(name))
			if res.Status != StatusOk {
				return in.badArg(res, name)
			}
			args = append(args, res.Value)
		}
	}

	if prim != nil {
		res := in.callPrimitive(prim, args, ctx.tailOK && ctx.instr && c.atEnd())
		return in.finishCall(res, name, ctx)
	}

	// A paren-form call whose closing paren is the last token of the line
	// is still the line's last action; consume the paren so the tail check
	// below sees the end.
	if arity == parenArity && ctx.instr && ctx.tailOK && in.curFrame().proc != nil &&
		!in.Tail(c.rest).IsCons() {
		c.next()
	}

	// Tail position: the last action of the last body line reuses the
	// current frame. Every argument above was evaluated against the old
	// bindings, so rebinding in place is safe even when an argument reads
	// the parameter being replaced.
	if ctx.instr && ctx.tailOK && c.atEnd() && in.curFrame().proc != nil {
		in.curFrame().rebind(proc, args)
		return Result{Status: statusTail}
	}
	return in.finishCall(in.callProcedure(proc, args), name, ctx)
}

// badArg normalizes a failed argument evaluation: a command in operand
// position becomes a didn't-output error against its consumer.
func (in *Interp) badArg(res Result, consumer string) Result {
	if res.Status == StatusNone {
		return resultError(ErrDidntOutput, consumer, "it")
	}
	return res
}

// finishCall normalizes a call result for its context: values need an
// instruction-level consumer, commands need a value-level excuse.
func (in *Interp) finishCall(res Result, name string, ctx exprCtx) Result {
	if !ctx.instr && res.Status == StatusNone {
		consumer := ctx.consumer
		if consumer == "" {
			consumer = "expression"
		}
		return resultError(ErrDidntOutput, consumer, name)
	}
	return res
}

func (in *Interp) callPrimitive(prim *primitive, args []Value, tail bool) Result {
	if prim.tailfn != nil {
		return prim.tailfn(in, args, tail)
	}
	return prim.fn(in, args)
}

// callProcedure pushes a frame, runs the body, and loops while tail calls
// rebind the frame in place. Stop and falling off the end both yield None;
// Output carries the call's value; Throw and Error propagate unchanged.
func (in *Interp) callProcedure(proc *Procedure, args []Value) Result {
	fr := in.pushFrame(proc, args)
	defer in.popFrame()
	for {
		if fr.proc.traced {
			in.traceCall(fr.proc, fr)
		}
		res := in.runBody(fr)
		switch res.Status {
		case statusTail:
			continue
		case StatusOutput:
			if fr.proc.traced {
				in.writeLine(fr.proc.title + " outputs " + in.format(res.Value, true))
			}
			return resultOk(res.Value)
		case StatusStop, StatusNone:
			if fr.proc.traced {
				in.writeLine(fr.proc.title + " stops")
			}
			return resultNone
		default:
			return res
		}
	}
}

func (in *Interp) traceCall(proc *Procedure, fr *Frame) {
	var sb strings.Builder
	sb.WriteString(proc.title)
	for _, param := range proc.params {
		if v, ok := fr.lookup(param); ok {
			sb.WriteByte(' ')
			in.formatValue(&sb, v, true)
		}
	}
	in.writeLine(sb.String())
}

// runBody executes body lines in order. A goto scans for its label line and
// resumes there; the label instruction itself is a no-op, so execution
// continues with the rest of that line.
func (in *Interp) runBody(fr *Frame) Result {
	lines := fr.proc.lines
	for i := 0; i < len(lines); {
		if fr.proc.stepped {
			in.stepLine(lines[i])
		}
		res := in.runList(lines[i], i == len(lines)-1)
		switch res.Status {
		case StatusNone:
			i++
		case statusGoto:
			at, found := in.findLabel(fr.proc, res.Tag)
			if !found {
				return resultError(ErrCantFindLabel, "go", in.Text(res.Tag))
			}
			i = at
		default:
			return res
		}
	}
	return resultNone
}

// stepLine shows the next body line of a stepped procedure and waits for
// a line of input before running it.
func (in *Interp) stepLine(line Node) {
	in.writeString(in.format(ListValue(line), false) + " >>> ")
	_, _ = in.console.ReadLine("")
}

// findLabel locates the body line opening with `label "tag`.
func (in *Interp) findLabel(proc *Procedure, tag Node) (int, bool) {
	want := in.Text(tag)
	for i, line := range proc.lines {
		c := newCursor(in, line)
		if !strings.EqualFold(c.peekWord(), "label") {
			continue
		}
		c.next()
		if name := c.peekWord(); strings.EqualFold(strings.TrimPrefix(name, `"`), want) {
			return i, true
		}
	}
	return 0, false
}

// compare reduces the lowest-precedence operators to the words true/false.
func (in *Interp) compare(op string, a, b Value) Result {
	if op == "=" {
		return resultOk(in.boolWord(in.valuesEqual(a, b)))
	}
	x, okx := in.asNumber(a)
	y, oky := in.asNumber(b)
	if !okx {
		return resultError(ErrDoesntLikeInput, op, in.format(a, true))
	}
	if !oky {
		return resultError(ErrDoesntLikeInput, op, in.format(b, true))
	}
	if op == "<" {
		return resultOk(in.boolWord(x < y))
	}
	return resultOk(in.boolWord(x > y))
}

func (in *Interp) arith(op string, a, b Value) Result {
	x, okx := in.asNumber(a)
	y, oky := in.asNumber(b)
	if !okx {
		return resultError(ErrDoesntLikeInput, op, in.format(a, true))
	}
	if !oky {
		return resultError(ErrDoesntLikeInput, op, in.format(b, true))
	}
	switch op {
	case "+":
		return resultOk(NumberValue(x + y))
	case "-":
		return resultOk(NumberValue(x - y))
	case "*":
		return resultOk(NumberValue(x * y))
	}
	if y == 0 {
		return resultError(ErrDivideByZero, op, "")
	}
	return resultOk(NumberValue(x / y))
}

// valuesEqual compares numerically when both sides convert, textually
// (case-folded) for words, and structurally for lists.
func (in *Interp) valuesEqual(a, b Value) bool {
	if x, okx := in.asNumber(a); okx {
		if y, oky := in.asNumber(b); oky {
			return x == y
		}
		return false
	}
	if a.IsWord() && b.IsWord() {
		return strings.EqualFold(in.Text(a.node), in.Text(b.node))
	}
	if a.IsList() && b.IsList() {
		return in.chainsEqual(a.node, b.node)
	}
	return false
}

func (in *Interp) chainsEqual(a, b Node) bool {
	a, b = a.Unmark(), b.Unmark()
	for a.IsCons() && b.IsCons() {
		if !in.nodesEqual(in.Head(a), in.Head(b)) {
			return false
		}
		a, b = in.Tail(a), in.Tail(b)
	}
	return a.IsNil() && b.IsNil()
}

func (in *Interp) nodesEqual(a, b Node) bool {
	if a.IsList() || b.IsList() {
		return a.IsList() && b.IsList() && in.chainsEqual(a, b)
	}
	return a == b || strings.EqualFold(in.Text(a), in.Text(b))
}

func (in *Interp) boolWord(b bool) Value {
	if b {
		return WordValue(in.Intern("true"))
	}
	return WordValue(in.Intern("false"))
}

// asNumber converts a value to its numeric reading. Words convert only
// here, on demand: a numeric-looking word is not already a Number.
func (in *Interp) asNumber(v Value) (float64, bool) {
	switch v.kind {
	case valueNumber:
		return v.num, true
	case valueWord:
		n, err := strconv.ParseFloat(in.Text(v.node), 64)
		return n, err == nil
	}
	return 0, false
}

// truth reads the words true/false, as produced by the comparison
// operators and predicates.
func (in *Interp) truth(name string, v Value) (bool, Result) {
	if v.IsWord() {
		switch strings.ToLower(in.Text(v.node)) {
		case "true":
			return true, resultNone
		case "false":
			return false, resultNone
		}
	}
	return false, resultError(ErrDoesntLikeInput, name, in.format(v, true))
}
