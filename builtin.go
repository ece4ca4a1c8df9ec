package logo

import (
	"math"
	"strings"
)

// A primitive is one built-in operation, implemented against the public
// Value/Result/Frame surface. dflt is the operand count outside
// parentheses; min/max bound the parenthesized variadic form (max < 0 is
// unbounded). Primitives that run instruction lists take the tail flag so
// a branch ending a procedure body keeps the frame-reuse guarantee.
type primitive struct {
	name   string
	dflt   int
	min    int
	max    int
	fn     func(in *Interp, args []Value) Result
	tailfn func(in *Interp, args []Value, tail bool) Result
}

func (in *Interp) isPrimitive(name string) bool {
	_, defined := in.primitives[strings.ToLower(name)]
	return defined
}

func newPrimitives() map[string]*primitive {
	table := make(map[string]*primitive)
	reg := func(p *primitive, aliases ...string) {
		if p.min == 0 && p.max == 0 {
			p.min, p.max = p.dflt, p.dflt
		}
		table[p.name] = p
		for _, alias := range aliases {
			table[alias] = p
		}
	}

	// control flow
	reg(&primitive{name: "stop", fn: primStop})
	reg(&primitive{name: "output", dflt: 1, fn: primOutput}, "op")
	reg(&primitive{name: "repeat", dflt: 2, fn: primRepeat})
	reg(&primitive{name: "repcount", fn: primRepcount})
	reg(&primitive{name: "if", dflt: 2, min: 2, max: 3, tailfn: primIf})
	reg(&primitive{name: "ifelse", dflt: 3, tailfn: primIfelse})
	reg(&primitive{name: "test", dflt: 1, fn: primTest})
	reg(&primitive{name: "iftrue", dflt: 1, tailfn: primIftrue}, "ift")
	reg(&primitive{name: "iffalse", dflt: 1, tailfn: primIffalse}, "iff")
	reg(&primitive{name: "run", dflt: 1, tailfn: primRun})
	reg(&primitive{name: "go", dflt: 1, fn: primGo})
	reg(&primitive{name: "label", dflt: 1, fn: primLabel})
	reg(&primitive{name: "catch", dflt: 2, fn: primCatch})
	reg(&primitive{name: "throw", dflt: 1, fn: primThrow})
	reg(&primitive{name: "pause", fn: primPause})
	reg(&primitive{name: "co", fn: primCo})
	reg(&primitive{name: "bye", fn: primBye})

	// variables
	reg(&primitive{name: "make", dflt: 2, fn: primMake})
	reg(&primitive{name: "local", dflt: 1, min: 1, max: -1, fn: primLocal})
	reg(&primitive{name: "thing", dflt: 1, fn: primThing})

	// words and lists
	reg(&primitive{name: "first", dflt: 1, fn: primFirst})
	reg(&primitive{name: "butfirst", dflt: 1, fn: primButfirst}, "bf")
	reg(&primitive{name: "fput", dflt: 2, fn: primFput})
	reg(&primitive{name: "count", dflt: 1, fn: primCount})
	reg(&primitive{name: "emptyp", dflt: 1, fn: primEmptyp})
	reg(&primitive{name: "word", dflt: 2, min: 1, max: -1, fn: primWord})
	reg(&primitive{name: "sentence", dflt: 2, min: 1, max: -1, fn: primSentence}, "se")
	reg(&primitive{name: "list", dflt: 2, min: 1, max: -1, fn: primList})

	// arithmetic
	reg(&primitive{name: "sum", dflt: 2, min: 1, max: -1, fn: primSum})
	reg(&primitive{name: "difference", dflt: 2, fn: primDifference})
	reg(&primitive{name: "product", dflt: 2, min: 1, max: -1, fn: primProduct})
	reg(&primitive{name: "quotient", dflt: 2, fn: primQuotient})
	reg(&primitive{name: "remainder", dflt: 2, fn: primRemainder})
	reg(&primitive{name: "minus", dflt: 1, fn: primMinus})
	reg(&primitive{name: "int", dflt: 1, fn: primInt})
	reg(&primitive{name: "round", dflt: 1, fn: primRound})
	reg(&primitive{name: "bitand", dflt: 2, fn: primBitand})
	reg(&primitive{name: "bitor", dflt: 2, fn: primBitor})
	reg(&primitive{name: "bitxor", dflt: 2, fn: primBitxor})
	reg(&primitive{name: "bitnot", dflt: 1, fn: primBitnot})
	reg(&primitive{name: "lshift", dflt: 2, fn: primLshift})
	reg(&primitive{name: "ashift", dflt: 2, fn: primAshift})

	// predicates
	reg(&primitive{name: "not", dflt: 1, fn: primNot})
	reg(&primitive{name: "and", dflt: 2, min: 2, max: -1, fn: primAnd})
	reg(&primitive{name: "or", dflt: 2, min: 2, max: -1, fn: primOr})

	// console
	reg(&primitive{name: "print", dflt: 1, min: 0, max: -1, fn: primPrint}, "pr")
	reg(&primitive{name: "type", dflt: 1, min: 0, max: -1, fn: primType})
	reg(&primitive{name: "show", dflt: 1, fn: primShow})

	// workspace
	reg(&primitive{name: "define", dflt: 2, fn: primDefine})
	reg(&primitive{name: "text", dflt: 1, fn: primText})
	reg(&primitive{name: "erase", dflt: 1, fn: primErase}, "er")
	reg(&primitive{name: "procedurep", dflt: 1, fn: primProcedurep})
	reg(&primitive{name: "trace", dflt: 1, fn: primTrace})
	reg(&primitive{name: "untrace", dflt: 1, fn: primUntrace})
	reg(&primitive{name: "step", dflt: 1, fn: primStep})
	reg(&primitive{name: "unstep", dflt: 1, fn: primUnstep})
	reg(&primitive{name: "load", dflt: 1, fn: primLoad})

	return table
}

// argument shape helpers

func (in *Interp) needNumber(name string, v Value) (float64, Result) {
	if n, ok := in.asNumber(v); ok {
		return n, resultNone
	}
	return 0, resultError(ErrDoesntLikeInput, name, in.format(v, true))
}

func (in *Interp) needInt(name string, v Value) (int64, Result) {
	n, res := in.needNumber(name, v)
	if res.breaks() {
		return 0, res
	}
	if n != math.Trunc(n) {
		return 0, resultError(ErrDoesntLikeInput, name, in.format(v, true))
	}
	return int64(n), resultNone
}

func (in *Interp) needWord(name string, v Value) (string, Result) {
	switch v.kind {
	case valueWord:
		return in.Text(v.node), resultNone
	case valueNumber:
		return formatNumber(v.num), resultNone
	}
	return "", resultError(ErrDoesntLikeInput, name, in.format(v, true))
}

func (in *Interp) needList(name string, v Value) (Node, Result) {
	if v.IsList() {
		return v.node, resultNone
	}
	return NilNode, resultError(ErrDoesntLikeInput, name, in.format(v, true))
}

// valueNode is the arena rendering of a value, for use as a list element.
func (in *Interp) valueNode(v Value) Node {
	switch v.kind {
	case valueNumber:
		return in.Intern(formatNumber(v.num))
	case valueWord:
		return v.node
	case valueList:
		return v.node
	}
	return EmptyList
}

// nodeValue is the value reading of a list element.
func (in *Interp) nodeValue(n Node) Value {
	if n.IsList() {
		return ListValue(n)
	}
	return WordValue(n)
}

// control flow

func primStop(in *Interp, args []Value) Result { return resultStop }

func primOutput(in *Interp, args []Value) Result { return resultOutput(args[0]) }

func primRepeat(in *Interp, args []Value) Result {
	times, res := in.needInt("repeat", args[0])
	if res.breaks() {
		return res
	}
	list, res := in.needList("repeat", args[1])
	if res.breaks() {
		return res
	}
	fr := in.curFrame()
	prev := fr.repcount
	defer func() { fr.repcount = prev }()
	for i := int64(1); i <= times; i++ {
		fr.repcount = int(i)
		if res := in.runList(list, false); res.breaks() {
			return res
		}
	}
	return resultNone
}

func primRepcount(in *Interp, args []Value) Result {
	return resultOk(NumberValue(float64(in.curFrame().repcount)))
}

func primIf(in *Interp, args []Value, tail bool) Result {
	cond, res := in.truth("if", args[0])
	if res.breaks() {
		return res
	}
	if cond {
		list, res := in.needList("if", args[1])
		if res.breaks() {
			return res
		}
		return in.runList(list, tail)
	}
	if len(args) == 3 {
		list, res := in.needList("if", args[2])
		if res.breaks() {
			return res
		}
		return in.runList(list, tail)
	}
	return resultNone
}

func primIfelse(in *Interp, args []Value, tail bool) Result {
	cond, res := in.truth("ifelse", args[0])
	if res.breaks() {
		return res
	}
	pick := args[1]
	if !cond {
		pick = args[2]
	}
	list, res := in.needList("ifelse", pick)
	if res.breaks() {
		return res
	}
	return in.runList(list, tail)
}

func primTest(in *Interp, args []Value) Result {
	cond, res := in.truth("test", args[0])
	if res.breaks() {
		return res
	}
	if cond {
		in.curFrame().test = testTrue
	} else {
		in.curFrame().test = testFalse
	}
	return resultNone
}

func primIftrue(in *Interp, args []Value, tail bool) Result {
	if in.testValue() != testTrue {
		return resultNone
	}
	list, res := in.needList("iftrue", args[0])
	if res.breaks() {
		return res
	}
	return in.runList(list, tail)
}

func primIffalse(in *Interp, args []Value, tail bool) Result {
	if in.testValue() != testFalse {
		return resultNone
	}
	list, res := in.needList("iffalse", args[0])
	if res.breaks() {
		return res
	}
	return in.runList(list, tail)
}

func primRun(in *Interp, args []Value, tail bool) Result {
	list, res := in.needList("run", args[0])
	if res.breaks() {
		return res
	}
	return in.runList(list, tail)
}

func primGo(in *Interp, args []Value) Result {
	if in.curFrame().proc == nil {
		return resultError(ErrOnlyInProcedure, "go", "")
	}
	tag, res := in.needWord("go", args[0])
	if res.breaks() {
		return res
	}
	return Result{Status: statusGoto, Tag: in.Intern(tag)}
}

func primLabel(in *Interp, args []Value) Result { return resultNone }

func primCatch(in *Interp, args []Value) Result {
	tag, res := in.needWord("catch", args[0])
	if res.breaks() {
		return res
	}
	list, res := in.needList("catch", args[1])
	if res.breaks() {
		return res
	}
	res = in.runList(list, false)
	switch res.Status {
	case StatusThrow:
		if strings.EqualFold(in.Text(res.Tag), tag) {
			return resultNone
		}
	case StatusError:
		if strings.EqualFold(tag, "error") {
			return resultNone
		}
	}
	return res
}

func primThrow(in *Interp, args []Value) Result {
	tag, res := in.needWord("throw", args[0])
	if res.breaks() {
		return res
	}
	return resultThrow(in.Intern(tag))
}

func primPause(in *Interp, args []Value) Result { return in.pause() }

func primCo(in *Interp, args []Value) Result {
	return Result{Status: statusResume}
}

func primBye(in *Interp, args []Value) Result {
	in.quit = true
	return resultThrow(in.Intern("toplevel"))
}

// variables

func primMake(in *Interp, args []Value) Result {
	name, res := in.needWord("make", args[0])
	if res.breaks() {
		return res
	}
	in.setName(in.foldIntern(name), args[1])
	return resultNone
}

func primLocal(in *Interp, args []Value) Result {
	for _, arg := range args {
		if arg.IsList() {
			for n := arg.node.Unmark(); n.IsCons(); n = in.Tail(n) {
				in.localName(in.foldIntern(in.Text(in.Head(n))))
			}
			continue
		}
		name, res := in.needWord("local", arg)
		if res.breaks() {
			return res
		}
		in.localName(in.foldIntern(name))
	}
	return resultNone
}

func primThing(in *Interp, args []Value) Result {
	name, res := in.needWord("thing", args[0])
	if res.breaks() {
		return res
	}
	v, bound := in.lookupName(in.foldIntern(name))
	if !bound || v.IsNone() {
		return resultError(ErrNoValue, "", name)
	}
	return resultOk(v)
}

// words and lists

func primFirst(in *Interp, args []Value) Result {
	if args[0].IsList() {
		n := args[0].node.Unmark()
		if !n.IsCons() {
			return resultError(ErrTooFewItems, "first", in.format(args[0], true))
		}
		return resultOk(in.nodeValue(in.Head(n)))
	}
	word, res := in.needWord("first", args[0])
	if res.breaks() {
		return res
	}
	if word == "" {
		return resultError(ErrTooFewItems, "first", in.format(args[0], true))
	}
	runes := []rune(word)
	return resultOk(WordValue(in.Intern(string(runes[:1]))))
}

func primButfirst(in *Interp, args []Value) Result {
	if args[0].IsList() {
		n := args[0].node.Unmark()
		if !n.IsCons() {
			return resultError(ErrTooFewItems, "butfirst", in.format(args[0], true))
		}
		return resultOk(ListValue(in.Tail(n)))
	}
	word, res := in.needWord("butfirst", args[0])
	if res.breaks() {
		return res
	}
	if word == "" {
		return resultError(ErrTooFewItems, "butfirst", in.format(args[0], true))
	}
	runes := []rune(word)
	return resultOk(WordValue(in.Intern(string(runes[1:]))))
}

func primFput(in *Interp, args []Value) Result {
	list, res := in.needList("fput", args[1])
	if res.breaks() {
		return res
	}
	return resultOk(ListValue(in.Cons(in.valueNode(args[0]), list.Unmark())))
}

func primCount(in *Interp, args []Value) Result {
	if args[0].IsList() {
		return resultOk(NumberValue(float64(in.ListLen(args[0].node.Unmark()))))
	}
	word, res := in.needWord("count", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(NumberValue(float64(len([]rune(word)))))
}

func primEmptyp(in *Interp, args []Value) Result {
	switch {
	case args[0].IsList():
		return resultOk(in.boolWord(!args[0].node.IsCons()))
	case args[0].IsWord():
		return resultOk(in.boolWord(in.Text(args[0].node) == ""))
	}
	return resultOk(in.boolWord(false))
}

func primWord(in *Interp, args []Value) Result {
	var sb strings.Builder
	for _, arg := range args {
		word, res := in.needWord("word", arg)
		if res.breaks() {
			return res
		}
		sb.WriteString(word)
	}
	return resultOk(WordValue(in.Intern(sb.String())))
}

func primSentence(in *Interp, args []Value) Result {
	lb := listBuilder{a: &in.arena}
	for _, arg := range args {
		if arg.IsList() {
			for n := arg.node.Unmark(); n.IsCons(); n = in.Tail(n) {
				lb.append(in.Head(n))
			}
			continue
		}
		lb.append(in.valueNode(arg))
	}
	return resultOk(ListValue(lb.list()))
}

func primList(in *Interp, args []Value) Result {
	lb := listBuilder{a: &in.arena}
	for _, arg := range args {
		lb.append(in.valueNode(arg))
	}
	return resultOk(ListValue(lb.list()))
}

// arithmetic

func primSum(in *Interp, args []Value) Result {
	total := 0.0
	for _, arg := range args {
		n, res := in.needNumber("sum", arg)
		if res.breaks() {
			return res
		}
		total += n
	}
	return resultOk(NumberValue(total))
}

func primDifference(in *Interp, args []Value) Result {
	return in.arith("-", args[0], args[1])
}

func primProduct(in *Interp, args []Value) Result {
	total := 1.0
	for _, arg := range args {
		n, res := in.needNumber("product", arg)
		if res.breaks() {
			return res
		}
		total *= n
	}
	return resultOk(NumberValue(total))
}

func primQuotient(in *Interp, args []Value) Result {
	return in.arith("/", args[0], args[1])
}

func primRemainder(in *Interp, args []Value) Result {
	x, res := in.needNumber("remainder", args[0])
	if res.breaks() {
		return res
	}
	y, res := in.needNumber("remainder", args[1])
	if res.breaks() {
		return res
	}
	if y == 0 {
		return resultError(ErrDivideByZero, "remainder", "")
	}
	return resultOk(NumberValue(math.Mod(x, y)))
}

func primMinus(in *Interp, args []Value) Result {
	n, res := in.needNumber("minus", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(NumberValue(-n))
}

func primInt(in *Interp, args []Value) Result {
	n, res := in.needNumber("int", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(NumberValue(math.Trunc(n)))
}

func primRound(in *Interp, args []Value) Result {
	n, res := in.needNumber("round", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(NumberValue(math.Round(n)))
}

func primBitand(in *Interp, args []Value) Result { return in.bitop("bitand", args) }
func primBitor(in *Interp, args []Value) Result  { return in.bitop("bitor", args) }
func primBitxor(in *Interp, args []Value) Result { return in.bitop("bitxor", args) }

func (in *Interp) bitop(name string, args []Value) Result {
	x, res := in.needInt(name, args[0])
	if res.breaks() {
		return res
	}
	y, res := in.needInt(name, args[1])
	if res.breaks() {
		return res
	}
	var out int64
	switch name {
	case "bitand":
		out = x & y
	case "bitor":
		out = x | y
	default:
		out = x ^ y
	}
	return resultOk(NumberValue(float64(out)))
}

func primBitnot(in *Interp, args []Value) Result {
	x, res := in.needInt("bitnot", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(NumberValue(float64(^x)))
}

// primLshift shifts logically; primAshift preserves sign on right shifts.
// Both shift left for a positive count and right for a negative one.

func primLshift(in *Interp, args []Value) Result {
	x, res := in.needInt("lshift", args[0])
	if res.breaks() {
		return res
	}
	by, res := in.needInt("lshift", args[1])
	if res.breaks() {
		return res
	}
	if by >= 0 {
		return resultOk(NumberValue(float64(uint64(x) << uint(by))))
	}
	return resultOk(NumberValue(float64(uint64(x) >> uint(-by))))
}

func primAshift(in *Interp, args []Value) Result {
	x, res := in.needInt("ashift", args[0])
	if res.breaks() {
		return res
	}
	by, res := in.needInt("ashift", args[1])
	if res.breaks() {
		return res
	}
	if by >= 0 {
		return resultOk(NumberValue(float64(x << uint(by))))
	}
	return resultOk(NumberValue(float64(x >> uint(-by))))
}

// predicates

func primNot(in *Interp, args []Value) Result {
	cond, res := in.truth("not", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(in.boolWord(!cond))
}

func primAnd(in *Interp, args []Value) Result {
	for _, arg := range args {
		cond, res := in.truth("and", arg)
		if res.breaks() {
			return res
		}
		if !cond {
			return resultOk(in.boolWord(false))
		}
	}
	return resultOk(in.boolWord(true))
}

func primOr(in *Interp, args []Value) Result {
	for _, arg := range args {
		cond, res := in.truth("or", arg)
		if res.breaks() {
			return res
		}
		if cond {
			return resultOk(in.boolWord(true))
		}
	}
	return resultOk(in.boolWord(false))
}

// console

func primPrint(in *Interp, args []Value) Result {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		in.formatValue(&sb, arg, false)
	}
	sb.WriteByte('\n')
	in.writeString(sb.String())
	return resultNone
}

func primType(in *Interp, args []Value) Result {
	var sb strings.Builder
	for _, arg := range args {
		in.formatValue(&sb, arg, false)
	}
	in.writeString(sb.String())
	return resultNone
}

func primShow(in *Interp, args []Value) Result {
	in.writeLine(in.format(args[0], true))
	return resultNone
}

// workspace

func primDefine(in *Interp, args []Value) Result {
	name, res := in.needWord("define", args[0])
	if res.breaks() {
		return res
	}
	list, res := in.needList("define", args[1])
	if res.breaks() {
		return res
	}
	return in.ProcDefine(name, list)
}

func primText(in *Interp, args []Value) Result {
	name, res := in.needWord("text", args[0])
	if res.breaks() {
		return res
	}
	proc := in.ProcFind(name)
	if proc == nil {
		return resultError(ErrDontKnowHow, "", name)
	}
	return resultOk(ListValue(proc.body))
}

func primErase(in *Interp, args []Value) Result {
	if args[0].IsList() {
		for n := args[0].node.Unmark(); n.IsCons(); n = in.Tail(n) {
			in.ProcErase(in.Text(in.Head(n)))
		}
		return resultNone
	}
	name, res := in.needWord("erase", args[0])
	if res.breaks() {
		return res
	}
	if in.isPrimitive(name) {
		return resultError(ErrIsPrimitive, "erase", name)
	}
	in.ProcErase(name)
	return resultNone
}

func primProcedurep(in *Interp, args []Value) Result {
	name, res := in.needWord("procedurep", args[0])
	if res.breaks() {
		return res
	}
	return resultOk(in.boolWord(in.ProcExists(name) || in.isPrimitive(name)))
}

func primTrace(in *Interp, args []Value) Result {
	return in.setProcFlag("trace", args[0], func(p *Procedure) { p.traced = true })
}

func primUntrace(in *Interp, args []Value) Result {
	return in.setProcFlag("untrace", args[0], func(p *Procedure) { p.traced = false })
}

func primStep(in *Interp, args []Value) Result {
	return in.setProcFlag("step", args[0], func(p *Procedure) { p.stepped = true })
}

func primUnstep(in *Interp, args []Value) Result {
	return in.setProcFlag("unstep", args[0], func(p *Procedure) { p.stepped = false })
}

func (in *Interp) setProcFlag(name string, arg Value, set func(p *Procedure)) Result {
	if arg.IsList() {
		for n := arg.node.Unmark(); n.IsCons(); n = in.Tail(n) {
			if proc := in.ProcFind(in.Text(in.Head(n))); proc != nil {
				set(proc)
			}
		}
		return resultNone
	}
	word, res := in.needWord(name, arg)
	if res.breaks() {
		return res
	}
	proc := in.ProcFind(word)
	if proc == nil {
		return resultError(ErrDontKnowHow, "", word)
	}
	set(proc)
	return resultNone
}

func primLoad(in *Interp, args []Value) Result {
	name, res := in.needWord("load", args[0])
	if res.breaks() {
		return res
	}
	return in.loadFile(name)
}
