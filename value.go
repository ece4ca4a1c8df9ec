package logo

import (
	"math"
	"strconv"
	"strings"
)

// A Value is what an expression reduces to: a decoded number, a word, or a
// list. Words and numbers are distinct even when a word's text looks
// numeric; conversion is always explicit (see asNumber).
type Value struct {
	kind valueKind
	num  float64
	node Node
}

type valueKind uint8

const (
	valueNone valueKind = iota
	valueNumber
	valueWord
	valueList
)

// NumberValue makes a Number value.
func NumberValue(n float64) Value { return Value{kind: valueNumber, num: n} }

// WordValue makes a Word value from an interned atom.
func WordValue(n Node) Value { return Value{kind: valueWord, node: n} }

// ListValue makes a List value from a list-marked node.
func ListValue(n Node) Value { return Value{kind: valueList, node: n.Mark()} }

// IsNone reports an absent value (an unassigned local, a command result).
func (v Value) IsNone() bool   { return v.kind == valueNone }
func (v Value) IsNumber() bool { return v.kind == valueNumber }
func (v Value) IsWord() bool   { return v.kind == valueWord }
func (v Value) IsList() bool   { return v.kind == valueList }

// Number returns the numeric payload; only meaningful when IsNumber.
func (v Value) Number() float64 { return v.num }

// Node returns the arena reference of a Word or List value.
func (v Value) Node() Node { return v.node }

// Status classifies a Result: how an evaluation step ended.
type Status int

const (
	// StatusOk carries a value to the consuming expression.
	StatusOk Status = iota
	// StatusNone is the quiet completion of a command.
	StatusNone
	// StatusStop ends the current procedure invocation without a value.
	StatusStop
	// StatusOutput ends the current invocation, supplying the call's value.
	StatusOutput
	// StatusThrow is a tagged non-local exit looking for a matching catch.
	StatusThrow
	// StatusError aborts evaluation with a reportable error.
	StatusError

	// statusGoto transfers control to a label within the current body.
	statusGoto
	// statusTail signals that the current frame was rebound in place for a
	// tail call and the body loop should restart.
	statusTail
	// statusResume ends a pause session, resuming the suspended invocation.
	statusResume
)

// A Result is the universal control-flow carrier returned by every
// evaluation step. Every caller inspects Status explicitly; there is no
// exception path through the evaluator.
type Result struct {
	Status Status
	Value  Value
	Tag    Node // throw tag or goto label
	Code   ErrCode
	Proc   string // procedure context for error rendering
	Arg    string // argument text for error rendering
}

var (
	resultNone = Result{Status: StatusNone}
	resultStop = Result{Status: StatusStop}
)

func resultOk(v Value) Result     { return Result{Status: StatusOk, Value: v} }
func resultOutput(v Value) Result { return Result{Status: StatusOutput, Value: v} }
func resultThrow(tag Node) Result { return Result{Status: StatusThrow, Tag: tag} }

func resultError(code ErrCode, proc, arg string) Result {
	return Result{Status: StatusError, Code: code, Proc: proc, Arg: arg}
}

// breaks reports whether the result ends the current instruction sequence.
func (res Result) breaks() bool { return res.Status > StatusNone }

// Message renders an error or uncaught-throw result for the console.
func (res Result) Message(in *Interp) string {
	switch res.Status {
	case StatusError:
		return res.Code.Message(res.Proc, res.Arg)
	case StatusThrow:
		return "No one caught " + in.Text(res.Tag)
	}
	return ""
}

// formatNumber prints integers without a fraction and everything else in
// shortest-roundtrip form, the way the console always has.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// format renders a value as print would: words bare, list elements space
// separated, nested lists bracketed. The outermost brackets of a list are
// shown only when outer is set (show vs print).
func (in *Interp) format(v Value, outer bool) string {
	var sb strings.Builder
	in.formatValue(&sb, v, outer)
	return sb.String()
}

func (in *Interp) formatValue(sb *strings.Builder, v Value, outer bool) {
	switch v.kind {
	case valueNumber:
		sb.WriteString(formatNumber(v.num))
	case valueWord:
		sb.WriteString(in.Text(v.node))
	case valueList:
		if outer {
			sb.WriteByte('[')
		}
		in.formatChain(sb, v.node)
		if outer {
			sb.WriteByte(']')
		}
	}
}

func (in *Interp) formatChain(sb *strings.Builder, n Node) {
	for first := true; n.IsCons(); n = in.Tail(n) {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		in.formatNode(sb, in.Head(n))
	}
}

func (in *Interp) formatNode(sb *strings.Builder, n Node) {
	if n.IsList() {
		sb.WriteByte('[')
		in.formatChain(sb, n)
		sb.WriteByte(']')
		return
	}
	sb.WriteString(in.Text(n))
}
