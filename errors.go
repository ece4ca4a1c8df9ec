package logo

import (
	"errors"
	"fmt"
)

// ErrCode identifies a language-level error carried in a Result. Errors are
// values: no Go panic or error crosses an evaluation step for any of these.
type ErrCode int

const (
	ErrNone ErrCode = iota

	// input-shape errors
	ErrDoesntLikeInput // "<proc> doesn't like <arg> as input"
	ErrNotEnoughInputs // "not enough inputs to <proc>"
	ErrTooManyInputs   // "too many inputs to <proc>"
	ErrTooFewItems     // "too few items in <arg>"
	ErrDidntOutput     // "<arg> didn't output to <proc>"

	// name-resolution errors
	ErrDontKnowHow // "I don't know how to <arg>"
	ErrNoValue     // "<arg> has no value"

	// arithmetic errors
	ErrDivideByZero // "Can't divide by zero"

	// control-flow misuse
	ErrOnlyInProcedure // "Can only do that in a procedure"
	ErrCantFindLabel   // "Can't find label <arg>"
	ErrAtToplevel      // "Already at top level"

	// definition conflicts
	ErrIsPrimitive // "<arg> is a primitive"

	// parse errors
	ErrUnexpectedBracket // "Unexpected ']'"
	ErrUnexpectedParen   // "Unexpected ')'"

	// a value with nowhere to go
	ErrDontKnowWhat // "I don't know what to do with <arg>"

	// execution interruption
	ErrStopped // "Stopped!"
)

// Message renders the error with its procedure/argument context. The
// strings are fixed; front-ends print them verbatim.
func (code ErrCode) Message(proc, arg string) string {
	switch code {
	case ErrDoesntLikeInput:
		return fmt.Sprintf("%s doesn't like %s as input", proc, arg)
	case ErrNotEnoughInputs:
		return fmt.Sprintf("not enough inputs to %s", proc)
	case ErrTooManyInputs:
		return fmt.Sprintf("too many inputs to %s", proc)
	case ErrTooFewItems:
		return fmt.Sprintf("too few items in %s", arg)
	case ErrDidntOutput:
		return fmt.Sprintf("%s didn't output to %s", arg, proc)
	case ErrDontKnowHow:
		return fmt.Sprintf("I don't know how to %s", arg)
	case ErrNoValue:
		return fmt.Sprintf("%s has no value", arg)
	case ErrDivideByZero:
		return "Can't divide by zero"
	case ErrOnlyInProcedure:
		return "Can only do that in a procedure"
	case ErrCantFindLabel:
		return fmt.Sprintf("Can't find label %s", arg)
	case ErrAtToplevel:
		return "Already at top level"
	case ErrIsPrimitive:
		return fmt.Sprintf("%s is a primitive", arg)
	case ErrUnexpectedBracket:
		return "Unexpected ']'"
	case ErrUnexpectedParen:
		return "Unexpected ')'"
	case ErrDontKnowWhat:
		return fmt.Sprintf("I don't know what to do with %s", arg)
	case ErrStopped:
		return "Stopped!"
	}
	return fmt.Sprintf("error %d", int(code))
}

// haltError wraps a fatal host-level fault (workspace exhaustion, broken
// output stream). It unwinds by panic and is converted back to an error at
// the public API boundary; it is never part of the Result taxonomy.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

var errOutOfSpace = errors.New("Out of space")

// ErrInterrupted is returned by a Console read that was interrupted by the
// user. The REPL driver reports "Stopped!" and keeps reading.
var ErrInterrupted = errors.New("interrupted")
