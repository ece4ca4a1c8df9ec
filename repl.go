package logo

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// The REPL driver is a three-state machine per session: Idle reads and
// dispatches whole instructions, ProcDef collects a to...end definition,
// and BracketCont joins physical lines while a bracket group stays open.
// Nested pause sessions run the same machine with a procedure-name prompt
// prefix.
type sessionState int

const (
	stateIdle sessionState = iota
	stateProcDef
	stateBracketCont
)

// session reads and executes lines until end of input, co (in a pause
// session), or a throw to "toplevel". The returned Result is StatusNone
// for a normal return and the throw itself when unwinding.
func (in *Interp) session(prefix string, paused bool) Result {
	state := stateIdle
	var defText strings.Builder
	var cont string
	balance := 0
	defBalance := 0

	for {
		line, err := in.console.ReadLine(in.prompt(prefix, state))
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				in.writeLine("Stopped!")
				state, balance, defBalance = stateIdle, 0, 0
				defText.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return resultNone
			}
			panic(haltError{err})
		}

		switch state {
		case stateProcDef:
			// end terminates only alone on its line and outside any open
			// bracket group
			if defBalance <= 0 && strings.EqualFold(strings.TrimSpace(line), "end") {
				defText.WriteString("end\n")
				name, res := in.ProcDefineFromText(defText.String())
				defText.Reset()
				state = stateIdle
				if res.breaks() {
					in.writeLine(res.Message(in))
					continue
				}
				in.writeLine(name + " defined")
				continue
			}
			defText.WriteString(line)
			defText.WriteByte('\n')
			defBalance += bracketBalance(line)

		case stateBracketCont:
			cont += " " + line
			if balance += bracketBalance(line); balance > 0 {
				continue
			}
			state, balance = stateIdle, 0
			if done, res := in.dispatch(in.execute(cont), paused); done {
				return res
			}

		default:
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, ";") {
				continue
			}
			if first := strings.Fields(trimmed)[0]; strings.EqualFold(first, "to") && in.defsOK {
				defText.Reset()
				defText.WriteString(line)
				defText.WriteByte('\n')
				state, defBalance = stateProcDef, 0
				continue
			}
			if balance = bracketBalance(line); balance > 0 {
				cont = line
				state = stateBracketCont
				continue
			}
			balance = 0
			if done, res := in.dispatch(in.execute(line), paused); done {
				return res
			}
		}
	}
}

// prompt renders the session prompt for a state, suppressed entirely when
// the reader is not a keyboard or the screen is frozen.
func (in *Interp) prompt(prefix string, state sessionState) string {
	if !in.console.IsKeyboard() {
		return ""
	}
	if in.hardware != nil && in.hardware.Frozen() {
		return ""
	}
	switch state {
	case stateProcDef:
		return prefix + ">"
	case stateBracketCont:
		return prefix + "~"
	}
	return prefix + "?"
}

// dispatch applies the top-level policy to one executed instruction
// sequence: errors print and the session goes on; a throw to "toplevel"
// unwinds this session (and, chained, every enclosing pause session);
// other throws and orphaned values print their one-line complaint.
func (in *Interp) dispatch(res Result, paused bool) (done bool, out Result) {
	switch res.Status {
	case StatusError:
		in.writeLine(res.Message(in))
	case StatusThrow:
		if strings.EqualFold(in.Text(res.Tag), "toplevel") {
			return true, res
		}
		in.writeLine("Can't find a catch for " + in.Text(res.Tag))
	case StatusOk, StatusOutput:
		in.writeLine("I don't know what to do with " + in.format(res.Value, true))
	case statusResume:
		if paused {
			return true, resultNone
		}
		in.writeLine(ErrAtToplevel.Message("co", ""))
	}
	return false, resultNone
}

// pause suspends the current invocation under a nested session bound to
// the live frame stack, so the procedure's bindings stay visible and
// mutable. co resumes after the pause call; a throw to "toplevel" keeps
// unwinding through every suspended invocation.
func (in *Interp) pause() Result {
	fr := in.curFrame()
	if fr.proc == nil {
		return resultError(ErrAtToplevel, "pause", "")
	}
	in.writeLine("Pausing...")
	res := in.session(fr.proc.title, true)
	if res.Status == StatusThrow {
		return res
	}
	return resultNone
}

// loadFile streams a named source through a non-interactive session:
// definitions allowed, prompts suppressed, output still on the live
// console.
func (in *Interp) loadFile(name string) Result {
	if in.storage == nil {
		return resultError(ErrDoesntLikeInput, "load", name)
	}
	f, err := in.storage.Open(name)
	if err != nil {
		return resultError(ErrDoesntLikeInput, "load", name)
	}
	defer f.Close()

	saved := in.console
	defer func() { in.console = saved }()
	in.console = &loadConsole{lines: bufio.NewScanner(f), out: saved}

	res := in.session("", false)
	if res.Status == StatusThrow {
		return res
	}
	return resultNone
}

// loadConsole reads from a stored stream while writing through the live
// console; it never identifies as a keyboard.
type loadConsole struct {
	lines *bufio.Scanner
	out   Console
}

func (lc *loadConsole) ReadLine(prompt string) (string, error) {
	if !lc.lines.Scan() {
		if err := lc.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(lc.lines.Text(), "\r"), nil
}

func (lc *loadConsole) WriteString(s string) error { return lc.out.WriteString(s) }
func (lc *loadConsole) Flush() error               { return lc.out.Flush() }
func (lc *loadConsole) IsKeyboard() bool           { return false }
func (lc *loadConsole) IsScreen() bool             { return lc.out.IsScreen() }
