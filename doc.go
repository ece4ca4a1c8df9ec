/* Package logo interprets a small dialect of the Logo language.

Logo is a 1967 Lisp descendant best remembered for turtle graphics, but
underneath the turtle is a real list-processing language: words and lists,
procedures defined at the keyboard with to ... end, dynamic scoping, and an
interactive toplevel that doubles as a debugger. This package implements
that core, sized for machines where the whole workspace fits in a few
thousand cells.

Everything the interpreter manipulates lives in one node arena. A node is
either an interned word or a pair, and a list is a chain of pairs carrying
a mark bit so that an empty list stays distinct from the absence of a
value. Source lines are read once into node chains, and procedure bodies
are those chains kept verbatim, so a defined procedure prints back exactly
as it was typed.

Evaluation is expression-oriented. Operators +, -, *, / and the
comparisons parse with conventional precedence; everything else is a
prefix call that takes a fixed number of inputs, or a variable number
inside parentheses. Procedure calls push activation frames onto one stack
and variables resolve dynamically along it, newest frame first. A
procedure call in tail position reuses its caller's frame, so iterative
recursion runs in constant stack.

The toplevel is a session: a prompt, a line, an outcome. Lines beginning
with to collect a definition; lines with open brackets continue onto the
next physical line. The pause primitive suspends a running procedure under
a nested session that shares its frame, where bindings can be inspected
and changed before co resumes; throw "toplevel unwinds the whole tower.

An interpreter is built with New and driven with Run, or fed single lines
with Execute:

	in := logo.New(logo.WithInput(src), logo.WithOutput(os.Stdout))
	err := in.Run(ctx)

Instances are self-contained and independent. The interpreter talks to the
outside world only through the Console, Hardware, and Storage interfaces,
so front-ends decide what a keyboard, a break key, or a named file means.

See cmd/logo for a terminal front-end.
*/
package logo
