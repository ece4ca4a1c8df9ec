package logo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defineFromText(t *testing.T, in *Interp, text string) *Procedure {
	name, res := in.ProcDefineFromText(text)
	require.Equal(t, StatusNone, res.Status, "definition failed: %v", res.Message(in))
	proc := in.ProcFind(name)
	require.NotNil(t, proc)
	return proc
}

func TestDefineFromText(t *testing.T) {
	in := New()
	proc := defineFromText(t, in, `to greet :who
print :who
end
`)
	assert.Equal(t, "greet", proc.Name())
	assert.Len(t, proc.params, 1)
	assert.Len(t, proc.lines, 1)
	assert.True(t, in.ProcExists("GREET"), "lookup folds case")
}

func TestParamsBindFromTitle(t *testing.T) {
	in := New()
	var out strings.Builder
	WithOutput(&out).apply(in)

	defineFromText(t, in, "to pair :First :second\nprint list :first :SECOND\nend\n")
	res, err := in.Execute(`pair "a "b`)
	require.NoError(t, err)
	require.Equal(t, StatusNone, res.Status)
	assert.Equal(t, "a b\n", out.String(), "parameters bind in title order, case folded")
}

func TestDefineRoundTrip(t *testing.T) {
	in := New()
	text := `to demo :a :b
print :a

print [list with [nested] parts]
make "t []
end
`
	proc := defineFromText(t, in, text)
	formatted := in.FormatProc(proc)
	assert.Equal(t, text, formatted, "formatting reproduces the definition")

	again := defineFromText(t, in, formatted)
	assert.Equal(t, formatted, in.FormatProc(again), "format and reparse compose to the identity")
}

func TestDefineJoinsBracketGroups(t *testing.T) {
	in := New()
	proc := defineFromText(t, in, `to spread
make "t [group
spanning lines]
end
`)
	require.Len(t, proc.lines, 1, "the group folds into one logical line")
	assert.Equal(t, `to spread
make "t [group spanning lines]
end
`, in.FormatProc(proc))
}

func TestEndInsideBracketsDoesNotTerminate(t *testing.T) {
	in := New()
	proc := defineFromText(t, in, `to tricky
print [one
end
two]
end
`)
	require.Len(t, proc.lines, 1)
	assert.Equal(t, "to tricky\nprint [one end two]\nend\n", in.FormatProc(proc))
}

func TestEndWithTrailingTokensIsBody(t *testing.T) {
	in := New()
	proc := defineFromText(t, in, `to wordy
print "end
end
`)
	require.Len(t, proc.lines, 1)
	assert.Equal(t, "to wordy\nprint \"end\nend\n", in.FormatProc(proc))
}

func TestDefineErrors(t *testing.T) {
	in := New()

	_, res := in.ProcDefineFromText("to\nend\n")
	assert.Equal(t, StatusError, res.Status)

	_, res = in.ProcDefineFromText("to f bare\nend\n")
	assert.Equal(t, ErrDoesntLikeInput, res.Code, "parameters need their colons")

	_, res = in.ProcDefineFromText("to print\nend\n")
	assert.Equal(t, ErrIsPrimitive, res.Code)

	_, res = in.ProcDefineFromText("to f\nprint :x\n")
	assert.Equal(t, StatusError, res.Status, "a definition without end cannot complete")
}

func TestProcDefineFromList(t *testing.T) {
	in := New()
	def, res := in.ParseLine("[x] [output :x + :x]")
	require.Equal(t, StatusNone, res.Status)

	res = in.ProcDefine("double", def)
	require.Equal(t, StatusNone, res.Status)

	var out strings.Builder
	WithOutput(&out).apply(in)
	runRes, err := in.Execute("print double 21")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, runRes.Status)
	assert.Equal(t, "42\n", out.String())
}

func TestEraseAndNames(t *testing.T) {
	in := New()
	defineFromText(t, in, "to one\nend\n")
	defineFromText(t, in, "to two\nend\n")
	assert.Equal(t, []string{"one", "two"}, in.ProcNames())

	defineFromText(t, in, "to one :x\nend\n")
	assert.Equal(t, []string{"one", "two"}, in.ProcNames(), "redefinition keeps position")

	in.ProcErase("one")
	assert.Equal(t, []string{"two"}, in.ProcNames())
	assert.False(t, in.ProcExists("one"))

	in.ProcErase("never")
}

func TestTextPrimitive(t *testing.T) {
	in := New()
	var out strings.Builder
	WithOutput(&out).apply(in)

	defineFromText(t, in, "to f :x\nprint :x\nend\n")
	res, err := in.Execute(`print count text "f`)
	require.NoError(t, err)
	require.Equal(t, StatusNone, res.Status)
	assert.Equal(t, "2\n", out.String(), "one parameter list plus one body line")
}
