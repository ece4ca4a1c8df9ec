package logo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterp(t *testing.T) {
	logoTestCases{

		logoTest("print a sum").
			withInput(`print 1 + 2` + "\n").
			expectOutput("3\n"),

		logoTest("precedence").
			withInput(`print 1 + 2 * 3` + "\n").
			expectOutput("7\n"),

		logoTest("prefix arithmetic").
			withInput(`print sum 1 2
print difference 5 2
print product 3 4
print quotient 10 4
print remainder 7 3
`).
			expectOutput("3\n3\n12\n2.5\n1\n"),

		logoTest("variadic paren forms").
			withInput(`print (sum 1 2 3 4)
(print "a "b "c)
`).
			expectOutput("10\na b c\n"),

		logoTest("grouped expression").
			withInput(`print (1 + 2) * 3` + "\n").
			expectOutput("9\n"),

		logoTest("negative literal vs subtraction").
			withInput(`print -5
make "x 10
print :x - 3
print :x-3
`).
			expectOutput("-5\n7\n7\n"),

		logoTest("words and lists").
			withInput(`print "hello
print [a b [c d]]
show [a b [c d]]
show []
`).
			expectOutput("hello\na b [c d]\n[a b [c d]]\n[]\n"),

		logoTest("list surgery").
			withInput(`print first [a b c]
print butfirst [a b c]
print first "word
print butfirst "word
print count [a b c]
print count "word
print fput "x [y z]
show fput "x []
print emptyp []
print emptyp [a]
`).
			expectOutput("a\nb c\nw\nord\n3\n4\nx y z\n[x]\ntrue\nfalse\n"),

		logoTest("word sentence list").
			withInput(`print word "foo "bar
print sentence [a b] [c d]
show list [a b] "c
`).
			expectOutput("foobar\na b c d\n[[a b] c]\n"),

		logoTest("make and thing").
			withInput(`make "x 5
print :x
print thing "x
make "x :x + 1
print :x
`).
			expectOutput("5\n5\n6\n"),

		logoTest("comparisons and logic").
			withInput(`print 1 < 2
print 2 > 3
print "abc = "ABC
print not "false
print and 1 < 2 2 < 3
print or "false "false
`).
			expectOutput("true\nfalse\ntrue\ntrue\ntrue\nfalse\n"),

		logoTest("repeat and repcount").
			withInput(`repeat 3 [print repcount]` + "\n").
			expectOutput("1\n2\n3\n"),

		logoTest("nested repeat restarts and restores the counter").
			withInput(`repeat 2 [repeat 3 [print repcount] print repcount]` + "\n").
			expectOutput("1\n2\n3\n1\n1\n2\n3\n2\n"),

		logoTest("if and ifelse").
			withInput(`if 1 < 2 [print "yes]
if 2 < 1 [print "no]
ifelse 2 < 1 [print "then] [print "else]
if 2 < 1 [print "then] [print "else]
`).
			expectOutput("yes\nelse\nelse\n"),

		logoTest("test iftrue iffalse").
			withInput(`test 1 < 2
iftrue [print "yes]
iffalse [print "no]
test 2 < 1
iffalse [print "now]
`).
			expectOutput("yes\nnow\n"),

		logoTest("run").
			withInput(`run [print "ran]` + "\n").
			expectOutput("ran\n"),

		logoTest("bitwise").
			withInput(`print bitand 12 10
print bitor 12 10
print bitxor 12 10
print bitnot 0
print lshift 1 4
print lshift 16 -4
print ashift -16 -2
`).
			expectOutput("8\n14\n6\n-1\n16\n1\n-4\n"),

		logoTest("rounding").
			withInput(`print int 2.7
print round 2.7
print minus 3
`).
			expectOutput("2\n3\n-3\n"),

		logoTest("unbound variable reports and continues").
			withInput(`print :nope
print "after
`).
			expectOutput("nope has no value\nafter\n"),

		logoTest("unknown procedure").
			withInput(`frobnicate` + "\n").
			expectOutput("I don't know how to frobnicate\n"),

		logoTest("divide by zero").
			withInput(`print 1 / 0` + "\n").
			expectOutput("Can't divide by zero\n"),

		logoTest("orphaned value").
			withInput(`3 + 4` + "\n").
			expectOutput("I don't know what to do with 7\n"),

		logoTest("not enough inputs").
			withInput(`print sum 1` + "\n").
			expectOutput("not enough inputs to sum\n"),

		logoTest("doesnt like input").
			withInput(`print sum 1 [a]` + "\n").
			expectOutput("sum doesn't like [a] as input\n"),

		logoTest("define and call").
			withInput(`to greet
print "hi
end
greet
`).
			expectOutput("greet defined\nhi\n"),

		logoTest("parameters bind in order").
			withInput(`to both :a :b
print :a
print :b
end
both "x "y
`).
			expectOutput("both defined\nx\ny\n"),

		logoTest("output supplies the call value").
			withInput(`to double :x
output :x + :x
end
print double 4
print double double 2
`).
			expectOutput("double defined\n8\n8\n"),

		logoTest("stop ends the invocation").
			withInput(`to check :n
if :n < 0 [stop]
print :n
end
check 3
check -1
`).
			expectOutput("check defined\n3\n"),

		logoTest("countdown with label and go").
			withInput(`to countdown :n
label "loop
if :n < 0 [stop]
print :n
make "n :n - 1
go "loop
end
countdown 3
`).
			expectOutput("countdown defined\n3\n2\n1\n0\n"),

		logoTest("go outside a procedure").
			withInput(`go "loop` + "\n").
			expectOutput("Can only do that in a procedure\n"),

		logoTest("missing label").
			withInput(`to lost
go "nowhere
end
lost
`).
			expectOutput("lost defined\nCan't find label nowhere\n"),

		logoTest("catch and throw").
			withInput(`catch "tag [throw "tag print "skipped]
print "after
`).
			expectOutput("after\n"),

		logoTest("catch error").
			withInput(`catch "error [print 1 / 0 print "skipped]
print "after
`).
			expectOutput("after\n"),

		logoTest("uncaught throw").
			withInput(`throw "foo
print "after
`).
			expectOutput("Can't find a catch for foo\nafter\n"),

		logoTest("throw toplevel unwinds silently").
			withInput(`print "a
throw "toplevel
print "b
`).
			expectOutput("a\nb\n"),

		logoTest("bracket continuation").
			withInput(`print [a
b]
`).
			expectOutput("a b\n"),

		logoTest("bye quits").
			withInput(`print "a
bye
print "unreached
`).
			expectOutput("a\n"),

		logoTest("erase then call").
			withInput(`to gone
print "here
end
erase "gone
gone
`).
			expectOutput("gone defined\nI don't know how to gone\n"),

		logoTest("erase a primitive").
			withInput(`erase "print` + "\n").
			expectOutput("print is a primitive\n"),

		logoTest("procedurep").
			withInput(`to mine
end
print procedurep "mine
print procedurep "print
print procedurep "nope
`).
			expectOutput("mine defined\ntrue\ntrue\nfalse\n"),

		logoTest("define primitive with text body").
			withInput(`define "twice [[x] [output :x + :x]]
print twice 4
`).
			expectOutput("8\n"),

		logoTest("redefining a primitive by to").
			withInput(`to print
end
`).
			expectOutput("print is a primitive\n"),

		logoTest("comment lines are skipped").
			withInput(`;just a remark
print "ok
`).
			expectOutput("ok\n"),

		logoTest("type stays on the line").
			withInput(`type "a
type "b
print "c
`).
			expectOutput("abc\n"),

	}.run(t)
}

func TestTailCalls(t *testing.T) {
	logoTestCases{

		logoTest("deep tail recursion in constant frames").
			withOptions(WithFrameLimit(16)).
			withInput(`to spin :n
if :n = 0 [stop]
spin :n - 1
end
spin 100000
print "done
`).
			expectOutput("spin defined\ndone\n"),

		logoTest("tail position through ifelse").
			withOptions(WithFrameLimit(16)).
			withInput(`to walk :n
ifelse :n = 0 [print "done] [walk :n - 1]
end
walk 100000
`).
			expectOutput("walk defined\ndone\n"),

		logoTest("paren form in tail position reuses the frame").
			withOptions(WithFrameLimit(16)).
			withInput(`to spin :n
if :n = 0 [stop]
(spin :n - 1)
end
spin 100000
print "done
`).
			expectOutput("spin defined\ndone\n"),

		logoTest("mutual tail recursion in constant frames").
			withOptions(WithFrameLimit(16)).
			withInput(`to ping :n
if :n = 0 [print "done stop]
pong :n - 1
end
to pong :n
ping :n
end
ping 100000
`).
			expectOutput("ping defined\npong defined\ndone\n"),

		logoTest("tail call arguments read the old bindings").
			withInput(`to cycle :a :b
if :a = 0 [print :b stop]
cycle :a - 1 :a
end
cycle 3 99
`).
			expectOutput("cycle defined\n1\n"),

		logoTest("non-tail recursion hits the frame limit").
			withOptions(WithFrameLimit(8)).
			withInput(`to f :n
f :n + 1
print "x
end
f 0
`).
			expectError(errOutOfSpace),

	}.run(t)
}

func TestPauseSessions(t *testing.T) {
	logoTestCases{

		logoTest("pause suspends and co resumes").
			withInput(`to p
print "in
pause
print "out
end
p
make "seen "yes
co
print :seen
`).
			expectOutput("p defined\nin\nPausing...\nout\nyes\n"),

		logoTest("paused locals stay visible").
			withInput(`to p :x
pause
end
p 42
print :x
co
`).
			expectOutput("p defined\nPausing...\n42\n"),

		logoTest("throw toplevel unwinds out of pause").
			withInput(`to p
pause
print "unreached
end
p
throw "toplevel
print "resumed
`).
			expectOutput("p defined\nPausing...\nresumed\n"),

		logoTest("pause at top level").
			withInput(`pause` + "\n").
			expectOutput("Already at top level\n"),

		logoTest("co at top level").
			withInput(`co
print "after
`).
			expectOutput("Already at top level\nafter\n"),

	}.run(t)
}

func TestWorkspaceLimits(t *testing.T) {
	logoTestCases{

		logoTest("node exhaustion halts").
			withOptions(WithNodeLimit(8)).
			withInput(`print [a b c d e f g h i j]` + "\n").
			expectError(errOutOfSpace),

	}.run(t)
}

type logoTestCases []logoTestCase

func (lts logoTestCases) run(t *testing.T) {
	{
		var exclusive []logoTestCase
		for _, lt := range lts {
			if lt.exclusive {
				exclusive = append(exclusive, lt)
			}
		}
		if len(exclusive) > 0 {
			lts = exclusive
		}
	}
	for _, lt := range lts {
		if !t.Run(lt.name, lt.run) {
			return
		}
	}
}

func logoTest(name string) (lt logoTestCase) {
	lt.name = name
	return lt
}

type logoTestCase struct {
	name    string
	opts    []Option
	expect  []func(t *testing.T, in *Interp)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (lt logoTestCase) exclusiveTest() logoTestCase {
	lt.exclusive = true
	return lt
}

func (lt logoTestCase) withOptions(opts ...Option) logoTestCase {
	lt.opts = append(lt.opts, opts...)
	return lt
}

func (lt logoTestCase) withInput(input string) logoTestCase {
	lt.opts = append(lt.opts, WithInput(strings.NewReader(input)))
	return lt
}

func (lt logoTestCase) withTimeout(timeout time.Duration) logoTestCase {
	lt.timeout = timeout
	return lt
}

func (lt logoTestCase) expectError(err error) logoTestCase {
	lt.wantErr = err
	return lt
}

func (lt logoTestCase) expectOutput(output string) logoTestCase {
	var out strings.Builder
	lt.opts = append(lt.opts, WithOutput(&out))
	lt.expect = append(lt.expect, func(t *testing.T, in *Interp) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return lt
}

func (lt logoTestCase) expectVar(name, rendered string) logoTestCase {
	lt.expect = append(lt.expect, func(t *testing.T, in *Interp) {
		v, ok := in.Lookup(name)
		if assert.True(t, ok, "expected %q to be bound", name) {
			assert.Equal(t, rendered, in.format(v, true), "expected %q value", name)
		}
	})
	return lt
}

func (lt logoTestCase) run(t *testing.T) {
	in := New(lt.opts...)

	timeout := lt.timeout
	if timeout == 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := in.Run(ctx)
	if lt.wantErr != nil {
		require.Error(t, err, "expected a run error")
		assert.True(t, errors.Is(err, lt.wantErr), "expected error %v, got %v", lt.wantErr, err)
	} else {
		require.NoError(t, err, "unexpected run error")
	}

	for _, expect := range lt.expect {
		expect(t, in)
	}
}
