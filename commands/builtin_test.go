package commands

import (
	"strings"
	"testing"

	"github.com/josephlewis42/gogosh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := scriptTestSuite{
		"list":        {Script: "format [a, b]", Result: "a\nb", Stdout: "a\nb\n"},
		"last-result": {Script: "_ = echo hi; format", Result: "hi", Stdout: "hi\n"},
		"nothing":     {Script: "format", Result: "null", Stdout: "null\n"},
	}

	cases.Run(t)
}

func TestSet(t *testing.T) {
	cases := goldenTestSuite{
		"listing":   {Script: "x = echo 1; y = [a, b]; .hidden = echo h; set"},
		"all":       {Script: "x = echo 1; y = [a, b]; .hidden = echo h; set -a"},
		"prefix":    {Script: "x = echo 1; xy = echo 2; y = echo 3; set x"},
		"truncated": {Script: "long = echo " + strings.Repeat("0123456789", 6) + "; set long"},
		"map":       {Script: "m = [k=v, n=[1, 2]]; set m"},
	}

	cases.Run(t, nil)
}

func TestSet_trace(t *testing.T) {
	cases := scriptTestSuite{
		"toggle": {
			Script: "set -x; echo hi; set +x; echo bye",
			Result: "bye",
			Stderr: "+ echo hi\n+ set +x\n",
		},
	}

	cases.Run(t)
}

func TestTac(t *testing.T) {
	cases := scriptTestSuite{
		"text":  {Script: "tac", Stdin: "a\nb\n", Result: "a b"},
		"list":  {Script: "tac -l", Stdin: "a\nb\n", Result: "a\nb"},
		"empty": {Script: "tac", Result: ""},
		"piped": {Script: "echo a | tac -l", Result: "a"},
		"file": {
			Script: "tac /out.txt; cat /out.txt",
			Stdin:  "a\nb\n",
			Result: "null",
			Stdout: "a\nb\n",
		},
		"append": {
			Script: "tac -a /out.txt; cat /out.txt",
			Stdin:  "a\nb\n",
			Files:  map[string]string{"/out.txt": "x\n"},
			Result: "null",
			Stdout: "x\na\nb\n",
		},
		"truncate": {
			Script: "tac /out.txt; cat /out.txt",
			Stdin:  "a\n",
			Files:  map[string]string{"/out.txt": "old contents\n"},
			Result: "null",
			Stdout: "a\n",
		},
	}

	cases.Run(t)
}

func TestType(t *testing.T) {
	cases := scriptTestSuite{
		"builtin": {Script: "type echo", Result: "true", Stdout: "echo is gogo:echo\n"},
		"scoped":  {Script: "type gogo:echo", Result: "true", Stdout: "gogo:echo is gogo:echo\n"},
		"closure": {Script: "f = { echo hi }; type f", Result: "true", Stdout: "f is function { echo hi }\n"},
		"all":     {Script: "type -a cat", Result: "true", Stdout: "cat is gogo:cat\n"},
		"missing": {Script: "type nope", Result: "false", Stderr: "type: nope not found.\n"},
		"quiet":   {Script: "type -q nope", Result: "false"},
		"scope":   {Script: "type -s gogo", Result: "true", Stdout: strings.Join(builtinNames(), "\n") + "\n"},
		"scope-arg": {
			Script: "type gogo:",
			Result: "true",
			Stdout: strings.Join(builtinNames(), "\n") + "\n",
		},
	}

	cases.Run(t)
}

func builtinNames() []string {
	var out []string
	for _, b := range ListBuiltinCommands() {
		out = append(out, Scope+":"+b.Name)
	}
	return out
}

func TestSource(t *testing.T) {
	cases := scriptTestSuite{
		"args": {
			Script: "source /s.gogo a b",
			Files:  map[string]string{"/s.gogo": "echo $1 $0"},
			Result: "b a",
		},
		"sets-variables": {
			Script: "source /s.gogo; echo $x",
			Files:  map[string]string{"/s.gogo": "x = echo set-by-script"},
			Result: "set-by-script",
		},
		"missing": {Script: "source /nope", Err: "file does not exist"},
		"usage":   {Script: "source", Err: "usage: source"},
		"syntax":  {Script: "source /s.gogo", Files: map[string]string{"/s.gogo": "echo {"}, Err: "/s.gogo"},
	}

	cases.Run(t)
}

func TestHelp(t *testing.T) {
	cases := goldenTestSuite{
		"list": {Script: "help"},
		"one":  {Script: "help grep"},
	}

	cases.Run(t, nil)

	_, _, err := runScript(newTestSession(t, nil), "", "help nope")
	assert.ErrorContains(t, err, "no builtin")
}

func TestSimpleCommand_help(t *testing.T) {
	tio, result, err := runScript(newTestSession(t, nil), "", "echo --help")
	require.NoError(t, err)
	assert.True(t, result.IsNull())
	assert.True(t, strings.HasPrefix(tio.StdoutString(), "usage: echo [-e] [ARG] ...\n"))
	assert.Contains(t, tio.StdoutString(), "interpret backslash escapes")
}

func TestSimpleCommand_badFlag(t *testing.T) {
	tio, _, err := runScript(newTestSession(t, nil), "", "echo --bogus")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(tio.StderrString(), "error: "))
	assert.Contains(t, tio.StderrString(), "usage: echo")
}

func TestProcessName(t *testing.T) {
	session := newTestSession(t, nil)
	session.Registry().Add("test", "whoami", core.CommandFunc(func(p *core.Process, args []core.Value) (core.Value, error) {
		return core.Text(p.Name), nil
	}))

	_, result, err := runScript(session, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, core.Text("test:whoami"), result)
}
