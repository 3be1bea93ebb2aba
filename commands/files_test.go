package commands

import (
	"fmt"
	"testing"

	"github.com/josephlewis42/gogosh/core"
	"github.com/stretchr/testify/assert"
)

func TestCat(t *testing.T) {
	cases := scriptTestSuite{
		"file": {
			Script: "cat /foo.txt",
			Files:  map[string]string{"/foo.txt": "Hello, world!"},
			Result: "null",
			Stdout: "Hello, world!",
		},
		"many": {
			Script: "cat /a /b",
			Files:  map[string]string{"/a": "a\n", "/b": "b\n"},
			Result: "null",
			Stdout: "a\nb\n",
		},
		"stdin": {
			Script: "cat",
			Stdin:  "abc",
			Result: "null",
			Stdout: "abc",
		},
		"missing": {
			Script: "cat /nope.txt",
			Err:    "file does not exist",
			Stderr: "/nope.txt: open /nope.txt: file does not exist\n",
		},
	}

	cases.Run(t)
}

func TestGrep(t *testing.T) {
	const input = "foo\nbar\nfood\n"

	cases := scriptTestSuite{
		"match":        {Script: "grep foo", Stdin: input, Result: "true", Stdout: "foo\nfood\n"},
		"invert":       {Script: "grep -v foo", Stdin: input, Result: "true", Stdout: "bar\n"},
		"line-numbers": {Script: "grep -n bar", Stdin: input, Result: "true", Stdout: "2:bar\n"},
		"ignore-case":  {Script: "grep -i FOO", Stdin: input, Result: "true", Stdout: "foo\nfood\n"},
		"no-match":     {Script: "grep zzz", Stdin: input, Result: "false"},
		"regex":        {Script: "grep '^fo+d$'", Stdin: input, Result: "true", Stdout: "food\n"},
		"files": {
			Script: "grep x /a.txt /b.txt",
			Files:  map[string]string{"/a.txt": "x\n", "/b.txt": "x\ny\n"},
			Result: "true",
			Stdout: "/a.txt:x\n/b.txt:x\n",
		},
		"piped":           {Script: "echo one two | grep two", Result: "true", Stdout: "one two\n"},
		"missing-pattern": {Script: "grep", Err: "missing argument PATTERN"},
		"bad-pattern":     {Script: "grep '('", Err: "missing closing )"},
	}

	cases.Run(t)
}

func TestGrep_color(t *testing.T) {
	session := newTestSession(t, nil)

	tio, _, err := runScript(session, "a foo b\n", "grep --color=always foo")
	assert.NoError(t, err)
	assert.Equal(t, "a "+ColorBoldRed.Sprint("foo")+" b\n", tio.StdoutString())

	session.Put(VarColor, core.Bool(true))
	tio, _, err = runScript(session, "a foo b\n", "grep foo")
	assert.NoError(t, err)
	assert.Equal(t, "a "+ColorBoldRed.Sprint("foo")+" b\n", tio.StdoutString())

	tio, _, err = runScript(session, "a foo b\n", "grep --color=never foo")
	assert.NoError(t, err)
	assert.Equal(t, "a foo b\n", tio.StdoutString())
}

func TestWc(t *testing.T) {
	cases := scriptTestSuite{
		"single-file": {
			Script: "wc /foo.txt",
			Files:  map[string]string{"/foo.txt": "Hello,\nworld !"},
			Result: "bytes  14\nchars  14\nlines  1\nwords  3",
			Stdout: "1 3 14 /foo.txt\n",
		},
		"stdin": {
			Script: "wc",
			Stdin:  "a b\nc\n",
			Result: "bytes  6\nchars  6\nlines  2\nwords  3",
			Stdout: "2 3 6\n",
		},
		"lines-only": {
			Script: "wc -l",
			Stdin:  "a\nb\n",
			Result: "bytes  4\nchars  4\nlines  2\nwords  2",
			Stdout: "2\n",
		},
		"total": {
			Script: "wc /a /b",
			Files:  map[string]string{"/a": "x\n", "/b": "y z\n"},
			Result: "bytes  6\nchars  6\nlines  2\nwords  3",
			Stdout: "1 1 2 /a\n1 2 4 /b\n2 3 6 total\n",
		},
		"chars": {
			Script: "wc -m",
			Stdin:  "héllo",
			Result: "bytes  6\nchars  5\nlines  0\nwords  1",
			Stdout: "5\n",
		},
		"missing": {
			Script: "wc /nope",
			Err:    "file does not exist",
			Stderr: "/nope: open /nope: file does not exist\n",
		},
	}

	cases.Run(t)
}

func TestLs(t *testing.T) {
	files := map[string]string{
		"/dir/a.txt":   "abc",
		"/dir/.hidden": "",
		"/dir/sub/x":   "",
	}

	cases := scriptTestSuite{
		"plain":  {Script: "ls /dir", Files: files, Result: "a.txt\nsub", Stdout: "a.txt\nsub\n"},
		"all":    {Script: "ls -a /dir", Files: files, Result: ".hidden\na.txt\nsub", Stdout: ".hidden\na.txt\nsub\n"},
		"nested": {Script: "ls /dir/sub", Files: files, Result: "x", Stdout: "x\n"},
		"long": {
			Script: "ls -l /only",
			Files:  map[string]string{"/only/f.txt": "abc"},
			Result: "f.txt",
			Stdout: "-rw------- 3 f.txt\n",
		},
		"size": {Script: "<ls /dir> size", Files: files, Result: "2", Stdout: "a.txt\nsub\n"},
	}

	cases.Run(t)
}

func TestGzip(t *testing.T) {
	cases := scriptTestSuite{
		"round-trip": {
			Script: "gzip /a.txt; gunzip /a.txt.gz; cat /a.txt",
			Files:  map[string]string{"/a.txt": "hello"},
			Result: "null",
			Stdout: "hello",
		},
		"replaces-input": {
			Script: "gzip /a.txt; ls /",
			Files:  map[string]string{"/a.txt": "hello"},
			Result: "a.txt.gz",
			Stdout: "a.txt.gz\n",
		},
		"keep": {
			Script: "gzip -k /a.txt; ls /",
			Files:  map[string]string{"/a.txt": "hello"},
			Result: "a.txt\na.txt.gz",
			Stdout: "a.txt\na.txt.gz\n",
		},
		"stream": {
			Script: "gzip | gunzip",
			Stdin:  "streamed",
			Result: "null",
			Stdout: "streamed",
		},
		"to-stdout": {
			Script: "gzip -c /a.txt | gunzip -d",
			Files:  map[string]string{"/a.txt": "hello"},
			Result: "null",
			Stdout: "hello",
		},
		"bad-suffix": {
			Script: "gunzip /a.txt",
			Files:  map[string]string{"/a.txt": "hello"},
			Err:    "unknown suffix",
		},
	}

	cases.Run(t)
}

func ExampleBytesToHuman() {

	// < 1k is presented directly
	fmt.Println(BytesToHuman(512))

	// Multiples > 10 are shown without decimal.
	fmt.Println(BytesToHuman(23 * 10e8))

	// Multiples < 10 are shown with decimal.
	fmt.Println(BytesToHuman(5 * 1024))

	// Output: 512
	// 23G
	// 5.1K
}
