package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	cases := []struct {
		escaped  string
		expected string
	}{
		{"not escaped", "not escaped"},
		{`newline\n`, "newline\n"},
		{`double-escape\\n`, `double-escape\n`},
		// Octal
		{`\07`, string(rune(7))},
		{`\011`, "\t"},
		{`\0101`, "A"},
		// Hex
		{`\x7`, string(rune(07))},
		{`\x9`, "\t"},
		{`\x4A`, "J"},
		{`\x4a!`, "J!"},
		{`\xg`, `\xg`},
		// Other
		{`stop\chere`, "stop"},
		{`\e[0m`, "\x1b[0m"},
		{`\q`, `\q`},
		{`trailing\`, `trailing\`},
	}

	for _, tc := range cases {
		t.Run(tc.escaped, func(t *testing.T) {
			actual := unescape(tc.escaped)

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEcho(t *testing.T) {
	cases := scriptTestSuite{
		"joined":  {Script: "echo hello world", Result: "hello world"},
		"empty":   {Script: "echo", Result: ""},
		"escapes": {Script: `echo -e 'a\tb'`, Result: "a\tb"},
		"raw":     {Script: `echo 'a\tb'`, Result: `a\tb`},
		"list":    {Script: "echo [a, b]", Result: "[a, b]"},
		"piped":   {Script: "echo hi | tac", Result: "hi"},
	}

	cases.Run(t)
}

func TestPrint(t *testing.T) {
	cases := scriptTestSuite{
		"lines":   {Script: "print a [b, c]", Result: "null", Stdout: "a\nb, c\n"},
		"nothing": {Script: "print", Result: "null"},
	}

	cases.Run(t)
}
