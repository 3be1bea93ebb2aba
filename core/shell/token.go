// Package shell splits shell source into programs, pipelines, statements and
// raw tokens. It doesn't evaluate anything, evaluation happens in core.
package shell

import (
	"strings"
)

// TokenType is determined by the leading sigil of a token.
type TokenType int

const (
	// Word is literal text, subject to Unescape.
	Word TokenType = iota
	// Variable is a $ reference, the remainder is itself a token.
	Variable
	// Execution is a <...> group evaluated immediately.
	Execution
	// Array is a [...] list or map literal.
	Array
	// Closure is a {...} deferred block.
	Closure
)

func (t TokenType) String() string {
	switch t {
	case Word:
		return "word"
	case Variable:
		return "variable"
	case Execution:
		return "execution"
	case Array:
		return "array"
	case Closure:
		return "closure"
	default:
		return "unknown"
	}
}

// Token is a raw span of source text.
type Token struct {
	Type TokenType
	// Text holds the raw span, including sigils and brackets.
	Text   string
	Line   int
	Column int
}

// Inner returns the text inside a group, or after the $ of a variable.
func (t Token) Inner() string {
	switch t.Type {
	case Variable:
		return t.Text[1:]
	case Execution, Array, Closure:
		return t.Text[1 : len(t.Text)-1]
	default:
		return t.Text
	}
}

func (t Token) String() string {
	return t.Text
}

// Statement is a single command invocation with its arguments.
type Statement []Token

func (s Statement) String() string {
	parts := make([]string, len(s))
	for i, tok := range s {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

// Pipeline holds statements joined by pipes, each one runs as its own stage.
type Pipeline []Statement

func (p Pipeline) String() string {
	parts := make([]string, len(p))
	for i, st := range p {
		parts[i] = st.String()
	}
	return strings.Join(parts, " | ")
}

// Program holds pipelines that run one after another.
type Program []Pipeline

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, pl := range p {
		parts[i] = pl.String()
	}
	return strings.Join(parts, "; ")
}
