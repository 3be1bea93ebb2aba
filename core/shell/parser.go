package shell

import (
	"fmt"

	"github.com/pkg/errors"
)

/**
Grammar:

	program   := pipeline ((';' | NL) pipeline)*
	pipeline  := statement ('|' statement)*
	statement := token*
	token     := '$' token | '<' ... '>' | '[' ... ']' | '{' ... '}' | '=' | word

Groups only count nesting of their own bracket and skip over quotes and
escapes. Inside [...] literals ';' and '|' are plain text. A '#' where a
token could start comments out the rest of the line, a backslash before a
newline joins the two lines.
**/

// SyntaxError is returned when source can't be split into tokens.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
	// EOF is set if more input could complete the source.
	EOF bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d.%d: %s", e.Line, e.Column, e.Msg)
}

// IsIncomplete returns true if the error was caused by source ending in the
// middle of a group, quote or pipe.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.EOF
}

type parser struct {
	text    []rune
	pos     int
	line    int
	column  int
	inArray bool
}

func newParser(source string) *parser {
	return &parser{
		text:   []rune(source),
		line:   1,
		column: 1,
	}
}

// Parse splits source into a Program.
func Parse(source string) (Program, error) {
	return newParser(source).program()
}

// ParseToken reads a single token from the start of text.
func ParseToken(text string) (Token, error) {
	p := newParser(text)
	if p.eof() {
		return Token{Type: Word, Line: 1, Column: 1}, nil
	}
	return p.token()
}

func (p *parser) eof() bool {
	return p.pos >= len(p.text)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.text) {
		return 0
	}
	return p.text[p.pos+offset]
}

func (p *parser) next() rune {
	c := p.text[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	return c
}

func (p *parser) errorf(eof bool, line, column int, format string, a ...interface{}) error {
	return &SyntaxError{
		Line:   line,
		Column: column,
		Msg:    fmt.Sprintf(format, a...),
		EOF:    eof,
	}
}

func (p *parser) program() (Program, error) {
	var prog Program
	for {
		pipeline, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		if len(pipeline) > 0 {
			prog = append(prog, pipeline)
		}

		if p.eof() {
			return prog, nil
		}

		// Only a ';' or newline can end a pipeline before EOF.
		p.next()
	}
}

func (p *parser) pipeline() (Pipeline, error) {
	var pipeline Pipeline
	for {
		line, column := p.line, p.column
		statement, err := p.statement()
		if err != nil {
			return nil, err
		}

		piped := !p.eof() && p.peek() == '|'
		if len(statement) == 0 {
			if piped || len(pipeline) > 0 {
				return nil, p.errorf(false, line, column, "missing command in pipeline")
			}
			return nil, nil
		}
		pipeline = append(pipeline, statement)
		if !piped {
			return pipeline, nil
		}

		line, column = p.line, p.column
		p.next()
		p.skipSpace(true)
		if p.eof() {
			return nil, p.errorf(true, line, column, "unexpected end of input after '|'")
		}
	}
}

func (p *parser) statement() (Statement, error) {
	var statement Statement
	for {
		p.skipSpace(false)
		if p.eof() {
			return statement, nil
		}

		switch p.peek() {
		case '|', ';', '\n':
			return statement, nil
		}

		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		statement = append(statement, tok)
	}
}

// skipSpace skips blanks, line continuations and comments. Newlines are only
// skipped if newlines is set.
func (p *parser) skipSpace(newlines bool) {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ', c == '\t', c == '\r':
			p.next()
		case c == '\n' && newlines:
			p.next()
		case c == ',' && p.inArray:
			p.next()
		case c == '\\' && p.peekAt(1) == '\n':
			p.next()
			p.next()
		case c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func (p *parser) token() (Token, error) {
	line, column := p.line, p.column
	start := p.pos

	var tokenType TokenType
	var err error
	switch p.peek() {
	case '$':
		p.next()
		tokenType = Word
		if !p.eof() && !p.isDelimiter(p.peek()) {
			tokenType = Variable
			_, err = p.token()
		}
	case '<':
		tokenType = Execution
		err = p.group('<', '>')
	case '[':
		tokenType = Array
		err = p.group('[', ']')
	case '{':
		tokenType = Closure
		err = p.group('{', '}')
	case '=':
		p.next()
		tokenType = Word
	default:
		tokenType = Word
		err = p.word()
	}

	if err == nil && p.pos == start {
		err = p.errorf(false, line, column, "unexpected %q", p.peek())
	}
	if err != nil {
		return Token{}, err
	}

	return Token{
		Type:   tokenType,
		Text:   string(p.text[start:p.pos]),
		Line:   line,
		Column: column,
	}, nil
}

func (p *parser) isDelimiter(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '=':
		return true
	case '|', ';':
		return !p.inArray
	case ',':
		return p.inArray
	}
	return false
}

func (p *parser) word() error {
	for !p.eof() {
		c := p.peek()
		switch {
		case p.isDelimiter(c):
			return nil
		case c == '\\':
			p.next()
			if !p.eof() {
				p.next()
			}
		case c == '"' || c == '\'':
			if err := p.quote(); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
	return nil
}

func (p *parser) group(open, close rune) error {
	line, column := p.line, p.column
	p.next()

	for depth := 1; depth > 0; {
		if p.eof() {
			return p.errorf(true, line, column, "unexpected end of input looking for matching '%c'", close)
		}

		switch c := p.peek(); c {
		case '\\':
			p.next()
			if !p.eof() {
				p.next()
			}
		case '"', '\'':
			if err := p.quote(); err != nil {
				return err
			}
		case open:
			depth++
			p.next()
		case close:
			depth--
			p.next()
		default:
			p.next()
		}
	}
	return nil
}

func (p *parser) quote() error {
	line, column := p.line, p.column
	q := p.next()

	for !p.eof() {
		c := p.next()
		switch {
		case c == q:
			return nil
		case c == '\\' && q == '"' && !p.eof():
			p.next()
		}
	}

	return p.errorf(true, line, column, "unexpected end of input looking for matching %c", q)
}
