package shell

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMixedArray is returned for literals that contain both list values and
// key = value pairs.
var ErrMixedArray = errors.New("can't mix list and map entries in one literal")

// ArrayEntry is a single entry of an aggregate literal. Key is nil for list
// entries.
type ArrayEntry struct {
	Key   *Token
	Value Token
}

// ParseArray splits the inside of a [...] literal into entries separated by
// commas or blanks. The map result is true if the entries are key = value
// pairs; the literal "=" alone is an empty map.
func ParseArray(inner string) (entries []ArrayEntry, isMap bool, err error) {
	if strings.TrimSpace(inner) == "=" {
		return nil, true, nil
	}

	p := newParser(inner)
	p.inArray = true

	hasKeys, hasValues := false, false
	for {
		p.skipSpace(true)
		if p.eof() {
			break
		}
		start := p.pos

		first, err := p.token()
		if err != nil {
			return nil, false, err
		}

		if p.pos == start {
			return nil, false, p.errorf(false, first.Line, first.Column, "unexpected %q", p.peek())
		}

		p.skipSpace(true)
		if p.eof() || p.peek() != '=' {
			hasValues = true
			entries = append(entries, ArrayEntry{Value: first})
			continue
		}

		line, column := p.line, p.column
		p.next()
		p.skipSpace(true)
		if p.eof() {
			return nil, false, p.errorf(false, line, column, "missing value for key %q", first.Text)
		}

		value, err := p.token()
		if err != nil {
			return nil, false, err
		}
		key := first
		hasKeys = true
		entries = append(entries, ArrayEntry{Key: &key, Value: value})
	}

	if hasKeys && hasValues {
		return nil, false, errors.Wrapf(ErrMixedArray, "[%s]", inner)
	}

	return entries, hasKeys, nil
}
