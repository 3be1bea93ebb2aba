package shell

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnterminated is returned by Unescape for dangling escapes and quotes.
var ErrUnterminated = errors.New("unterminated escape or quote")

var escapes = map[rune]rune{
	'n': '\n', // newline
	'r': '\r', // carriage return
	't': '\t', // horizontal tab
	'b': '\b', // backspace
	'a': '\a', // alert
	'f': '\f', // form feed
	'v': '\v', // vertical tab
}

// Unescape removes quotes and resolves backslash escapes in a raw word.
//
// Single quoted text is taken literally, double quoted text and bare text
// resolve escapes. Any escaped character not in the table stands for itself,
// and an escaped newline is dropped.
func Unescape(raw string) (string, error) {
	if !strings.ContainsAny(raw, `\'"`) {
		return raw, nil
	}

	runes := []rune(raw)
	var out strings.Builder

	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '\'':
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end >= len(runes) {
				return "", errors.Wrapf(ErrUnterminated, "%s", raw)
			}
			out.WriteString(string(runes[i+1 : end]))
			i = end

		case '"':
			i++
			for ; i < len(runes) && runes[i] != '"'; i++ {
				if runes[i] != '\\' {
					out.WriteRune(runes[i])
					continue
				}
				n, err := unescapeOne(&out, runes, i)
				if err != nil {
					return "", errors.Wrapf(err, "%s", raw)
				}
				i += n
			}
			if i >= len(runes) {
				return "", errors.Wrapf(ErrUnterminated, "%s", raw)
			}

		case '\\':
			n, err := unescapeOne(&out, runes, i)
			if err != nil {
				return "", errors.Wrapf(err, "%s", raw)
			}
			i += n

		default:
			out.WriteRune(c)
		}
	}

	return out.String(), nil
}

// unescapeOne writes the escape starting at runes[i] and returns how many
// runes after the backslash it consumed.
func unescapeOne(out *strings.Builder, runes []rune, i int) (int, error) {
	if i+1 >= len(runes) {
		return 0, ErrUnterminated
	}

	c := runes[i+1]
	if replacement, ok := escapes[c]; ok {
		out.WriteRune(replacement)
		return 1, nil
	}

	switch c {
	case '\n':
		return 1, nil
	case 'u':
		if i+6 > len(runes) {
			return 0, errors.Errorf("bad unicode escape: %s", string(runes[i:]))
		}
		code, err := strconv.ParseUint(string(runes[i+2:i+6]), 16, 32)
		if err != nil {
			return 0, errors.Errorf("bad unicode escape: %s", string(runes[i:i+6]))
		}
		out.WriteRune(rune(code))
		return 5, nil
	default:
		out.WriteRune(c)
		return 1, nil
	}
}
