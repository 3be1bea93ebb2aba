package shell

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
		{`tab\tstop`, "tab\tstop"},
		{`"double quoted"`, "double quoted"},
		{`"escaped \"quote\""`, `escaped "quote"`},
		{`'single \n quoted'`, `single \n quoted`},
		{`mixed" "parts`, "mixed parts"},
		{`a\ b`, "a b"},
		{`\$dollar`, "$dollar"},
		{`Aé`, "Aé"},
		{"line\\\ncontinued", "linecontinued"},
	}

	for _, tc := range cases {
		t.Run(tc.escaped, func(t *testing.T) {
			actual, err := Unescape(tc.escaped)

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestUnescape_errors(t *testing.T) {
	cases := []string{
		`trailing\`,
		`"unterminated`,
		`'unterminated`,
		`\u12`,
		`\uzzzz`,
	}

	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			_, err := Unescape(tc)
			assert.Error(t, err)
		})
	}
}

func TestParseArray(t *testing.T) {
	cases := map[string]struct {
		inner   string
		isMap   bool
		keys    []string
		values  []string
		wantErr error
	}{
		"empty":        {inner: "", values: nil},
		"empty-map":    {inner: " = ", isMap: true},
		"list":         {inner: "a, b, c", values: []string{"a", "b", "c"}},
		"list-spaces":  {inner: "a b\n c", values: []string{"a", "b", "c"}},
		"list-groups":  {inner: "<echo x>, [1, 2], {y}", values: []string{"<echo x>", "[1, 2]", "{y}"}},
		"map":          {inner: "k1=v1, k2 = v2", isMap: true, keys: []string{"k1", "k2"}, values: []string{"v1", "v2"}},
		"map-variable": {inner: "$k=$v", isMap: true, keys: []string{"$k"}, values: []string{"$v"}},
		"mixed":        {inner: "a, k=v", wantErr: ErrMixedArray},
		"semicolon":    {inner: "a;b", values: []string{"a;b"}},
		"pipe":         {inner: "a | b", values: []string{"a", "|", "b"}},
		"pipe-value":   {inner: "k=a|b", isMap: true, keys: []string{"k"}, values: []string{"a|b"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			entries, isMap, err := ParseArray(tc.inner)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.isMap, isMap)

			var keys, values []string
			for _, e := range entries {
				if e.Key != nil {
					keys = append(keys, e.Key.Text)
				}
				values = append(values, e.Value.Text)
			}
			assert.Equal(t, tc.keys, keys)
			assert.Equal(t, tc.values, values)
		})
	}
}
