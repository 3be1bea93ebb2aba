package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n int
}

func (c *counter) Add(n int) int {
	c.n += n
	return c.n
}

func (c *counter) Sum(base int, nums ...int) int {
	for _, n := range nums {
		base += n
	}
	return base
}

func (c *counter) GetTotal() int {
	return c.n
}

func (c *counter) IsZero() bool {
	return c.n == 0
}

func (c *counter) Greet(p *Process, who string) error {
	_, err := fmt.Fprintf(p.Stdout(), "hello, %s\n", who)
	return err
}

func (c *counter) Fail() (string, error) {
	return "", errors.New("failed on purpose")
}

func (c *counter) Words(s string) []string {
	return strings.Fields(s)
}

func (c *counter) Describe(v Value, rest []Value) string {
	return fmt.Sprintf("%s+%d", v.Kind(), len(rest))
}

func TestCallMember_object(t *testing.T) {
	cases := map[string]struct {
		source   string
		expected Value
		wantErr  bool
	}{
		"method":           {source: "$c add 2", expected: Text("2")},
		"case-insensitive": {source: "$c ADD 3", expected: Text("3")},
		"get-prefix":       {source: "$c total", expected: Text("0")},
		"is-prefix":        {source: "$c zero", expected: Bool(true)},
		"variadic":         {source: "$c sum 1 2 3", expected: Text("6")},
		"variadic-empty":   {source: "$c sum 1", expected: Text("1")},
		"slice-result":     {source: "$c words 'a b  c'", expected: List(Text("a"), Text("b"), Text("c"))},
		"value-params":     {source: "$c describe [x] [1, 2]", expected: Text("list+2")},
		"error-result":     {source: "$c fail", wantErr: true},
		"bad-int":          {source: "$c add many", wantErr: true},
		"wrong-arity":      {source: "$c add 1 2", wantErr: true},
		"missing":          {source: "$c nothing", wantErr: true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			sh := newTestShell(t)
			sh.Put("c", Object(&counter{}))

			actual, err := sh.Execute(tc.source)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(actual), "expected %v got %v", tc.expected, actual)
		})
	}
}

func TestCallMember_injectsProcess(t *testing.T) {
	sh := newTestShell(t)
	sh.Put("c", Object(&counter{}))

	result, err := sh.Execute("$c greet world | tac")
	require.NoError(t, err)
	assert.Equal(t, Text("hello, world"), result)
}

func TestRegistry_AddObject(t *testing.T) {
	sh := newTestShell(t)
	c := &counter{}

	require.NoError(t, sh.Registry().AddObject("counter", c, "add", "total"))
	assert.Error(t, sh.Registry().AddObject("counter", c, "nonexistent"))

	_, err := sh.Execute("add 5; counter:add 5")
	require.NoError(t, err)

	result, err := sh.Execute("total")
	require.NoError(t, err)
	assert.Equal(t, Text("10"), result)
}

func TestRegistry_AddObject_allMethods(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddObject("c", &counter{}))

	assert.Equal(t, []string{
		"c:add",
		"c:describe",
		"c:fail",
		"c:gettotal",
		"c:greet",
		"c:iszero",
		"c:sum",
		"c:words",
	}, r.Names())
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	first := CommandFunc(func(*Process, []Value) (Value, error) { return Text("a"), nil })
	second := CommandFunc(func(*Process, []Value) (Value, error) { return Text("b"), nil })
	r.Add("b", "cmd", second)
	r.Add("a", "cmd", first)
	r.Add("", "bare", first)

	cmd, name := r.Lookup("*:cmd")
	require.NotNil(t, cmd)
	assert.Equal(t, "a:cmd", name)

	cmd, name = r.Lookup("b:cmd")
	require.NotNil(t, cmd)
	assert.Equal(t, "b:cmd", name)

	cmd, _ = r.Lookup("bare")
	assert.NotNil(t, cmd)

	cmd, _ = r.Lookup("*:missing")
	assert.Nil(t, cmd)

	r.Remove("a", "cmd")
	_, name = r.Lookup("*:cmd")
	assert.Equal(t, "b:cmd", name)
}

func TestFromGo(t *testing.T) {
	cases := map[string]struct {
		in       interface{}
		expected Value
	}{
		"nil":       {nil, Null},
		"string":    {"s", Text("s")},
		"bytes":     {[]byte("b"), Text("b")},
		"int":       {42, Text("42")},
		"float":     {1.5, Text("1.5")},
		"bool":      {true, Bool(true)},
		"slice":     {[]int{1, 2}, List(Text("1"), Text("2"))},
		"nil-slice": {[]string(nil), List()},
		"map":       {map[string]int{"a": 1}, Map(map[string]Value{"a": Text("1")})},
		"nil-ptr":   {(*counter)(nil), Null},
		"value":     {Text("v"), Text("v")},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.True(t, tc.expected.Equal(FromGo(tc.in)), "got %v", FromGo(tc.in))
		})
	}

	t.Run("struct", func(t *testing.T) {
		c := &counter{}
		obj, ok := FromGo(c).AsObject()
		require.True(t, ok)
		assert.Same(t, c, obj)
	})
}
