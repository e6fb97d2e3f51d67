package format

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testContext struct {
	namespace string
	opts      InspectOptions
}

func (c testContext) Namespace() string              { return c.namespace }
func (c testContext) InspectOptions() InspectOptions { return c.opts }

type stackError struct {
	msg   string
	stack string
}

func (e stackError) Error() string { return e.msg }
func (e stackError) Stack() string { return e.stack }

type formattedError struct{}

func (formattedError) Error() string { return "short" }
func (formattedError) Format(s fmt.State, verb rune) {
	if s.Flag('+') {
		fmt.Fprint(s, "short\n\tat main.go:10")
		return
	}
	fmt.Fprint(s, "short")
}

type label string

func (l label) Inspect() string { return "<" + string(l) + ">" }

func identity(v any, _ Context) string { return fmt.Sprint(v) }

func TestExpand(t *testing.T) {
	ctx := testContext{namespace: "test"}
	table := Table{'s': identity}

	testCases := []struct {
		name  string
		args  []any
		table Table
		want  []any
	}{
		{
			name:  "simple substitution",
			args:  []any{"hello %s", "world"},
			table: table,
			want:  []any{"hello world"},
		},
		{
			name:  "escaped percent",
			args:  []any{"100%%"},
			table: Table{},
			want:  []any{"100%"},
		},
		{
			name:  "unknown directive is kept",
			args:  []any{"%j", map[string]int{"a": 1}},
			table: Table{},
			want:  []any{"%j", map[string]int{"a": 1}},
		},
		{
			name:  "extra args are kept",
			args:  []any{"%s!", "hi", 1, 2},
			table: table,
			want:  []any{"hi!", 1, 2},
		},
		{
			name:  "missing arg keeps directive",
			args:  []any{"%s and %s", "one"},
			table: table,
			want:  []any{"one and %s"},
		},
		{
			name:  "unknown directive still takes a position",
			args:  []any{"%x %s", "a", "b"},
			table: table,
			want:  []any{"%x b", "a"},
		},
		{
			name:  "escaped percent takes no position",
			args:  []any{"%% %s", "a"},
			table: table,
			want:  []any{"% a"},
		},
		{
			name:  "percent before escaped letter",
			args:  []any{"%%s", "a"},
			table: table,
			want:  []any{"%s", "a"},
		},
		{
			name:  "non letter after percent",
			args:  []any{"50% %5 %", "a"},
			table: table,
			want:  []any{"50% %5 %", "a"},
		},
		{
			name:  "no args",
			args:  nil,
			table: table,
			want:  []any{""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Expand(tc.args, tc.table, ctx))
		})
	}
}

func TestExpand_DoesNotMutateInput(t *testing.T) {
	args := []any{"%s %s", "a", "b"}
	Expand(args, Table{'s': identity}, nil)

	assert.Equal(t, []any{"%s %s", "a", "b"}, args)
}

func TestExpand_NonStringFirstArgument(t *testing.T) {
	table := Table{'O': func(v any, _ Context) string { return fmt.Sprintf("<%v>", v) }}

	assert.Equal(t, []any{"<42>", "rest"}, Expand([]any{42, "rest"}, table, nil))
	assert.Equal(t, []any{"%O", 42}, Expand([]any{42}, Table{}, nil))
}

func TestExpand_ErrorFirstArgument(t *testing.T) {
	table := Table{'s': identity}

	got := Expand([]any{errors.New("boom %s"), "x"}, table, nil)
	assert.Equal(t, []any{"boom x"}, got)

	got = Expand([]any{stackError{msg: "boom", stack: "boom\n  at f()"}}, table, nil)
	assert.Equal(t, []any{"boom\n  at f()"}, got)

	got = Expand([]any{stackError{msg: "boom"}}, table, nil)
	assert.Equal(t, []any{"boom"}, got)

	got = Expand([]any{formattedError{}}, table, nil)
	assert.Equal(t, []any{"short\n\tat main.go:10"}, got)
}

func TestExpand_FormatterSeesContext(t *testing.T) {
	table := Table{'n': func(_ any, ctx Context) string { return ctx.Namespace() }}

	got := Expand([]any{"[%n]", nil}, table, testContext{namespace: "app:db"})
	assert.Equal(t, []any{"[app:db]"}, got)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable(nil)
	ctx := testContext{}

	assert.Equal(t, `{"a":1}`, table['j'](map[string]int{"a": 1}, ctx))
	assert.Contains(t, table['j'](make(chan int), ctx), "[UnexpectedJSONParseError]")
	assert.Equal(t, "x", table['s']("x", ctx))
	assert.Equal(t, "<tag>", table['o'](label("tag"), ctx))
	assert.Equal(t, "<tag>", table['O'](label("tag"), ctx))

	got := Expand([]any{"%s=%d %j", "n", 3, []int{1}}, table, ctx)
	assert.Equal(t, []any{"n=3 [1]"}, got)
}

func TestNumber(t *testing.T) {
	testCases := []struct {
		in   any
		want string
	}{
		{in: 42, want: "42"},
		{in: int64(-7), want: "-7"},
		{in: uint8(3), want: "3"},
		{in: 1.5, want: "1.5"},
		{in: float32(0.25), want: "0.25"},
		{in: true, want: "1"},
		{in: false, want: "0"},
		{in: " 12 ", want: "12"},
		{in: "abc", want: "NaN"},
		{in: nil, want: "NaN"},
		{in: []int{1}, want: "NaN"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Number(tc.in, nil), "input %#v", tc.in)
	}
}

func TestTable_Clone(t *testing.T) {
	orig := Table{'s': identity}
	clone := orig.Clone()
	clone['x'] = identity

	assert.Len(t, orig, 1)
	assert.Len(t, clone, 2)
}
