package format

import (
	"fmt"
	"strings"
)

// Context is what a formatter sees of the channel it formats for.
type Context interface {
	Namespace() string
	InspectOptions() InspectOptions
}

// Stacker is implemented by errors that carry a printable stack trace.
type Stacker interface {
	Stack() string
}

// Expand runs the directive pipeline over the arguments of a single log call.
//
// The first argument is the template. An error template is replaced by its
// stack (or its message when it has none). Any other non-string first value is
// rendered through an implicit "%O" directive.
//
// Directives are '%' followed by an ASCII letter; "%%" produces a literal '%'.
// Each letter directive advances the argument position. When the table has a
// formatter for it and an argument exists at that position, the formatter's
// output replaces the directive and the argument is removed from the result.
// Otherwise the directive is left as is and nothing is consumed.
//
// The returned slice holds the expanded template followed by the arguments
// that were not consumed.
func Expand(args []any, table Table, ctx Context) []any {
	if len(args) == 0 {
		return []any{""}
	}

	out := make([]any, len(args))
	copy(out, args)

	var template string
	switch first := out[0].(type) {
	case string:
		template = first
	case error:
		template = errorText(first)
	default:
		out = append([]any{"%O"}, out...)
		template = "%O"
	}

	var b strings.Builder
	b.Grow(len(template))

	index := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) || !isDirective(template[i+1]) {
			b.WriteByte(c)
			continue
		}

		verb := template[i+1]
		i++

		if verb == '%' {
			b.WriteByte('%')
			continue
		}

		index++
		if f, ok := table[rune(verb)]; ok && index < len(out) {
			b.WriteString(f(out[index], ctx))
			out = append(out[:index], out[index+1:]...)
			index--
			continue
		}

		b.WriteByte('%')
		b.WriteByte(verb)
	}

	out[0] = b.String()
	return out
}

func isDirective(c byte) bool {
	return c == '%' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func errorText(err error) string {
	if s, ok := err.(Stacker); ok {
		if stack := s.Stack(); stack != "" {
			return stack
		}
	}
	// errors that print their own stack with %+v, e.g. github.com/pkg/errors
	if _, ok := err.(fmt.Formatter); ok {
		return fmt.Sprintf("%+v", err)
	}
	return err.Error()
}
