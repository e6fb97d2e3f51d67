package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/smallnest/nsdebug/format"
)

// Call describes a single enabled invocation of a channel.
type Call struct {
	Channel *Channel
	Time    time.Time
	Prev    time.Time // zero on the first call
	Diff    time.Duration
}

// Decorator adds the namespace, timing and colors to the expanded arguments
// of a call before they reach the sink.
type Decorator interface {
	Decorate(call *Call, args []any) []any
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(call *Call, args []any) []any

// Decorate calls f.
func (f DecoratorFunc) Decorate(call *Call, args []any) []any {
	return f(call, args)
}

// DateFormat is the layout of the timestamp prefix on uncolored output.
const DateFormat = "2006-01-02T15:04:05.000Z07:00"

// ConsoleDecorator formats for a terminal. Colored output prefixes every line
// of the message with the namespace in bold and appends the time since the
// previous call; plain output prefixes the message with the date and the
// namespace.
type ConsoleDecorator struct {
	renderer *lipgloss.Renderer
}

// NewConsoleDecorator creates a decorator that always emits 256-color
// escapes when a channel uses colors; whether it does is decided by the
// channel.
func NewConsoleDecorator() *ConsoleDecorator {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	return &ConsoleDecorator{renderer: r}
}

// Decorate implements Decorator.
func (d *ConsoleDecorator) Decorate(call *Call, args []any) []any {
	out := make([]any, len(args), len(args)+1)
	copy(out, args)
	if len(out) == 0 {
		out = append(out, "")
	}

	ch := call.Channel
	msg, ok := out[0].(string)
	if !ok {
		msg = fmt.Sprint(out[0])
	}

	if !ch.UseColors() {
		out[0] = d.date(call) + ch.Namespace() + " " + msg
		return out
	}

	color := lipgloss.Color(strconv.Itoa(ch.Color()))
	prefix := "  " + d.renderer.NewStyle().Bold(true).Foreground(color).Render(ch.Namespace()) + " "

	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	out[0] = strings.Join(lines, "\n")

	suffix := d.renderer.NewStyle().Foreground(color).Render("+" + format.Duration(call.Diff))
	return append(out, suffix)
}

func (d *ConsoleDecorator) date(call *Call) string {
	if call.Channel.Options().HideDate {
		return ""
	}
	return call.Time.UTC().Format(DateFormat) + " "
}
