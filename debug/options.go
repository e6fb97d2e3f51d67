package debug

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/smallnest/nsdebug/format"
)

// Options are the per-registry output settings. Channels take a copy when
// they are created.
type Options struct {
	// Colors forces colored output on or off. Nil detects a terminal on stderr.
	Colors *bool
	// HideDate drops the timestamp prefix from uncolored output.
	HideDate bool
	// Depth limits %o and %O nesting. Zero means no limit.
	Depth int
	// ShowHidden prints pointer addresses and capacities in %o and %O.
	ShowHidden bool
	// ExtendedColors selects colors from the 256-color palette.
	ExtendedColors bool
	// Extra holds DEBUG_* settings without a dedicated field, keyed by
	// their camel-cased name.
	Extra map[string]any
}

// InspectOptions returns the settings used by the inspecting formatters.
func (o Options) InspectOptions() format.InspectOptions {
	return format.InspectOptions{Depth: o.Depth, ShowHidden: o.ShowHidden}
}

// Palette returns the palette channel colors are drawn from.
func (o Options) Palette() []int {
	if o.ExtendedColors {
		return ExtendedPalette
	}
	return BasicPalette
}

func (o Options) clone() Options {
	if o.Colors != nil {
		v := *o.Colors
		o.Colors = &v
	}
	if o.Extra != nil {
		extra := make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			extra[k] = v
		}
		o.Extra = extra
	}
	return o
}

// Bool returns a pointer to v, for Options.Colors.
func Bool(v bool) *bool {
	return &v
}

var (
	truthy = regexp.MustCompile(`(?i)^(yes|on|true|enabled)$`)
	falsy  = regexp.MustCompile(`(?i)^(no|off|false|disabled)$`)
)

// Coerce converts a DEBUG_* value: yes/on/true/enabled and their negatives
// become booleans, "null" becomes nil, numbers become float64 and anything
// else is returned unchanged.
func Coerce(val string) any {
	switch {
	case truthy.MatchString(val):
		return true
	case falsy.MatchString(val):
		return false
	case val == "null":
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
		return f
	}
	return val
}

// OptionsFromEnv builds Options from the DEBUG_* entries of environ, given
// as KEY=value pairs like os.Environ returns. Keys are matched without regard
// to case, so DEBUG_SHOW_HIDDEN becomes showHidden.
//
//	DEBUG_COLORS=no DEBUG_DEPTH=10 DEBUG_SHOW_HIDDEN=enabled ./app
func OptionsFromEnv(environ []string) Options {
	var opts Options
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || len(key) <= len("DEBUG_") || !strings.EqualFold(key[:len("DEBUG_")], "DEBUG_") {
			continue
		}
		opts.set(camelCase(key[len("DEBUG_"):]), Coerce(val))
	}
	return opts
}

func (o *Options) set(prop string, val any) {
	switch prop {
	case "colors":
		switch v := val.(type) {
		case bool:
			o.Colors = Bool(v)
		case float64:
			o.Colors = Bool(v != 0)
			o.ExtendedColors = v >= 256
		}
		return
	case "hideDate":
		if v, ok := val.(bool); ok {
			o.HideDate = v
			return
		}
	case "depth":
		if v, ok := val.(float64); ok {
			o.Depth = int(v)
			return
		}
	case "showHidden":
		if v, ok := val.(bool); ok {
			o.ShowHidden = v
			return
		}
	}
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[prop] = val
}

// camelCase turns SHOW_HIDDEN into showHidden.
func camelCase(s string) string {
	parts := strings.Split(strings.ToLower(s), "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// terminal reports whether stderr is a terminal and, if so, whether it
// supports 256 colors.
func terminal() (tty bool, extended bool) {
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, false
	}
	profile := termenv.NewOutput(os.Stderr).EnvColorProfile()
	return true, profile == termenv.ANSI256 || profile == termenv.TrueColor
}
