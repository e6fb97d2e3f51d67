package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Formatter renders the argument consumed by a directive.
type Formatter func(v any, ctx Context) string

// Table maps a directive letter to its formatter.
type Table map[rune]Formatter

// Clone returns a shallow copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DefaultTable returns the formatters every registry starts with:
//
//	%o  inspect on a single line
//	%O  inspect, multi-line
//	%j  JSON
//	%s  string
//	%d  number
func DefaultTable(in *Inspector) Table {
	if in == nil {
		in = NewInspector()
	}
	return Table{
		'o': func(v any, ctx Context) string {
			return in.InspectCompact(v, optionsOf(ctx))
		},
		'O': func(v any, ctx Context) string {
			return in.Inspect(v, optionsOf(ctx))
		},
		'j': JSON,
		's': String,
		'd': Number,
	}
}

// JSON renders v as JSON.
func JSON(v any, _ Context) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[UnexpectedJSONParseError]: " + err.Error()
	}
	return string(data)
}

// String renders v the way fmt.Sprint does.
func String(v any, _ Context) string {
	return fmt.Sprint(v)
}

// Number renders v as a number, or NaN when it has no numeric reading.
func Number(v any, _ Context) string {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(n)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		if n {
			return "1"
		}
		return "0"
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return "NaN"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return "NaN"
}

func optionsOf(ctx Context) InspectOptions {
	if ctx == nil {
		return InspectOptions{}
	}
	return ctx.InspectOptions()
}
