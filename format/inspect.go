package format

import (
	"reflect"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

// InspectOptions control how values are rendered by %o and %O.
type InspectOptions struct {
	// Depth limits how deep nested values are printed. Zero means no limit.
	Depth int
	// ShowHidden also prints pointer addresses and slice capacities.
	ShowHidden bool
}

// Inspectable is implemented by values that know how to print themselves
// for %o and %O.
type Inspectable interface {
	Inspect() string
}

// Printer renders a value of a registered type.
type Printer func(v any) string

// Inspector renders arbitrary values. Lookup order is Inspectable, then a
// printer registered for the exact type, then a printer registered for an
// interface the type implements, then a structural dump.
type Inspector struct {
	mu       sync.RWMutex
	printers map[reflect.Type]Printer
}

// NewInspector creates an inspector with no registered printers.
func NewInspector() *Inspector {
	return &Inspector{
		printers: make(map[reflect.Type]Printer),
	}
}

// Register installs p for values of type t, replacing any previous printer.
// If t is an interface type, p applies to every type implementing it that
// has no printer of its own.
func (in *Inspector) Register(t reflect.Type, p Printer) {
	if t == nil || p == nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.printers[t] = p
}

// Unregister removes the printer for t.
func (in *Inspector) Unregister(t reflect.Type) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.printers, t)
}

// RegisterPrinter installs fn as the printer for values of type T.
//
// Example usage:
//
//	format.RegisterPrinter(in, func(u User) string { return "User(" + u.Name + ")" })
func RegisterPrinter[T any](in *Inspector, fn func(T) string) {
	in.Register(reflect.TypeFor[T](), func(v any) string {
		return fn(v.(T))
	})
}

// Printer returns the printer that applies to t, if any.
func (in *Inspector) Printer(t reflect.Type) (Printer, bool) {
	if t == nil {
		return nil, false
	}

	in.mu.RLock()
	defer in.mu.RUnlock()

	if p, ok := in.printers[t]; ok {
		return p, true
	}
	for it, p := range in.printers {
		if it.Kind() == reflect.Interface && t.Implements(it) {
			return p, true
		}
	}
	return nil, false
}

// Inspect renders v, possibly over several lines.
func (in *Inspector) Inspect(v any, opts InspectOptions) string {
	if i, ok := v.(Inspectable); ok {
		return i.Inspect()
	}
	if in != nil {
		if p, ok := in.Printer(reflect.TypeOf(v)); ok {
			return p(v)
		}
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                opts.Depth,
		DisablePointerAddresses: !opts.ShowHidden,
		DisableCapacities:       !opts.ShowHidden,
		SortKeys:                true,
	}
	return strings.TrimRight(cfg.Sdump(v), "\n")
}

// InspectCompact renders v on a single line.
func (in *Inspector) InspectCompact(v any, opts InspectOptions) string {
	lines := strings.Split(in.Inspect(v, opts), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " ")
}
