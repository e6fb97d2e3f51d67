package debug

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/nsdebug/format"
	"github.com/smallnest/nsdebug/log"
	"github.com/smallnest/nsdebug/namespace"
	"github.com/smallnest/nsdebug/sink"
	"github.com/smallnest/nsdebug/store"
	envstore "github.com/smallnest/nsdebug/store/env"
)

// storeTimeout bounds store calls made on behalf of Enable and NewRegistry.
const storeTimeout = 5 * time.Second

// patterns is the enable-string together with its compiled form, swapped as
// one value.
type patterns struct {
	raw string
	set *namespace.PatternSet
}

// Registry holds the enabled namespaces and everything channels share: the
// formatter table, the previous call time, the options, the sink, the
// decorator and the store the enable-string is persisted to.
type Registry struct {
	current  atomic.Pointer[patterns]
	prevTime atomic.Int64
	version  atomic.Int64

	mu         sync.RWMutex
	formatters format.Table

	inspector *format.Inspector
	opts      Options
	optsSet   bool
	useColors bool
	environ   []string
	extra     format.Table

	sink      sink.Sink
	decorator Decorator
	store     store.NamespaceStore
	logger    log.Logger
	now       func() time.Time
}

// Option configures a Registry
type Option func(*Registry)

// WithStore persists the enable-string to s instead of the DEBUG variable
func WithStore(s store.NamespaceStore) Option {
	return func(r *Registry) {
		r.store = s
	}
}

// WithSink sets where channel output is written
func WithSink(s sink.Sink) Option {
	return func(r *Registry) {
		r.sink = s
	}
}

// WithDecorator replaces the console decorator
func WithDecorator(d Decorator) Option {
	return func(r *Registry) {
		r.decorator = d
	}
}

// WithLogger sets the logger for the registry's own problems
func WithLogger(l log.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithOptions sets the options instead of reading them from the environment
func WithOptions(opts Options) Option {
	return func(r *Registry) {
		r.opts = opts.clone()
		r.optsSet = true
	}
}

// WithEnviron reads DEBUG_* options from environ instead of os.Environ
func WithEnviron(environ []string) Option {
	return func(r *Registry) {
		r.environ = environ
	}
}

// WithFormatter registers an extra directive
func WithFormatter(c rune, f format.Formatter) Option {
	return func(r *Registry) {
		if r.extra == nil {
			r.extra = make(format.Table)
		}
		r.extra[c] = f
	}
}

// WithInspector sets the inspector used by %o and %O
func WithInspector(in *format.Inspector) Option {
	return func(r *Registry) {
		r.inspector = in
	}
}

// NewRegistry creates a registry and enables whatever its store holds.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		decorator: NewConsoleDecorator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.GetDefaultLogger()
	}
	if r.sink == nil {
		r.sink = sink.Stderr()
	}
	if r.store == nil {
		r.store = envstore.NewEnvNamespaceStore(envstore.DefaultVariable)
	}
	if r.inspector == nil {
		r.inspector = format.NewInspector()
	}

	if !r.optsSet {
		environ := r.environ
		if environ == nil {
			environ = os.Environ()
		}
		r.opts = OptionsFromEnv(environ)
	}
	if r.opts.Colors != nil {
		r.useColors = *r.opts.Colors
	} else {
		tty, extended := terminal()
		r.useColors = tty
		r.opts.ExtendedColors = r.opts.ExtendedColors || extended
	}

	r.formatters = format.DefaultTable(r.inspector)
	for c, f := range r.extra {
		r.formatters[c] = f
	}

	r.current.Store(&patterns{})

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := r.Load(ctx); err != nil {
		r.logger.Warn("failed to load namespaces: %v", err)
	}
	return r
}

// Channel creates a channel named ns.
func (r *Registry) Channel(ns string) *Channel {
	return newChannel(r, ns)
}

// Enable replaces the enabled namespaces with s and persists it. A failure
// to persist is logged; the new patterns apply either way.
func (r *Registry) Enable(s string) {
	r.apply(s)

	snap := store.NewSnapshot(s, int(r.version.Add(1)))
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := r.store.Save(ctx, snap); err != nil {
		r.logger.Warn("failed to persist namespaces %q: %v", s, err)
		return
	}
	r.logger.Debug("enabled namespaces %q (version %d)", s, snap.Version)
}

// Disable turns every namespace off and returns the namespaces that were
// enabled, in a form Enable accepts.
func (r *Registry) Disable() string {
	s := r.current.Load().set.String()
	r.Enable("")
	return s
}

// Enabled reports whether name matches the current namespaces.
func (r *Registry) Enabled(name string) bool {
	return r.current.Load().set.Enabled(name)
}

// Namespaces returns the enable-string as it was last given.
func (r *Registry) Namespaces() string {
	return r.current.Load().raw
}

// Patterns returns the compiled namespaces.
func (r *Registry) Patterns() *namespace.PatternSet {
	return r.current.Load().set
}

// Options returns a copy of the registry options.
func (r *Registry) Options() Options {
	return r.opts.clone()
}

// Inspector returns the inspector used by %o and %O. Printers registered on
// it apply to every channel of the registry.
func (r *Registry) Inspector() *format.Inspector {
	return r.inspector
}

// Store returns the store the enable-string is persisted to.
func (r *Registry) Store() store.NamespaceStore {
	return r.store
}

// SetFormatter registers f for the directive %c. A nil f removes it.
func (r *Registry) SetFormatter(c rune, f format.Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// copy on write, calls in flight keep the table they started with
	table := r.formatters.Clone()
	if f == nil {
		delete(table, c)
	} else {
		table[c] = f
	}
	r.formatters = table
}

// Formatter returns the formatter for %c.
func (r *Registry) Formatter(c rune) (format.Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[c]
	return f, ok
}

func (r *Registry) table() format.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters
}

// Load re-reads the store and applies what it holds without saving it back.
func (r *Registry) Load(ctx context.Context) error {
	snap, err := r.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		r.apply("")
		return nil
	}
	if err != nil {
		return err
	}
	r.observe(snap)
	return nil
}

// Watch applies every snapshot the store reports until ctx is done.
// Snapshots older than the newest version seen are ignored. It returns store.ErrWatchUnsupported when the store cannot report changes.
func (r *Registry) Watch(ctx context.Context) error {
	w, ok := r.store.(store.Watcher)
	if !ok {
		return store.ErrWatchUnsupported
	}
	return w.Watch(ctx, func(snap *store.Snapshot) {
		if int64(snap.Version) < r.version.Load() {
			r.logger.Debug("ignoring stale namespaces %q (version %d)", snap.Namespaces, snap.Version)
			return
		}
		r.logger.Info("namespaces changed to %q (version %d)", snap.Namespaces, snap.Version)
		r.observe(snap)
	})
}

func (r *Registry) observe(snap *store.Snapshot) {
	r.apply(snap.Namespaces)
	for {
		v := r.version.Load()
		if int64(snap.Version) <= v || r.version.CompareAndSwap(v, int64(snap.Version)) {
			return
		}
	}
}

func (r *Registry) apply(s string) {
	r.current.Store(&patterns{raw: s, set: namespace.Compile(s)})
}
