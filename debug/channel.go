package debug

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/nsdebug/format"
	"github.com/smallnest/nsdebug/sink"
)

// Override forces a channel on or off regardless of the registry patterns.
type Override int32

const (
	// OverrideUnset defers to the registry patterns.
	OverrideUnset Override = iota
	// OverrideOn always emits.
	OverrideOn
	// OverrideOff never emits.
	OverrideOff
)

// String returns the name of the override.
func (o Override) String() string {
	switch o {
	case OverrideOn:
		return "on"
	case OverrideOff:
		return "off"
	default:
		return "unset"
	}
}

// Channel is a named debug logger. Whether it emits is decided on every call
// from its override and the current patterns of its registry.
type Channel struct {
	registry  *Registry
	namespace string
	color     int
	opts      Options
	useColors atomic.Bool

	override  atomic.Int32
	localDiff atomic.Bool
	localPrev atomic.Int64

	mu   sync.RWMutex
	sink sink.Sink
	prev time.Time
	curr time.Time
	diff time.Duration
}

func newChannel(r *Registry, namespace string) *Channel {
	opts := r.Options()
	c := &Channel{
		registry:  r,
		namespace: namespace,
		color:     SelectColor(namespace, opts.Palette()),
		opts:      opts,
	}
	c.useColors.Store(r.useColors)
	return c
}

// Namespace returns the channel name.
func (c *Channel) Namespace() string {
	return c.namespace
}

// Color returns the color code derived from the namespace.
func (c *Channel) Color() int {
	return c.color
}

// Registry returns the registry the channel belongs to.
func (c *Channel) Registry() *Registry {
	return c.registry
}

// Options returns the channel's copy of the registry options.
func (c *Channel) Options() Options {
	return c.opts
}

// InspectOptions implements format.Context.
func (c *Channel) InspectOptions() format.InspectOptions {
	return c.opts.InspectOptions()
}

// UseColors reports whether output of this channel is colored.
func (c *Channel) UseColors() bool {
	return c.useColors.Load()
}

// SetUseColors turns colored output on or off for this channel only.
func (c *Channel) SetUseColors(v bool) {
	c.useColors.Store(v)
}

// Enabled reports whether a call made now would emit.
func (c *Channel) Enabled() bool {
	switch Override(c.override.Load()) {
	case OverrideOn:
		return true
	case OverrideOff:
		return false
	}
	return c.registry.Enabled(c.namespace)
}

// SetEnabled overrides the registry patterns for this channel.
func (c *Channel) SetEnabled(v bool) {
	if v {
		c.override.Store(int32(OverrideOn))
	} else {
		c.override.Store(int32(OverrideOff))
	}
}

// ResetEnabled removes the override set by SetEnabled.
func (c *Channel) ResetEnabled() {
	c.override.Store(int32(OverrideUnset))
}

// Override returns the current override.
func (c *Channel) Override() Override {
	return Override(c.override.Load())
}

// SetLocalDiff makes the channel measure Diff against its own previous call
// instead of the previous call of any channel in the registry.
func (c *Channel) SetLocalDiff(v bool) {
	c.localDiff.Store(v)
}

// SetSink routes this channel to s instead of the registry sink. A nil sink
// restores the registry sink.
func (c *Channel) SetSink(s sink.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = s
}

// Sink returns the sink set with SetSink, or nil.
func (c *Channel) Sink() sink.Sink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sink
}

// Prev returns the time of the call before the last one, zero if none.
func (c *Channel) Prev() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prev
}

// Curr returns the time of the last emitted call.
func (c *Channel) Curr() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.curr
}

// Diff returns the time between the last emitted call and the one before it.
func (c *Channel) Diff() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.diff
}

// Log emits args when the channel is enabled. The first argument is a
// template that may hold %-directives, see format.Expand.
func (c *Channel) Log(args ...any) {
	if !c.Enabled() {
		return
	}

	r := c.registry
	now := r.now()
	var prevNano int64
	if c.localDiff.Load() {
		prevNano = c.localPrev.Swap(now.UnixNano())
	} else {
		prevNano = r.prevTime.Swap(now.UnixNano())
	}

	call := &Call{Channel: c, Time: now}
	if prevNano != 0 {
		call.Prev = time.Unix(0, prevNano)
		call.Diff = now.Sub(call.Prev)
	}

	c.mu.Lock()
	c.prev, c.curr, c.diff = call.Prev, call.Time, call.Diff
	out := c.sink
	c.mu.Unlock()

	if out == nil {
		out = r.sink
	}

	expanded := format.Expand(args, r.table(), c)
	out.Log(r.decorator.Decorate(call, expanded)...)
}

// Logf is Log with an explicit template.
func (c *Channel) Logf(template string, args ...any) {
	c.Log(append([]any{template}, args...)...)
}

// Extend creates the channel "<namespace>:<suffix>" in the same registry.
// The child writes to the same sink as c.
func (c *Channel) Extend(suffix string) *Channel {
	return c.ExtendWith(suffix, ":")
}

// ExtendWith is Extend with a custom delimiter.
func (c *Channel) ExtendWith(suffix, delimiter string) *Channel {
	child := c.registry.Channel(c.namespace + delimiter + suffix)
	child.SetSink(c.Sink())
	return child
}
