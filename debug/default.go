package debug

import (
	"sync"
	"sync/atomic"
)

var (
	defaultMu       sync.Mutex
	defaultRegistry atomic.Pointer[Registry]
)

// Default returns the package registry, creating it from the environment on
// first use.
func Default() *Registry {
	if r := defaultRegistry.Load(); r != nil {
		return r
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if r := defaultRegistry.Load(); r != nil {
		return r
	}
	r := NewRegistry()
	defaultRegistry.Store(r)
	return r
}

// SetDefault replaces the package registry. Channels created before keep
// using the old one.
func SetDefault(r *Registry) {
	defaultRegistry.Store(r)
}

// New creates a channel in the package registry.
func New(ns string) *Channel {
	return Default().Channel(ns)
}

// Enable calls Enable on the package registry.
func Enable(s string) {
	Default().Enable(s)
}

// Disable calls Disable on the package registry.
func Disable() string {
	return Default().Disable()
}

// Enabled calls Enabled on the package registry.
func Enabled(name string) bool {
	return Default().Enabled(name)
}
