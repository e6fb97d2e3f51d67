// Package env stores the enable-string in an environment variable of the
// current process. Only the namespaces survive a round trip: snapshot IDs,
// versions and timestamps are not kept, and the history holds one entry.
package env

import (
	"context"
	"os"

	"github.com/smallnest/nsdebug/store"
)

// DefaultVariable is the conventional variable holding the enable-string.
const DefaultVariable = "DEBUG"

// EnvNamespaceStore keeps the enable-string in an environment variable
type EnvNamespaceStore struct {
	variable string
}

var _ store.NamespaceStore = (*EnvNamespaceStore)(nil)

// NewEnvNamespaceStore creates a store bound to variable, DEBUG when empty
func NewEnvNamespaceStore(variable string) *EnvNamespaceStore {
	if variable == "" {
		variable = DefaultVariable
	}
	return &EnvNamespaceStore{variable: variable}
}

// Variable returns the name of the environment variable
func (s *EnvNamespaceStore) Variable() string {
	return s.variable
}

// Save sets the variable, or unsets it for an empty enable-string
func (s *EnvNamespaceStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	if snapshot.Namespaces == "" {
		return os.Unsetenv(s.variable)
	}
	return os.Setenv(s.variable, snapshot.Namespaces)
}

// Load reads the variable
func (s *EnvNamespaceStore) Load(_ context.Context) (*store.Snapshot, error) {
	v, ok := os.LookupEnv(s.variable)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Snapshot{Namespaces: v}, nil
}

// History returns the current value as the only entry
func (s *EnvNamespaceStore) History(ctx context.Context, _ int) ([]*store.Snapshot, error) {
	snap, err := s.Load(ctx)
	if err == store.ErrNotFound {
		return []*store.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []*store.Snapshot{snap}, nil
}

// Clear unsets the variable
func (s *EnvNamespaceStore) Clear(_ context.Context) error {
	return os.Unsetenv(s.variable)
}
