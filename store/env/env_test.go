package env

import (
	"context"
	"os"
	"testing"

	"github.com/smallnest/nsdebug/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvNamespaceStore(t *testing.T) {
	const variable = "NSDEBUG_ENV_STORE_TEST"
	t.Setenv(variable, "")
	require.NoError(t, os.Unsetenv(variable))

	s := NewEnvNamespaceStore(variable)
	ctx := context.Background()
	assert.Equal(t, variable, s.Variable())

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.Save(ctx, store.NewSnapshot("api:*,-api:internal", 1)))
	assert.Equal(t, "api:*,-api:internal", os.Getenv(variable))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "api:*,-api:internal", snap.Namespaces)

	history, err = s.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// saving an empty enable-string removes the variable
	require.NoError(t, s.Save(ctx, store.NewSnapshot("", 2)))
	_, ok := os.LookupEnv(variable)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, store.NewSnapshot("x", 3)))
	require.NoError(t, s.Clear(ctx))
	_, ok = os.LookupEnv(variable)
	assert.False(t, ok)
}

func TestEnvNamespaceStore_DefaultVariable(t *testing.T) {
	assert.Equal(t, "DEBUG", NewEnvNamespaceStore("").Variable())
}
