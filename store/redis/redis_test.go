package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smallnest/nsdebug/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNamespaceStore(t *testing.T) {
	// Start miniredis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisNamespaceStore(RedisOptions{
		Addr: mr.Addr(),
	})
	defer s.Close()

	ctx := context.Background()

	// Nothing saved yet
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Save two snapshots
	first := store.NewSnapshot("api:*", 1)
	second := store.NewSnapshot("api:*,-api:internal", 2)
	assert.NoError(t, s.Save(ctx, first))
	assert.NoError(t, s.Save(ctx, second))

	// Load returns the newest
	loaded, err := s.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, "api:*,-api:internal", loaded.Namespaces)
	assert.Equal(t, 2, loaded.Version)

	// History is newest first
	history, err := s.History(ctx, 0)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	history, err = s.History(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, history, 1)

	// Keys use the default prefix
	assert.True(t, mr.Exists("nsdebug:namespaces:history"))

	// Clear
	assert.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisNamespaceStore_LimitAndTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisNamespaceStore(RedisOptions{
		Addr:   mr.Addr(),
		Prefix: "app:",
		TTL:    time.Hour,
		Limit:  3,
	})
	defer s.Close()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Save(ctx, store.NewSnapshot(fmt.Sprintf("ns%d", i), i)))
	}

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, "ns5", history[0].Namespaces)
	assert.Equal(t, "ns3", history[2].Namespaces)

	assert.Equal(t, time.Hour, mr.TTL("app:namespaces:history"))
}

func TestRedisNamespaceStore_SkipsGarbage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisNamespaceStore(RedisOptions{Addr: mr.Addr()})
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, store.NewSnapshot("ok", 1)))
	_, err = mr.Lpush("nsdebug:namespaces:history", "not json")
	require.NoError(t, err)

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = s.Load(ctx)
	assert.Error(t, err)
}

func TestRedisNamespaceStore_Watch(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	watcher := NewRedisNamespaceStore(RedisOptions{Addr: mr.Addr()})
	defer watcher.Close()
	writer := NewRedisNamespaceStore(RedisOptions{Addr: mr.Addr()})
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *store.Snapshot, 16)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func(s *store.Snapshot) { received <- s })
	}()

	// the subscription is set up asynchronously, keep publishing until it lands
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	version := 0
	for {
		select {
		case snap := <-received:
			assert.Equal(t, "worker:*", snap.Namespaces)
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-ticker.C:
			version++
			require.NoError(t, writer.Save(context.Background(), store.NewSnapshot("worker:*", version)))
		case <-deadline:
			t.Fatal("Watch did not report the change")
		}
	}
}
