package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/nsdebug/store"
)

// RedisNamespaceStore implements store.NamespaceStore using Redis.
// Snapshots live in a capped list, newest first, and every save is published
// so other processes can follow along.
type RedisNamespaceStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	limit  int
}

var (
	_ store.NamespaceStore = (*RedisNamespaceStore)(nil)
	_ store.Watcher        = (*RedisNamespaceStore)(nil)
)

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "nsdebug:"
	TTL      time.Duration // Expiration for the history, default 0 (no expiration)
	Limit    int           // Snapshots kept, default store.DefaultHistoryLimit
}

// NewRedisNamespaceStore creates a new Redis namespace store
func NewRedisNamespaceStore(opts RedisOptions) *RedisNamespaceStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	s := NewRedisNamespaceStoreFromClient(client, opts.Prefix, opts.TTL)
	if opts.Limit > 0 {
		s.limit = opts.Limit
	}
	return s
}

// NewRedisNamespaceStoreFromClient creates a store on an existing client,
// including cluster and failover clients
func NewRedisNamespaceStoreFromClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisNamespaceStore {
	if prefix == "" {
		prefix = "nsdebug:"
	}
	return &RedisNamespaceStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		limit:  store.DefaultHistoryLimit,
	}
}

func (s *RedisNamespaceStore) historyKey() string {
	return s.prefix + "namespaces:history"
}

func (s *RedisNamespaceStore) changesChannel() string {
	return s.prefix + "namespaces:changes"
}

// Close closes the underlying client
func (s *RedisNamespaceStore) Close() error {
	return s.client.Close()
}

// Save pushes a snapshot onto the history and publishes it
func (s *RedisNamespaceStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := s.historyKey()
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.limit-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	pipe.Publish(ctx, s.changesChannel(), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save namespaces to redis: %w", err)
	}
	return nil
}

// Load returns the newest snapshot
func (s *RedisNamespaceStore) Load(ctx context.Context) (*store.Snapshot, error) {
	data, err := s.client.LIndex(ctx, s.historyKey(), 0).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load namespaces from redis: %w", err)
	}
	return decode(data)
}

// History returns snapshots newest first
func (s *RedisNamespaceStore) History(ctx context.Context, limit int) ([]*store.Snapshot, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	items, err := s.client.LRange(ctx, s.historyKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces from redis: %w", err)
	}

	snapshots := make([]*store.Snapshot, 0, len(items))
	for _, item := range items {
		snap, err := decode([]byte(item))
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Clear deletes the history
func (s *RedisNamespaceStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.historyKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear namespaces: %w", err)
	}
	return nil
}

// Watch subscribes to saves made through any store sharing the prefix
func (s *RedisNamespaceStore) Watch(ctx context.Context, fn func(*store.Snapshot)) error {
	pubsub := s.client.Subscribe(ctx, s.changesChannel())
	defer pubsub.Close()

	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to namespace changes: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			snap, err := decode([]byte(msg.Payload))
			if err != nil {
				continue
			}
			fn(snap)
		}
	}
}

func decode(data []byte) (*store.Snapshot, error) {
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
