package main

import (
	"context"
	"fmt"

	"github.com/smallnest/nsdebug/internal/config"
	"github.com/smallnest/nsdebug/store"
	envstore "github.com/smallnest/nsdebug/store/env"
	"github.com/smallnest/nsdebug/store/file"
	"github.com/smallnest/nsdebug/store/memory"
	"github.com/smallnest/nsdebug/store/postgres"
	redisstore "github.com/smallnest/nsdebug/store/redis"
	"github.com/smallnest/nsdebug/store/sqlite"
)

func nopClose() error { return nil }

// openStore opens the configured store. The returned function releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.NamespaceStore, func() error, error) {
	switch cfg.Type {
	case config.StoreEnv:
		return envstore.NewEnvNamespaceStore(cfg.Variable), nopClose, nil

	case config.StoreMemory:
		return memory.NewMemoryNamespaceStore(), nopClose, nil

	case config.StoreFile:
		s, err := file.NewFileNamespaceStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopClose, nil

	case config.StoreRedis:
		s := redisstore.NewRedisNamespaceStore(redisstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
			Limit:    cfg.Redis.Limit,
		})
		return s, s.Close, nil

	case config.StorePostgres:
		s, err := postgres.NewPostgresNamespaceStore(ctx, postgres.PostgresOptions{
			ConnString: cfg.Postgres.DSN,
			TableName:  cfg.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, func() error { s.Close(); return nil }, nil

	case config.StoreSqlite:
		s, err := sqlite.NewSqliteNamespaceStore(sqlite.SqliteOptions{
			Path:      cfg.Path,
			TableName: cfg.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
}
