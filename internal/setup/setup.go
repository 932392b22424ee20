// Package setup reads the environment into a service config and builds
// the service dependencies the config asks for.
package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-sod/rangetree/internal/cache"
	"github.com/go-sod/rangetree/internal/database"
	"github.com/go-sod/rangetree/internal/index"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/srvenv"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
)

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type IndexConfigProvider interface {
	IndexConfig() *index.Config
}

type CacheConfigProvider interface {
	CacheConfig() *cache.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var db *database.DB
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring db")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if cacheConfigProvider, ok := config.(CacheConfigProvider); ok {
		logger.Info("Configuring cache")
		c, err := cache.New(ctx, cacheConfigProvider.CacheConfig())
		if err != nil {
			closeDB(ctx, db)
			return nil, fmt.Errorf("unable to connect to cache: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithCache(c))
	}

	if indexConfigProvider, ok := config.(IndexConfigProvider); ok {
		logger.Info("Configuring index")
		provideFn, err := ProvideIndexFor(indexConfigProvider, db)
		if err != nil {
			closeDB(ctx, db)
			return nil, fmt.Errorf("unable create index provide function: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithIndex(provideFn))
	}

	return srvenv.New(serverEnvOpts...), nil
}

func ProvideIndexFor(provider IndexConfigProvider, db *database.DB) (index.ProvideFn, error) {
	cfg := provider.IndexConfig()
	mode := rangetree.QueryMode(cfg.QueryMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown query mode: %s", cfg.QueryMode)
	}
	return func() (index.Manager, error) {
		return index.New(
			db,
			index.WithQueryMode(mode),
			index.WithMaxConcurrentBuilds(cfg.MaxConcurrentBuilds),
		)
	}, nil
}

func closeDB(ctx context.Context, db *database.DB) {
	if db == nil {
		return
	}
	if err := db.Close(ctx); err != nil {
		logging.FromContext(ctx).Errorf("close db: %v", err)
	}
}
