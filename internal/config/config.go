package rangetree

import (
	"github.com/go-sod/rangetree/internal/cache"
	"github.com/go-sod/rangetree/internal/database"
	"github.com/go-sod/rangetree/internal/index"
	"github.com/go-sod/rangetree/internal/query"
	"github.com/go-sod/rangetree/internal/setup"
)

var (
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.IndexConfigProvider    = (*Config)(nil)
	_ setup.CacheConfigProvider    = (*Config)(nil)
)

type Config struct {
	Debug     bool   `envconfig:"RANGETREE_DEBUG" default:"false"`
	SrvAddr   string `envconfig:"RANGETREE_ADDR" default:":8787"`
	GRPCAddr  string `envconfig:"RANGETREE_GRPC_ADDR" default:""`
	MaxConns  int    `envconfig:"RANGETREE_MAX_CONNS" default:"1024"`
	MetricsNS string `envconfig:"RANGETREE_METRICS_NAMESPACE" default:"rangetree"`
	Query     query.Config
	Index     index.Config
	Database  database.Config
	Cache     cache.Config
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) IndexConfig() *index.Config {
	return &c.Index
}

func (c *Config) CacheConfig() *cache.Config {
	return &c.Cache
}
