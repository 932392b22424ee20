package cache

import "time"

type Config struct {
	// Empty address disables caching.
	Addr     string        `envconfig:"RANGETREE_REDIS_ADDR" default:""`
	Password string        `envconfig:"RANGETREE_REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"RANGETREE_REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"RANGETREE_CACHE_TTL" default:"5m"`
}
