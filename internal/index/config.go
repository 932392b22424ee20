package index

type Config struct {
	QueryMode           string `envconfig:"RANGETREE_QUERY_MODE" default:"SCAN"`
	MaxConcurrentBuilds int    `envconfig:"RANGETREE_MAX_CONCURRENT_BUILDS" default:"4"`
}
