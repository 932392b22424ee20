package query

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"RANGETREE_QUERY_REQUEST_TIMEOUT" default:"30s"`
	MaxBatchLen    int           `envconfig:"RANGETREE_QUERY_MAX_BATCH_LEN" default:"64"`
}
