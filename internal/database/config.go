package database

import "time"

type Config struct {
	FileName string        `envconfig:"RANGETREE_DB_FILE" default:"rangetree.db"`
	Timeout  time.Duration `envconfig:"RANGETREE_DB_TIMEOUT" default:"1s"`
	// Opens an existing file with a shared lock, so several readers can
	// serve it while no writer holds it.
	ReadOnly bool `envconfig:"RANGETREE_DB_READ_ONLY" default:"false"`
}
