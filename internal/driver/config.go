package driver

import "time"

type Config struct {
	// Empty runs the built-in scenario.
	Scenario  string        `env:"RANGETREE_SCENARIO"`
	Output    string        `env:"RANGETREE_OUTPUT,default=range_tree_results.txt"`
	QueryMode string        `env:"RANGETREE_QUERY_MODE,default=SCAN"`
	// Scenario datasets are also stored in this file when set.
	DBFile    string        `env:"RANGETREE_DB_FILE"`
	DBTimeout time.Duration `env:"RANGETREE_DB_TIMEOUT,default=1s"`
	Debug     bool          `env:"RANGETREE_DEBUG,default=false"`
}
