package setup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sod/rangetree/internal/cache"
	"github.com/go-sod/rangetree/internal/database"
	"github.com/go-sod/rangetree/internal/index"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
)

type testConfig struct {
	Index    index.Config
	Database database.Config
	Cache    cache.Config
}

func (c *testConfig) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *testConfig) IndexConfig() *index.Config {
	return &c.Index
}

func (c *testConfig) CacheConfig() *cache.Config {
	return &c.Cache
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	t.Setenv("RANGETREE_DB_FILE", filepath.Join(t.TempDir(), "setup.db"))
	t.Setenv("RANGETREE_QUERY_MODE", string(rangetree.QueryModeCanonical))
	t.Setenv("RANGETREE_REDIS_ADDR", "")

	config := testConfig{}
	env, err := Setup(ctx, &config)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer env.Close(ctx)

	if config.Index.QueryMode != string(rangetree.QueryModeCanonical) || config.Index.MaxConcurrentBuilds != 4 {
		t.Errorf("index config, got: %+v", config.Index)
	}
	if env.Database() == nil {
		t.Fatalf("database is not configured")
	}
	if _, ok := env.Cache().(cache.Nop); !ok {
		t.Errorf("cache, got: %T, expected: %T", env.Cache(), cache.Nop{})
	}

	m, err := env.ProvideIndex()()
	if err != nil {
		t.Fatalf("provide index: %v", err)
	}
	if err := m.Run(ctx); err != nil {
		t.Errorf("run on empty db: %v", err)
	}
	if got := len(m.Datasets()); got != 0 {
		t.Errorf("datasets, got: %v, expected: %v", got, 0)
	}
}

func TestProvideIndexFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mode    string
		wantErr bool
	}{
		{name: "scan", mode: "SCAN"},
		{name: "canonical", mode: "CANONICAL"},
		{name: "unknown", mode: "scan", wantErr: true},
	}
	for _, test := range tests {
		cfg := &testConfig{Index: index.Config{QueryMode: test.mode, MaxConcurrentBuilds: 2}}
		fn, err := ProvideIndexFor(cfg, nil)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: error, got: %v, expected error: %v", test.name, err, test.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if _, err := fn(); err != nil {
			t.Errorf("%s: provide, got: %v, expected: %v", test.name, err, nil)
		}
	}
}
