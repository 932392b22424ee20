// Package index keeps one range tree per stored dataset and answers
// queries against them by dataset name.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-sod/rangetree/internal/database"
	datasetDb "github.com/go-sod/rangetree/internal/dataset/database"
	"github.com/go-sod/rangetree/internal/dataset/model"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/metric"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
	"github.com/go-sod/rangetree/pkg/math/vector"
	"github.com/go-sod/rangetree/pkg/rworker"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrClosed          = errors.New("index manager is stopped")
)

// Contract for returning the Manager instance
type ProvideFn func() (Manager, error)

type Manager interface {
	Searcher
	// Run loads and indexes every stored dataset.
	Run(context.Context) error
	// Add indexes a dataset, replacing the index of the same name.
	Add(context.Context, model.Dataset) error
	Stop()
}

// Searcher answers queries against indexed datasets.
type Searcher interface {
	RangeSearch(ctx context.Context, name string, low, high vector.V[float64]) ([]vector.V[float64], error)
	Search(ctx context.Context, name string, point vector.V[float64]) (bool, error)
	Dataset(name string) (Info, error)
	Datasets() []Info
}

// Info describes an indexed dataset.
type Info struct {
	ID      uuid.UUID           `json:"id"`
	Name    string              `json:"name"`
	Dims    int                 `json:"dims"`
	Len     int                 `json:"len"`
	Height  int                 `json:"height"`
	Mode    rangetree.QueryMode `json:"mode"`
	BuiltAt time.Time           `json:"builtAt"`
}

type fetchDatasetsFn func(context.Context, datasetDb.FilterFn) ([]model.Dataset, error)

type Options struct {
	queryMode           rangetree.QueryMode
	maxConcurrentBuilds int
}

type Option func(*manager)

func WithQueryMode(mode rangetree.QueryMode) Option {
	return func(m *manager) {
		m.opts.queryMode = mode
	}
}

func WithMaxConcurrentBuilds(n int) Option {
	return func(m *manager) {
		m.opts.maxConcurrentBuilds = n
	}
}

// New returns a manager loading its datasets from db. A nil db starts it
// empty, datasets then arrive through Add only.
func New(db *database.DB, opts ...Option) (*manager, error) {
	m := &manager{
		opts: Options{
			queryMode:           rangetree.QueryModeScan,
			maxConcurrentBuilds: 1,
		},
		entries: map[string]entry{},
	}
	for _, f := range opts {
		f(m)
	}

	if !m.opts.queryMode.Valid() {
		return nil, fmt.Errorf("unknown query mode %q", m.opts.queryMode)
	}
	if m.opts.maxConcurrentBuilds < 1 {
		m.opts.maxConcurrentBuilds = 1
	}

	if db != nil {
		m.fetchDatasets = datasetDb.New(db).FindAll
	}

	return m, nil
}

type entry struct {
	info Info
	tree *rangetree.Tree[float64]
}

type manager struct {
	mtx sync.RWMutex

	opts    Options
	entries map[string]entry
	closed  bool

	fetchDatasets fetchDatasetsFn
}

func (m *manager) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	if m.fetchDatasets == nil {
		logger.Info("no dataset storage configured, starting with an empty index")
		return nil
	}

	datasets, err := m.fetchDatasets(ctx, nil)
	if err != nil {
		return fmt.Errorf("error fetching datasets: %w", err)
	}

	builds := make([]func() error, len(datasets))
	for i := range datasets {
		dataset := datasets[i]
		builds[i] = func() error {
			return m.Add(ctx, dataset)
		}
	}
	if err := rworker.All(m.opts.maxConcurrentBuilds, builds...); err != nil {
		return fmt.Errorf("can not start index manager: %w", err)
	}

	logger.Infof("indexed %d datasets", len(datasets))
	return nil
}

func (m *manager) Stop() {
	m.mtx.Lock()
	m.closed = true
	m.mtx.Unlock()
}

func (m *manager) Add(ctx context.Context, dataset model.Dataset) error {
	logger := logging.FromContext(ctx)
	if err := dataset.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, rangetree.ErrInvalidInput)
	}

	start := time.Now()
	tree, err := rangetree.Build(dataset.Dims, dataset.Points, rangetree.WithQueryMode(m.opts.queryMode))
	if err != nil {
		return fmt.Errorf("build index for %s: %w", dataset.Name, err)
	}
	took := time.Since(start)
	metric.RecordBuild(ctx, dataset.Name, string(m.opts.queryMode), took)
	logger.Debugf("dataset %s with %d points indexed in %v", dataset.Name, dataset.Len(), took)

	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries[dataset.Name] = entry{
		info: Info{
			ID:      dataset.ID,
			Name:    dataset.Name,
			Dims:    dataset.Dims,
			Len:     tree.Len(),
			Height:  tree.Height(),
			Mode:    tree.Mode(),
			BuiltAt: time.Now(),
		},
		tree: tree,
	}
	return nil
}

func (m *manager) lookup(name string) (entry, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	if m.closed {
		return entry{}, ErrClosed
	}
	e, ok := m.entries[name]
	if !ok {
		return entry{}, fmt.Errorf("%s: %w", name, ErrDatasetNotFound)
	}
	return e, nil
}

func (m *manager) RangeSearch(ctx context.Context, name string, low, high vector.V[float64]) ([]vector.V[float64], error) {
	e, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	points, err := e.tree.RangeSearch(low, high)
	if err != nil {
		return nil, err
	}
	metric.RecordQuery(ctx, name, metric.OpRange, time.Since(start), len(points))
	return points, nil
}

func (m *manager) Search(ctx context.Context, name string, point vector.V[float64]) (bool, error) {
	e, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	start := time.Now()
	found, err := e.tree.Search(point)
	if err != nil {
		return false, err
	}
	metric.RecordQuery(ctx, name, metric.OpSearch, time.Since(start), 0)
	return found, nil
}

func (m *manager) Dataset(name string) (Info, error) {
	e, err := m.lookup(name)
	if err != nil {
		return Info{}, err
	}
	return e.info, nil
}

// Datasets lists every indexed dataset ordered by name.
func (m *manager) Datasets() []Info {
	m.mtx.RLock()
	infos := make([]Info, 0, len(m.entries))
	for _, e := range m.entries {
		infos = append(infos, e.info)
	}
	m.mtx.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}
