// Package driver runs a scenario against freshly built range trees and
// writes the timings and answers to a text report.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-sod/rangetree/internal/database"
	datasetDb "github.com/go-sod/rangetree/internal/dataset/database"
	"github.com/go-sod/rangetree/internal/dataset/model"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/report"
	"github.com/go-sod/rangetree/internal/scenario"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
	"github.com/go-sod/rangetree/pkg/math/vector"
)

type storeFn func(context.Context, model.Dataset) error

func Run(ctx context.Context, cfg *Config) error {
	mode := rangetree.QueryMode(cfg.QueryMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown query mode: %s", cfg.QueryMode)
	}

	sc, err := load(cfg.Scenario)
	if err != nil {
		return err
	}

	var store storeFn
	if cfg.DBFile != "" {
		db, err := database.NewFromEnv(ctx, &database.Config{FileName: cfg.DBFile, Timeout: cfg.DBTimeout})
		if err != nil {
			return fmt.Errorf("open dataset storage: %w", err)
		}
		defer db.Close(ctx)
		store = datasetDb.New(db).Store
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := write(ctx, f, sc, mode, store); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

func write(ctx context.Context, out io.Writer, sc *scenario.Scenario, mode rangetree.QueryMode, store storeFn) error {
	logger := logging.FromContext(ctx)

	w := report.New[int64](out)
	w.Begin(sc.Title)
	for i := range sc.Datasets {
		ds := &sc.Datasets[i]
		if err := runDataset(ctx, w, ds, i == 0, mode, store); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		logger.Debugf("dataset %s done", ds.Name)
	}
	if err := w.End(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func load(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.LoadFile(path)
}

// runDataset reports the first dataset with a range query section and the
// following ones each under their own heading.
func runDataset(
	ctx context.Context,
	w *report.Writer[int64],
	ds *scenario.Dataset,
	first bool,
	mode rangetree.QueryMode,
	store storeFn,
) error {
	points := ds.Generate()
	if !first {
		w.DatasetHeader(ds.Dims)
	}

	start := time.Now()
	tree, err := rangetree.Build(ds.Dims, points, rangetree.WithQueryMode(mode))
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	w.Build(ds.Dims, tree.Len(), time.Since(start))

	label := "Query range"
	if first && len(ds.Ranges) > 0 {
		w.RangesHeader(ds.Dims)
	}
	if !first {
		label = fmt.Sprintf("%dD Query range", ds.Dims)
	}
	for _, r := range ds.Ranges {
		start := time.Now()
		found, err := tree.RangeSearch(r.Low, r.High)
		if err != nil {
			return fmt.Errorf("range search: %w", err)
		}
		w.Range(label, ds.Dims, r.Low, r.High, found, time.Since(start))
	}

	if len(ds.Searches) > 0 {
		w.SearchesHeader()
		for _, p := range ds.Searches {
			start := time.Now()
			found, err := tree.Search(p)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			w.Search(ds.Dims, p, found, time.Since(start))
		}
		w.SearchesEnd()
	}

	if store == nil {
		return nil
	}
	stored := make([]vector.V[float64], len(points))
	for i := range points {
		stored[i] = vector.Convert[int64, float64](points[i])
	}
	if err := store(ctx, model.NewDataset(ds.Name, ds.Dims, stored, time.Now().UTC())); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
