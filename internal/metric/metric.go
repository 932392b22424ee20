// Package metric records index build and query statistics with opencensus
// and exposes them to Prometheus.
package metric

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	OpRange  = "range"
	OpSearch = "search"
)

var (
	KeyDataset = tag.MustNewKey("dataset")
	KeyMode    = tag.MustNewKey("mode")
	KeyOp      = tag.MustNewKey("op")
)

var (
	BuildLatency = stats.Float64("rangetree/build_latency", "Time to build a dataset index", stats.UnitMilliseconds)
	QueryLatency = stats.Float64("rangetree/query_latency", "Time to answer a query", stats.UnitMilliseconds)
	QueryResults = stats.Int64("rangetree/query_results", "Points returned by a range query", stats.UnitDimensionless)
	CacheHits    = stats.Int64("rangetree/cache_hits", "Range queries answered from the cache", stats.UnitDimensionless)
)

var latencyBounds = view.Distribution(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000)

var Views = []*view.View{
	{
		Name:        "rangetree/build_latency",
		Measure:     BuildLatency,
		Description: "Distribution of index build latency",
		TagKeys:     []tag.Key{KeyDataset, KeyMode},
		Aggregation: latencyBounds,
	},
	{
		Name:        "rangetree/query_latency",
		Measure:     QueryLatency,
		Description: "Distribution of query latency",
		TagKeys:     []tag.Key{KeyDataset, KeyOp},
		Aggregation: latencyBounds,
	},
	{
		Name:        "rangetree/query_results",
		Measure:     QueryResults,
		Description: "Distribution of range query result sizes",
		TagKeys:     []tag.Key{KeyDataset},
		Aggregation: view.Distribution(0, 1, 10, 100, 1000, 10000, 100000),
	},
	{
		Name:        "rangetree/cache_hits",
		Measure:     CacheHits,
		Description: "Number of cached range query answers",
		TagKeys:     []tag.Key{KeyDataset},
		Aggregation: view.Count(),
	},
}

func Register() error {
	if err := view.Register(Views...); err != nil {
		return fmt.Errorf("register views: %w", err)
	}
	return nil
}

// NewHandler returns the Prometheus scrape endpoint for every registered view.
func NewHandler(namespace string) (http.Handler, error) {
	pe, err := prometheus.NewExporter(prometheus.Options{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return pe, nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func RecordBuild(ctx context.Context, dataset, mode string, took time.Duration) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyDataset, dataset), tag.Upsert(KeyMode, mode)},
		BuildLatency.M(ms(took)),
	)
}

func RecordQuery(ctx context.Context, dataset, op string, took time.Duration, results int) {
	mutators := []tag.Mutator{tag.Upsert(KeyDataset, dataset), tag.Upsert(KeyOp, op)}
	_ = stats.RecordWithTags(ctx, mutators, QueryLatency.M(ms(took)))
	if op == OpRange {
		_ = stats.RecordWithTags(ctx, mutators, QueryResults.M(int64(results)))
	}
}

func RecordCacheHit(ctx context.Context, dataset string) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyDataset, dataset)}, CacheHits.M(1))
}
