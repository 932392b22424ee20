// Package query serves range and point queries against indexed datasets
// over HTTP.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/go-sod/rangetree/internal/cache"
	"github.com/go-sod/rangetree/internal/httputil"
	"github.com/go-sod/rangetree/internal/index"
	"github.com/go-sod/rangetree/internal/logging"
	"github.com/go-sod/rangetree/internal/metric"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
	"github.com/go-sod/rangetree/pkg/math/vector"
)

const maxBodyBytes = 64 * 1024 * 1024

type rangeRequest struct {
	Dataset string    `json:"dataset"`
	Low     []float64 `json:"low"`
	High    []float64 `json:"high"`
}

type rangeResponse struct {
	Dataset string              `json:"dataset"`
	Count   int                 `json:"count"`
	Points  []vector.V[float64] `json:"points"`
}

type searchRequest struct {
	Dataset string    `json:"dataset"`
	Point   []float64 `json:"point"`
}

type searchResponse struct {
	Dataset string `json:"dataset"`
	Found   bool   `json:"found"`
}

type batchRequest struct {
	Dataset string `json:"dataset"`
	Ranges  []struct {
		Low  []float64 `json:"low"`
		High []float64 `json:"high"`
	} `json:"ranges"`
}

type batchResult struct {
	Count  int                 `json:"count"`
	Points []vector.V[float64] `json:"points"`
}

type batchResponse struct {
	Dataset string        `json:"dataset"`
	Results []batchResult `json:"results"`
}

type datasetsResponse struct {
	Datasets []index.Info `json:"datasets"`
}

type handler struct {
	cfg      *Config
	searcher index.Searcher
	cache    cache.Cache
}

func newHandler(cfg *Config, searcher index.Searcher, c cache.Cache) *handler {
	if c == nil {
		c = cache.Nop{}
	}
	return &handler{cfg: cfg, searcher: searcher, cache: c}
}

// NewRangeHandler answers POST /range.
func NewRangeHandler(cfg *Config, searcher index.Searcher, c cache.Cache) (http.Handler, error) {
	h := newHandler(cfg, searcher, c)
	return http.HandlerFunc(h.serveRange), nil
}

// NewSearchHandler answers POST /search.
func NewSearchHandler(cfg *Config, searcher index.Searcher) (http.Handler, error) {
	h := newHandler(cfg, searcher, nil)
	return http.HandlerFunc(h.serveSearch), nil
}

// NewBatchHandler answers POST /batch.
func NewBatchHandler(cfg *Config, searcher index.Searcher) (http.Handler, error) {
	h := newHandler(cfg, searcher, nil)
	return http.HandlerFunc(h.serveBatch), nil
}

// NewDatasetsHandler answers GET /datasets.
func NewDatasetsHandler(searcher index.Searcher) (http.Handler, error) {
	h := newHandler(&Config{}, searcher, nil)
	return http.HandlerFunc(h.serveDatasets), nil
}

func (h *handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if !httputil.CheckRequest(ctx, w, r, http.MethodPost) {
		return false
	}
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return false
	}
	return true
}

func respQueryErr(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, index.ErrDatasetNotFound):
		httputil.RespNotFound(ctx, w, `{"error": "%v"}`, err)
	case errors.Is(err, rangetree.ErrInvalidInput):
		httputil.RespBadRequest(ctx, w, `{"error": "%v"}`, err)
	default:
		httputil.RespInternalError(ctx, w, `{"error": "query processing error, %v"}`, err)
	}
}

func (h *handler) serveRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !h.decode(ctx, w, r, &req) {
		return
	}

	info, err := h.searcher.Dataset(req.Dataset)
	if err != nil {
		respQueryErr(ctx, w, err)
		return
	}

	key := cache.RangeKey(info.ID.String(), req.Low, req.High)
	cached, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		logger.Warnf("cache get: %v", err)
	}
	if ok {
		metric.RecordCacheHit(ctx, req.Dataset)
		httputil.RespJSON(w, cached)
		return
	}

	points, err := h.searcher.RangeSearch(ctx, req.Dataset, req.Low, req.High)
	if err != nil {
		respQueryErr(ctx, w, err)
		return
	}

	bytes, err := json.Marshal(rangeResponse{Dataset: req.Dataset, Count: len(points), Points: points})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	if err := h.cache.Set(ctx, key, bytes); err != nil {
		logger.Warnf("cache set: %v", err)
	}
	httputil.RespJSON(w, bytes)
}

func (h *handler) serveSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if !h.decode(ctx, w, r, &req) {
		return
	}

	found, err := h.searcher.Search(ctx, req.Dataset, req.Point)
	if err != nil {
		respQueryErr(ctx, w, err)
		return
	}

	bytes, err := json.Marshal(searchResponse{Dataset: req.Dataset, Found: found})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	httputil.RespJSON(w, bytes)
}

func (h *handler) serveBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if !h.decode(ctx, w, r, &req) {
		return
	}

	if len(req.Ranges) > h.cfg.MaxBatchLen {
		httputil.RespBadRequest(ctx, w, `{"error": "batch is too large, max allowed len is %d"}`, h.cfg.MaxBatchLen)
		return
	}

	results := make([]batchResult, len(req.Ranges))
	errGrp, grpCtx := errgroup.WithContext(ctx)
	for i := range req.Ranges {
		i := i
		errGrp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			points, err := h.searcher.RangeSearch(grpCtx, req.Dataset, req.Ranges[i].Low, req.Ranges[i].High)
			if err != nil {
				return err
			}
			results[i] = batchResult{Count: len(points), Points: points}
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		respQueryErr(ctx, w, err)
		return
	}

	bytes, err := json.Marshal(batchResponse{Dataset: req.Dataset, Results: results})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	httputil.RespJSON(w, bytes)
}

func (h *handler) serveDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !httputil.CheckRequest(ctx, w, r, http.MethodGet) {
		return
	}

	bytes, err := json.Marshal(datasetsResponse{Datasets: h.searcher.Datasets()})
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	httputil.RespJSON(w, bytes)
}
