package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-sod/rangetree/internal/dataset/model"
	"github.com/go-sod/rangetree/internal/index"
	"github.com/go-sod/rangetree/pkg/container/rangetree"
	"github.com/go-sod/rangetree/pkg/math/vector"
)

var testConfig = &Config{RequestTimeout: 5 * time.Second, MaxBatchLen: 3}

type mapCache struct {
	mtx  sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.gets++
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Close() error {
	return nil
}

func newSearcher(t *testing.T) index.Manager {
	t.Helper()
	m, err := index.New(nil, index.WithQueryMode(rangetree.QueryModeCanonical))
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}
	points := []vector.V[float64]{{3, 6}, {17, 15}, {13, 15}, {6, 12}, {9, 1}, {2, 7}, {10, 19}}
	if err := m.Add(context.Background(), model.NewDataset("grid", 2, points, time.Now())); err != nil {
		t.Fatalf("add: %v", err)
	}
	return m
}

func do(h http.Handler, method, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRangeHandler(t *testing.T) {
	t.Parallel()
	h, _ := NewRangeHandler(testConfig, newSearcher(t), nil)
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		code        int
		count       int
	}{
		{name: "found", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"grid","low":[5,5],"high":[15,15]}`, code: http.StatusOK, count: 2},
		{name: "all", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"grid","low":[0,0],"high":[20,20]}`, code: http.StatusOK, count: 7},
		{name: "inverted", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"grid","low":[15,15],"high":[5,5]}`, code: http.StatusOK, count: 0},
		{name: "short_bounds", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"grid","low":[5],"high":[15,15]}`, code: http.StatusBadRequest},
		{name: "unknown_dataset", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"other","low":[5,5],"high":[15,15]}`, code: http.StatusNotFound},
		{name: "malformed", method: http.MethodPost, contentType: "application/json", body: `{"dataset":`, code: http.StatusBadRequest},
		{name: "unknown_field", method: http.MethodPost, contentType: "application/json", body: `{"dataset":"grid","lo":[5,5]}`, code: http.StatusBadRequest},
		{name: "method", method: http.MethodGet, contentType: "application/json", code: http.StatusMethodNotAllowed},
		{name: "content_type", method: http.MethodPost, contentType: "text/plain", body: `{}`, code: http.StatusUnsupportedMediaType},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			rec := do(h, test.method, test.body, test.contentType)
			if rec.Code != test.code {
				t.Fatalf("status, got: %v, expected: %v (%s)", rec.Code, test.code, rec.Body.String())
			}
			if test.code != http.StatusOK {
				return
			}
			var resp rangeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Count != test.count || len(resp.Points) != test.count || resp.Dataset != "grid" {
				t.Errorf("response, got: %+v, expected count: %v", resp, test.count)
			}
		})
	}
}

func TestRangeHandler_Cache(t *testing.T) {
	t.Parallel()
	c := &mapCache{data: map[string][]byte{}}
	searcher := newSearcher(t)
	h, _ := NewRangeHandler(testConfig, searcher, c)

	body := `{"dataset":"grid","low":[5,5],"high":[15,15]}`
	first := do(h, http.MethodPost, body, "application/json")
	second := do(h, http.MethodPost, body, "application/json")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status, got: %v/%v, expected: %v", first.Code, second.Code, http.StatusOK)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body, got: %s, expected: %s", second.Body.String(), first.Body.String())
	}
	if c.gets != 2 || c.hits != 1 {
		t.Errorf("cache use, got: %d gets %d hits, expected: 2 gets 1 hit", c.gets, c.hits)
	}

	// A replaced dataset gets a new ID, so old answers are never served.
	if err := searcher.Add(context.Background(), model.NewDataset("grid", 2, []vector.V[float64]{{6, 6}}, time.Now())); err != nil {
		t.Fatalf("add: %v", err)
	}
	third := do(h, http.MethodPost, body, "application/json")
	var resp rangeResponse
	if err := json.Unmarshal(third.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count after replace, got: %v, expected: %v", resp.Count, 1)
	}
}

func TestSearchHandler(t *testing.T) {
	t.Parallel()
	h, _ := NewSearchHandler(testConfig, newSearcher(t))
	tests := []struct {
		name     string
		body     string
		code     int
		expected bool
	}{
		{name: "found", body: `{"dataset":"grid","point":[3,6]}`, code: http.StatusOK, expected: true},
		{name: "missing", body: `{"dataset":"grid","point":[7,8]}`, code: http.StatusOK, expected: false},
		{name: "short_point", body: `{"dataset":"grid","point":[3]}`, code: http.StatusBadRequest},
		{name: "unknown_dataset", body: `{"dataset":"other","point":[3,6]}`, code: http.StatusNotFound},
		{name: "empty", body: ``, code: http.StatusBadRequest},
	}
	for _, test := range tests {
		rec := do(h, http.MethodPost, test.body, "application/json")
		if rec.Code != test.code {
			t.Errorf("%s: status, got: %v, expected: %v", test.name, rec.Code, test.code)
			continue
		}
		if test.code != http.StatusOK {
			continue
		}
		var resp searchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode response: %v", test.name, err)
		}
		if resp.Found != test.expected {
			t.Errorf("%s: found, got: %v, expected: %v", test.name, resp.Found, test.expected)
		}
	}
}

func TestBatchHandler(t *testing.T) {
	t.Parallel()
	h, _ := NewBatchHandler(testConfig, newSearcher(t))
	tests := []struct {
		name     string
		body     string
		code     int
		expected []int
	}{
		{
			name:     "ordered",
			body:     `{"dataset":"grid","ranges":[{"low":[0,0],"high":[20,20]},{"low":[5,5],"high":[15,15]},{"low":[3,6],"high":[3,6]}]}`,
			code:     http.StatusOK,
			expected: []int{7, 2, 1},
		},
		{name: "empty", body: `{"dataset":"grid","ranges":[]}`, code: http.StatusOK, expected: []int{}},
		{
			name: "too_large",
			body: `{"dataset":"grid","ranges":[{"low":[0,0],"high":[1,1]},{"low":[0,0],"high":[1,1]},{"low":[0,0],"high":[1,1]},{"low":[0,0],"high":[1,1]}]}`,
			code: http.StatusBadRequest,
		},
		{name: "one_invalid", body: `{"dataset":"grid","ranges":[{"low":[0,0],"high":[1,1]},{"low":[0],"high":[1,1]}]}`, code: http.StatusBadRequest},
		{name: "unknown_dataset", body: `{"dataset":"other","ranges":[{"low":[0,0],"high":[1,1]}]}`, code: http.StatusNotFound},
	}
	for _, test := range tests {
		rec := do(h, http.MethodPost, test.body, "application/json")
		if rec.Code != test.code {
			t.Errorf("%s: status, got: %v, expected: %v", test.name, rec.Code, test.code)
			continue
		}
		if test.code != http.StatusOK {
			continue
		}
		var resp batchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode response: %v", test.name, err)
		}
		got := make([]int, len(resp.Results))
		for i := range resp.Results {
			got[i] = resp.Results[i].Count
		}
		if fmt.Sprint(got) != fmt.Sprint(test.expected) {
			t.Errorf("%s: counts, got: %v, expected: %v", test.name, got, test.expected)
		}
	}
}

func TestDatasetsHandler(t *testing.T) {
	t.Parallel()
	h, _ := NewDatasetsHandler(newSearcher(t))

	rec := do(h, http.MethodGet, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status, got: %v, expected: %v", rec.Code, http.StatusOK)
	}
	var resp datasetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Datasets) != 1 || resp.Datasets[0].Name != "grid" || resp.Datasets[0].Len != 7 {
		t.Errorf("datasets, got: %+v", resp.Datasets)
	}

	if rec := do(h, http.MethodPost, "{}", "application/json"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("post status, got: %v, expected: %v", rec.Code, http.StatusMethodNotAllowed)
	}
}
