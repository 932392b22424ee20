// Package scenario describes the datasets and queries the demonstration
// driver runs, read from TOML.
package scenario

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/valyala/fastrand"

	"github.com/go-sod/rangetree/pkg/math/vector"
)

//go:embed default.toml
var defaultScenario string

type Scenario struct {
	Title    string    `toml:"title"`
	Datasets []Dataset `toml:"dataset"`
}

type Dataset struct {
	Name     string    `toml:"name"`
	Dims     int       `toml:"dims"`
	Points   [][]int64 `toml:"points"`
	Random   *Random   `toml:"random"`
	Ranges   []Range   `toml:"range"`
	Searches [][]int64 `toml:"searches"`
}

type Range struct {
	Low  []int64 `toml:"low"`
	High []int64 `toml:"high"`
}

// Random adds Count points with every coordinate drawn from [Min, Max].
type Random struct {
	Count int   `toml:"count"`
	Min   int64 `toml:"min"`
	Max   int64 `toml:"max"`
}

func Default() (*Scenario, error) {
	return Load(strings.NewReader(defaultScenario))
}

func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	if _, err := toml.DecodeReader(r, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if len(s.Datasets) == 0 {
		return fmt.Errorf("scenario has no datasets")
	}
	names := map[string]struct{}{}
	for i := range s.Datasets {
		ds := &s.Datasets[i]
		if ds.Name == "" {
			return fmt.Errorf("dataset %d has no name", i)
		}
		if _, ok := names[ds.Name]; ok {
			return fmt.Errorf("dataset %s is defined twice", ds.Name)
		}
		names[ds.Name] = struct{}{}
		if err := ds.validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}
	return nil
}

func (d *Dataset) validate() error {
	if d.Dims < 1 {
		return fmt.Errorf("dims must be positive, got %d", d.Dims)
	}
	for i, p := range d.Points {
		if len(p) < d.Dims {
			return fmt.Errorf("point %d has %d coordinates", i, len(p))
		}
	}
	for i, r := range d.Ranges {
		if len(r.Low) < d.Dims || len(r.High) < d.Dims {
			return fmt.Errorf("range %d has %d/%d coordinates", i, len(r.Low), len(r.High))
		}
	}
	for i, p := range d.Searches {
		if len(p) < d.Dims {
			return fmt.Errorf("search %d has %d coordinates", i, len(p))
		}
	}
	if d.Random != nil {
		if d.Random.Count < 0 {
			return fmt.Errorf("random count is negative")
		}
		if d.Random.Min > d.Random.Max {
			return fmt.Errorf("random min %d is above max %d", d.Random.Min, d.Random.Max)
		}
		if uint64(d.Random.Max-d.Random.Min) >= 1<<32 {
			return fmt.Errorf("random span [%d, %d] is too wide", d.Random.Min, d.Random.Max)
		}
	}
	return nil
}

// Generate returns the listed points followed by the random ones.
func (d *Dataset) Generate() []vector.V[int64] {
	points := make([]vector.V[int64], 0, len(d.Points)+d.randomCount())
	for _, p := range d.Points {
		points = append(points, vector.New(p).Copy())
	}
	if d.Random == nil {
		return points
	}

	span := uint32(d.Random.Max - d.Random.Min + 1)
	for i := 0; i < d.Random.Count; i++ {
		p := make(vector.V[int64], d.Dims)
		for j := range p {
			if span == 0 {
				p[j] = d.Random.Min + int64(fastrand.Uint32())
				continue
			}
			p[j] = d.Random.Min + int64(fastrand.Uint32n(span))
		}
		points = append(points, p)
	}
	return points
}

func (d *Dataset) randomCount() int {
	if d.Random == nil {
		return 0
	}
	return d.Random.Count
}
