package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/go-sod/rangetree/pkg/math/vector"
)

// NewDataset gives the point set a fresh ID. Every stored revision of a
// name gets a new one.
func NewDataset(name string, dims int, points []vector.V[float64], createdAt time.Time) Dataset {
	return Dataset{
		ID:        uuid.New(),
		Name:      name,
		Dims:      dims,
		Points:    points,
		CreatedAt: createdAt,
	}
}

type Dataset struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Dims      int                 `json:"dims"`
	Points    []vector.V[float64] `json:"-"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Validate checks the dataset can be indexed: a name, at least one
// dimension and no point shorter than Dims.
func (d Dataset) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name is empty")
	}
	if d.Dims < 1 {
		return fmt.Errorf("dataset %s has %d dimensions", d.Name, d.Dims)
	}
	for i, p := range d.Points {
		if len(p) < d.Dims {
			return fmt.Errorf("dataset %s point %d has %d coordinates, expected %d", d.Name, i, len(p), d.Dims)
		}
	}
	return nil
}

func (d Dataset) Len() int {
	return len(d.Points)
}
