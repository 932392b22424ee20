package model

import (
	"testing"
	"time"

	"github.com/go-sod/rangetree/pkg/math/vector"
)

func TestDataset_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		dataset Dataset
		wantErr bool
	}{
		{name: "positive", dataset: NewDataset("grid", 2, []vector.V[float64]{{1, 2}, {3, 4, 5}}, time.Now())},
		{name: "empty_points", dataset: NewDataset("empty", 3, nil, time.Now())},
		{name: "no_name", dataset: NewDataset("", 2, nil, time.Now()), wantErr: true},
		{name: "no_dims", dataset: NewDataset("flat", 0, nil, time.Now()), wantErr: true},
		{name: "short_point", dataset: NewDataset("short", 2, []vector.V[float64]{{1}}, time.Now()), wantErr: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := test.dataset.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("validate, got: %v, expected error: %v", err, test.wantErr)
			}
		})
	}
}

func TestNewDataset_ID(t *testing.T) {
	a := NewDataset("grid", 2, nil, time.Now())
	b := NewDataset("grid", 2, nil, time.Now())
	if a.ID == b.ID {
		t.Errorf("two revisions share the id %s", a.ID)
	}
}
