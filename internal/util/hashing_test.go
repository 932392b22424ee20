package util

import (
	"math"
	"testing"
)

func TestHashVectors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		a, b     [][]float64
		expected bool
	}{
		{name: "same", a: [][]float64{{1, 2}, {3}}, b: [][]float64{{1, 2}, {3}}, expected: true},
		{name: "boundary", a: [][]float64{{1, 2}, {3}}, b: [][]float64{{1}, {2, 3}}, expected: false},
		{name: "digits", a: [][]float64{{1, 23}}, b: [][]float64{{12, 3}}, expected: false},
		{name: "value", a: [][]float64{{1.5}}, b: [][]float64{{1.25}}, expected: false},
		{name: "next_float", a: [][]float64{{0.1}}, b: [][]float64{{math.Nextafter(0.1, 1)}}, expected: false},
		{name: "large_next_float", a: [][]float64{{1e300}}, b: [][]float64{{math.Nextafter(1e300, math.Inf(1))}}, expected: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := HashVectors(test.a...) == HashVectors(test.b...)
			if got != test.expected {
				t.Errorf("hash equality, got: %v, expected: %v", got, test.expected)
			}
		})
	}
}
