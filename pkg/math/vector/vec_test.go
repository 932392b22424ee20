package vector

import "testing"

func TestV_Dimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		v        V[float64]
		expected int
	}{
		{name: "positive", v: New([]float64{1, 2, 3, 4, 5}), expected: 5},
		{name: "empty", v: New([]float64{}), expected: 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.v.Dimensions(); got != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestV_Equal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		v        V[int]
		v1       V[int]
		expected bool
	}{
		{name: "positive", v: V[int]{10, 10}, v1: V[int]{10, 10}, expected: true},
		{name: "negative", v: V[int]{10, 10}, v1: V[int]{11, 10}, expected: false},
		{name: "size", v: V[int]{10, 10}, v1: V[int]{10}, expected: false},
	}
	for _, test := range tests {
		if test.v.Equal(test.v1) != test.expected {
			t.Errorf("%s: the comparison of vectors, got: %v, expected: %v", test.name, test.v.Equal(test.v1), test.expected)
		}
	}
}

func TestV_Within(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		v         V[int]
		low, high V[int]
		dims      int
		expected  bool
	}{
		{name: "inside", v: V[int]{6, 12}, low: V[int]{5, 5}, high: V[int]{15, 15}, dims: 2, expected: true},
		{name: "boundary", v: V[int]{3, 6}, low: V[int]{3, 6}, high: V[int]{3, 6}, dims: 2, expected: true},
		{name: "outside", v: V[int]{3, 6}, low: V[int]{5, 5}, high: V[int]{15, 15}, dims: 2, expected: false},
		{name: "inverted", v: V[int]{10, 10}, low: V[int]{15, 5}, high: V[int]{5, 15}, dims: 2, expected: false},
		{name: "extra_ignored", v: V[int]{6, 12, 100}, low: V[int]{5, 5, 0}, high: V[int]{15, 15, 0}, dims: 2, expected: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.v.Within(test.low, test.high, test.dims); got != test.expected {
				t.Errorf("containment check, got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestV_Copy(t *testing.T) {
	v := V[float32]{1.5, 2.5}
	c := v.Copy()
	c[0] = 100
	if v[0] != 1.5 {
		t.Errorf("copy shares storage with the source, got: %v, expected: %v", v[0], 1.5)
	}
}

func TestV_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "int", got: V[int]{3, 6}.String(), expected: "(3,6)"},
		{name: "negative", got: V[int64]{-3, 6, 0}.String(), expected: "(-3,6,0)"},
		{name: "uint", got: V[uint8]{255, 1}.String(), expected: "(255,1)"},
		{name: "float", got: V[float64]{1.5, 2}.String(), expected: "(1.5,2)"},
		{name: "float32", got: V[float32]{3.5, 6.7}.String(), expected: "(3.5,6.7)"},
		{name: "empty", got: V[int]{}.String(), expected: "()"},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("%s: formatting, got: %q, expected: %q", test.name, test.got, test.expected)
		}
	}
}

func TestV_MinMax(t *testing.T) {
	v := V[int]{-4, 7, 2}
	if v.Min() != -4 || v.Max() != 7 {
		t.Errorf("min/max, got: %v/%v, expected: %v/%v", v.Min(), v.Max(), -4, 7)
	}
}

func TestConvert(t *testing.T) {
	got := Convert[int64, float64](V[int64]{3, -6})
	if !got.Equal(V[float64]{3, -6}) {
		t.Errorf("conversion, got: %v, expected: %v", got, V[float64]{3, -6})
	}
}
