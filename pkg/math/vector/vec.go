package vector

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number is any coordinate type a vector can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

type V[T Number] []T

func New[T Number](vec []T) V[T] {
	return vec
}

func (v V[T]) Dimensions() int {
	return len(v)
}

func (v V[T]) Point(idx int) T {
	return v[idx]
}

func (v V[T]) Points() []T {
	return v
}

func (v V[T]) Copy() V[T] {
	var v1 = make(V[T], len(v))
	copy(v1, v)
	return v1
}

func (v V[T]) SizeEqual(vec V[T]) bool {
	return len(v) == len(vec)
}

func (v V[T]) Equal(vec V[T]) bool {
	if len(v) != len(vec) {
		return false
	}
	for i, value := range v {
		if vec[i] != value {
			return false
		}
	}
	return true
}

// Within reports whether low[i] <= v[i] <= high[i] for every i in [0, dims).
// All three vectors must have at least dims coordinates.
func (v V[T]) Within(low, high V[T], dims int) bool {
	for i := 0; i < dims; i++ {
		if v[i] < low[i] || v[i] > high[i] {
			return false
		}
	}
	return true
}

func (v V[T]) Max() T {
	var max T
	for i := range v {
		if i == 0 || v[i] > max {
			max = v[i]
		}
	}
	return max
}

func (v V[T]) Min() T {
	var min T
	for i := range v {
		if i == 0 || v[i] < min {
			min = v[i]
		}
	}
	return min
}

// String formats the vector as (x,y,...).
func (v V[T]) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(format(v[i]))
	}
	b.WriteByte(')')
	return b.String()
}

func format[T Number](x T) string {
	switch n := any(x).(type) {
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	if x < 0 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatUint(uint64(x), 10)
}

// Convert copies every coordinate of v into a vector of another numeric type.
func Convert[T, U Number](v V[T]) V[U] {
	out := make(V[U], len(v))
	for i := range v {
		out[i] = U(v[i])
	}
	return out
}
