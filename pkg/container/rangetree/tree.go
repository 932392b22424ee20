/*
 * Copyright 2020 Dennis Kuhnert
 * Copyright 2020 Ivanov Nikita
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package rangetree implements a static multi-dimensional range tree.
//
// A tree is sorted on one axis. Every node keeps the points of its subtree
// and, unless it sits on the last axis, a nested tree over those points
// sorted on the next axis. A built tree is never modified, so it can be
// queried from several goroutines at once.
package rangetree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-sod/rangetree/pkg/math/vector"
)

// ErrInvalidInput is returned when a point or a query bound has fewer
// coordinates than the tree has dimensions, or the tree shape is invalid.
var ErrInvalidInput = errors.New("invalid input")

// QueryMode selects how RangeSearch walks a tree.
type QueryMode string

const (
	// QueryModeScan walks the top level only, testing full containment
	// at every node whose axis coordinate is in bounds.
	QueryModeScan QueryMode = "SCAN"
	// QueryModeCanonical descends through the nested indices.
	QueryModeCanonical QueryMode = "CANONICAL"
)

// Valid reports whether m is one of the known query modes.
func (m QueryMode) Valid() bool {
	return m == QueryModeScan || m == QueryModeCanonical
}

// Option configures Build.
type Option func(*options)

type options struct {
	axis int
	mode QueryMode
}

// WithAxis makes the top level sort on axis instead of 0. Nested levels
// continue with the following axes.
func WithAxis(axis int) Option {
	return func(o *options) {
		o.axis = axis
	}
}

// WithQueryMode sets the mode RangeSearch uses, QueryModeScan by default.
func WithQueryMode(mode QueryMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

type Tree[T vector.Number] struct {
	root *node[T]
	len  int
	dims int
	axis int
	mode QueryMode
}

// Build creates a dims-dimensional tree over points. Every point needs at
// least dims coordinates; trailing ones are kept but never compared.
// The input slice and its points are left untouched.
func Build[T vector.Number](dims int, points []vector.V[T], opts ...Option) (*Tree[T], error) {
	o := options{mode: QueryModeScan}
	for _, opt := range opts {
		opt(&o)
	}
	if dims < 1 {
		return nil, fmt.Errorf("tree needs at least one dimension, got %d: %w", dims, ErrInvalidInput)
	}
	if o.axis < 0 || o.axis >= dims {
		return nil, fmt.Errorf("axis %d is out of range for %d dimensions: %w", o.axis, dims, ErrInvalidInput)
	}
	if !o.mode.Valid() {
		return nil, fmt.Errorf("unknown query mode %q: %w", o.mode, ErrInvalidInput)
	}

	owned := make([]vector.V[T], len(points))
	for i, p := range points {
		if len(p) < dims {
			return nil, fmt.Errorf("point %d has %d coordinates, tree has %d dimensions: %w", i, len(p), dims, ErrInvalidInput)
		}
		owned[i] = p.Copy()
	}

	return build(owned, dims, o.axis, o.mode), nil
}

func build[T vector.Number](points []vector.V[T], dims, axis int, mode QueryMode) *Tree[T] {
	t := &Tree[T]{
		len:  len(points),
		dims: dims,
		axis: axis,
		mode: mode,
	}
	if len(points) == 0 {
		return t
	}

	sorted := make([]vector.V[T], len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][axis] < sorted[j][axis]
	})
	t.root = t.buildRecursive(sorted, 0, len(sorted))
	return t
}

func (t *Tree[T]) buildRecursive(points []vector.V[T], begin, end int) *node[T] {
	if begin >= end {
		return nil
	}

	mid := begin + (end-begin)/2
	n := &node[T]{
		Key:    points[mid],
		Subset: make([]vector.V[T], end-begin),
	}
	copy(n.Subset, points[begin:end])
	n.Left = t.buildRecursive(points, begin, mid)
	n.Right = t.buildRecursive(points, mid+1, end)

	if t.axis+1 < t.dims {
		n.Next = build(n.Subset, t.dims, t.axis+1, t.mode)
	}
	return n
}

// RangeSearch returns every point p with low[i] <= p[i] <= high[i] on all
// dims axes. Bounds with low[i] > high[i] match nothing.
func (t *Tree[T]) RangeSearch(low, high vector.V[T]) ([]vector.V[T], error) {
	if len(low) < t.dims || len(high) < t.dims {
		return nil, fmt.Errorf("range has %d/%d coordinates, tree has %d dimensions: %w", len(low), len(high), t.dims, ErrInvalidInput)
	}

	var points []vector.V[T]
	switch t.mode {
	case QueryModeCanonical:
		points = t.root.CanonicalSearch(low, high, t.axis, t.dims, nil)
	default:
		points = t.root.RangeSearch(low, high, t.axis, t.dims, nil)
	}

	result := make([]vector.V[T], len(points))
	for i := range points {
		result[i] = points[i].Copy()
	}
	return result, nil
}

// Search reports whether a point equal to p on all dims axes is stored.
func (t *Tree[T]) Search(p vector.V[T]) (bool, error) {
	if len(p) < t.dims {
		return false, fmt.Errorf("point has %d coordinates, tree has %d dimensions: %w", len(p), t.dims, ErrInvalidInput)
	}

	points, err := t.RangeSearch(p, p)
	if err != nil {
		return false, err
	}
	return len(points) > 0, nil
}

func (t *Tree[T]) Len() int {
	return t.len
}

func (t *Tree[T]) Dims() int {
	return t.dims
}

func (t *Tree[T]) Axis() int {
	return t.axis
}

func (t *Tree[T]) Mode() QueryMode {
	return t.mode
}

// Height is the number of levels of the top tree, 0 when empty.
func (t *Tree[T]) Height() int {
	return t.root.height()
}

// Points returns a copy of every stored point, sorted on the tree's axis.
func (t *Tree[T]) Points() []vector.V[T] {
	if t.root == nil {
		return []vector.V[T]{}
	}
	points := make([]vector.V[T], len(t.root.Subset))
	for i, p := range t.root.Subset {
		points[i] = p.Copy()
	}
	return points
}
