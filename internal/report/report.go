// Package report writes the plain text results of a demonstration run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-sod/rangetree/pkg/math/vector"
)

const DefaultFileName = "range_tree_results.txt"

type Writer[T vector.Number] struct {
	w   *bufio.Writer
	err error
}

func New[T vector.Number](w io.Writer) *Writer[T] {
	return &Writer[T]{w: bufio.NewWriter(w)}
}

func (r *Writer[T]) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Millis formats d in milliseconds with six significant digits.
func Millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'g', 6, 64)
}

func (r *Writer[T]) Begin(title string) {
	r.printf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

// DatasetHeader opens the section of every dataset after the first.
func (r *Writer[T]) DatasetHeader(dims int) {
	r.printf("%dD Range Tree Test:\n----------------\n", dims)
}

func (r *Writer[T]) Build(dims, n int, took time.Duration) {
	r.printf("Building %dD Range Tree with %d points...\n", dims, n)
	r.printf("Construction time: %s ms\n\n", Millis(took))
}

// RangesHeader opens the range query section of the first dataset.
func (r *Writer[T]) RangesHeader(dims int) {
	r.printf("%dD Range Queries:\n----------------\n", dims)
}

func (r *Writer[T]) Range(label string, dims int, low, high vector.V[T], points []vector.V[T], took time.Duration) {
	r.printf("%s: [%s, %s]\n", label, low[:dims], high[:dims])
	r.printf("Found %d points in %s ms:\n", len(points), Millis(took))
	for _, p := range points {
		r.printf("  %s\n", p[:dims])
	}
	r.printf("\n")
}

func (r *Writer[T]) SearchesHeader() {
	r.printf("Point Search Tests:\n-----------------\n")
}

func (r *Writer[T]) Search(dims int, p vector.V[T], found bool, took time.Duration) {
	result := "Not Found"
	if found {
		result = "Found"
	}
	r.printf("Searching for point %s: %s in %s ms\n", p[:dims], result, Millis(took))
}

func (r *Writer[T]) SearchesEnd() {
	r.printf("\n")
}

// End writes the closing line and flushes, returning the first write error.
func (r *Writer[T]) End() error {
	r.printf("Range Tree Test Complete\n")
	if r.err != nil {
		return r.err
	}
	return r.w.Flush()
}
