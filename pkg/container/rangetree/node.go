package rangetree

import "github.com/go-sod/rangetree/pkg/math/vector"

type node[T vector.Number] struct {
	Key   vector.V[T]
	Left  *node[T]
	Right *node[T]
	// Every point of this subtree, sorted on the owning tree's axis.
	Subset []vector.V[T]
	// Index over Subset on the next axis; nil on the last axis.
	Next *Tree[T]
}

func (n *node[T]) height() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.height(), n.Right.height()
	if l > r {
		return l + 1
	}
	return r + 1
}

// RangeSearch walks this level only. Pruning happens on axis, every
// node whose axis coordinate is in bounds gets a full containment check.
func (n *node[T]) RangeSearch(low, high vector.V[T], axis, dims int, points []vector.V[T]) []vector.V[T] {
	if n == nil {
		return points
	}
	if n.Key[axis] < low[axis] {
		return n.Right.RangeSearch(low, high, axis, dims, points)
	}
	if n.Key[axis] > high[axis] {
		return n.Left.RangeSearch(low, high, axis, dims, points)
	}
	if n.Key.Within(low, high, dims) {
		points = append(points, n.Key)
	}
	points = n.Left.RangeSearch(low, high, axis, dims, points)
	return n.Right.RangeSearch(low, high, axis, dims, points)
}

// CanonicalSearch hands every subtree lying entirely inside the bounds on
// axis over to its nested index, so each further axis is pruned in turn.
func (n *node[T]) CanonicalSearch(low, high vector.V[T], axis, dims int, points []vector.V[T]) []vector.V[T] {
	if n == nil {
		return points
	}
	first, last := n.Subset[0][axis], n.Subset[len(n.Subset)-1][axis]
	if last < low[axis] || first > high[axis] {
		return points
	}
	if low[axis] <= first && last <= high[axis] {
		if n.Next != nil {
			return n.Next.root.CanonicalSearch(low, high, n.Next.axis, dims, points)
		}
		for _, p := range n.Subset {
			if p.Within(low, high, dims) {
				points = append(points, p)
			}
		}
		return points
	}
	if n.Key.Within(low, high, dims) {
		points = append(points, n.Key)
	}
	points = n.Left.CanonicalSearch(low, high, axis, dims, points)
	return n.Right.CanonicalSearch(low, high, axis, dims, points)
}
