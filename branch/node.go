package branch

import (
	"fmt"
	"sort"

	"q.log/mincover/simplex"
)

// BoundKey identifies a split already made: variable Var (0-based column of
// the problem) at value Floor / Ceil.
type BoundKey struct {
	Var   int
	Floor int
	Ceil  int
}

func (k BoundKey) String() string {
	return fmt.Sprintf("x%d<=%d|x%d>=%d", k.Var, k.Floor, k.Var, k.Ceil)
}

type node struct {
	id    int
	depth int
	tab   *simplex.Tableau
}

// queue holds the nodes waiting to be solved.
type queue struct {
	order Order
	items []*node
}

func (q *queue) push(n *node) { q.items = append(q.items, n) }

func (q *queue) len() int { return len(q.items) }

func (q *queue) pop() *node {
	var n *node
	if q.order == LIFO {
		last := len(q.items) - 1
		n, q.items[last] = q.items[last], nil
		q.items = q.items[:last]
		return n
	}
	n, q.items[0] = q.items[0], nil
	q.items = q.items[1:]
	return n
}

// fractional returns the indices of values that are not integral, largest
// fractional part first; parts equal within tolerance keep index order.
func fractional(values []float64) []int {
	var idx []int
	for i, v := range values {
		if simplex.IsFractional(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		fa, fb := simplex.Fract(values[idx[a]]), simplex.Fract(values[idx[b]])
		return fa > fb && !simplex.ApproxEq(fa, fb)
	})
	return idx
}
