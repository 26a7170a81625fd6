package simplex

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInfeasible = errors.New("simplex: problem is infeasible")
	ErrUnbounded  = errors.New("simplex: problem is unbounded")
	ErrPivotLimit = errors.New("simplex: pivot limit reached")
	ErrNoBasis    = errors.New("simplex: row without basic variable")
	ErrBasisDrift = errors.New("simplex: basic column is not a unit vector")
)

// pivotsPerCell bounds the pivot loop relative to the tableau size. Bland's
// rule terminates on its own; the budget only guards against a numerically
// broken tableau.
const pivotsPerCell = 100

// Solve optimizes the tableau from scratch: phase 1 to reach a basic
// feasible solution, then phase 2 on the original objective.
func (t *Tableau) Solve() error {
	if _, err := t.Phase1(); err != nil {
		return err
	}
	return t.Optimize()
}

// Optimize runs the phase-2 pivot loop. Every constraint row must already
// have a basic variable, which Phase1 guarantees.
func (t *Tableau) Optimize() error {
	for y := 1; y < len(t.basis); y++ {
		if t.basis[y] < 0 {
			return errors.Wrapf(ErrNoBasis, "row %d", y)
		}
	}
	return t.pivotLoop(1)
}

// pivotLoop pivots until no column of row 0 has a positive coefficient.
// Rows [0, objRows) are objective rows and columns [0, objRows) their
// bookkeeping columns: objective rows are eliminated like any other row but
// never leave, bookkeeping columns never enter.
func (t *Tableau) pivotLoop(objRows int) error {
	limit := t.maxPivots
	if limit <= 0 {
		limit = pivotsPerCell * (t.m.Width() + t.m.Height())
	}
	for iter := 0; ; iter++ {
		col := t.entering(objRows)
		if col < 0 {
			return nil
		}
		if iter == limit {
			return errors.Wrapf(ErrPivotLimit, "%d pivots on a %dx%d tableau", iter, t.m.Width(), t.m.Height())
		}

		row := t.leaving(col, objRows)
		if row < 0 {
			return errors.Wrapf(ErrUnbounded, "column %d has no positive entry", col)
		}
		t.pivot(row, col)
	}
}

// entering returns the first column from first on whose objective
// coefficient improves the objective, or -1 at the optimum.
func (t *Tableau) entering(first int) int {
	obj := t.m.Row(0)
	for x := first; x < len(obj)-1; x++ {
		if obj[x] > Epsilon {
			return x
		}
	}
	return -1
}

// leaving runs the ratio test on column col over rows from first on. Ties go
// to the row whose basic column has the smallest index.
func (t *Tableau) leaving(col, first int) int {
	rhs := t.m.Width() - 1
	best, ratio := -1, math.Inf(1)
	for y := first; y < t.m.Height(); y++ {
		row := t.m.Row(y)
		if row[col] <= Epsilon {
			continue
		}
		r := row[rhs] / row[col]
		switch {
		case best < 0:
			best, ratio = y, r
		case ApproxEq(r, ratio):
			if t.basis[y] >= 0 && (t.basis[best] < 0 || t.basis[y] < t.basis[best]) {
				best = y
			}
			ratio = math.Min(r, ratio)
		case r < ratio:
			best, ratio = y, r
		}
	}
	return best
}

// pivot makes col basic in row: the pivot row is normalised and col is
// eliminated from every other row.
func (t *Tableau) pivot(row, col int) {
	rhs := t.m.Width() - 1
	pr := t.m.Row(row)
	floats.Scale(1/pr[col], pr)
	pr[col] = 1
	if ApproxZero(pr[rhs]) {
		pr[rhs] = 0
	}

	for y := range t.m.Height() {
		if y == row {
			continue
		}
		r := t.m.Row(y)
		f := r[col]
		if f == 0 {
			continue
		}
		floats.AddScaled(r, -f, pr)
		r[col] = 0
		if ApproxZero(r[rhs]) {
			r[rhs] = 0
		}
	}
	t.basis[row] = col
}
