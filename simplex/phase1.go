package simplex

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Phase1 finds a basic feasible solution of the constraint rows, ignoring
// any basis the tableau had before. It returns the residual artificial
// mass, which is zero within tolerance on success; a larger residual means
// the equality system has no non-negative solution and yields ErrInfeasible.
//
// On success the tableau keeps its layout, minus any redundant constraint
// rows, with a complete basis map. On failure the tableau is left
// untouched.
func (t *Tableau) Phase1() (float64, error) {
	m := t.m.Clone()
	w, rows := m.Width(), m.Height()-1
	rhs := w - 1

	mass := 0.0
	for y := 1; y <= rows; y++ {
		if m.Row(y)[rhs] < 0 {
			if err := m.Scale(y, -1); err != nil {
				return 0, err
			}
		}
		mass += m.Row(y)[rhs]
	}

	// one artificial column per constraint row, ahead of the right-hand side
	for k := range rows {
		col := make([]float64, rows+1)
		col[k+1] = 1
		if err := m.InsertColumn(rhs+k, col); err != nil {
			return 0, errors.Wrap(err, "artificial column")
		}
	}

	// auxiliary objective: maximise minus the sum of artificials
	obj := make([]float64, w-1+rows)
	for k := range rows {
		obj[w-1+k] = -1
	}
	if err := augment(m, obj); err != nil {
		return 0, err
	}

	// Layout now: row 0 auxiliary objective, row 1 real objective, rows
	// 2.. constraints; column 0 auxiliary bookkeeping, column 1 real
	// bookkeeping, structural columns 2..w-1, artificial columns
	// w..w+rows-1, right-hand side last.
	aux := m.Row(0)
	for y := 2; y < m.Height(); y++ {
		floats.Add(aux, m.Row(y))
	}

	work := &Tableau{m: m, basis: make([]int, m.Height()), vars: t.vars, maxPivots: t.maxPivots}
	work.basis[0], work.basis[1] = 0, 1
	for k := range rows {
		work.basis[k+2] = w + k
	}

	if err := work.pivotLoop(2); err != nil {
		return 0, errors.Wrap(err, "phase 1")
	}

	residual := work.Value()
	if residual > tol(mass) {
		return residual, errors.Wrapf(ErrInfeasible, "phase 1 residual %g", residual)
	}

	redundant := work.driveOut(w)
	if err := work.strip(w, rows, redundant); err != nil {
		return residual, err
	}

	t.m, t.basis = work.m, work.basis
	return residual, nil
}

// driveOut pivots artificial variables that are still basic (at level zero)
// out of the basis. Columns >= firstArtificial are artificial. Rows with no
// usable structural entry are redundant; their indices are returned.
func (t *Tableau) driveOut(firstArtificial int) []int {
	var redundant []int
	for y := 2; y < t.m.Height(); y++ {
		if t.basis[y] < firstArtificial {
			continue
		}
		row := t.m.Row(y)
		col, best := -1, Epsilon
		for x := 2; x < firstArtificial; x++ {
			if a := math.Abs(row[x]); a > best {
				col, best = x, a
			}
		}
		if col < 0 {
			redundant = append(redundant, y)
			continue
		}
		t.pivot(y, col)
	}
	return redundant
}

// strip removes redundant rows, the artificial columns, the auxiliary
// objective row and the auxiliary bookkeeping column, and remaps the basis.
func (t *Tableau) strip(firstArtificial, artificials int, redundant []int) error {
	sort.Sort(sort.Reverse(sort.IntSlice(redundant)))
	for _, y := range redundant {
		if err := t.m.RemoveRow(y); err != nil {
			return errors.Wrap(err, "redundant row")
		}
		t.basis = append(t.basis[:y], t.basis[y+1:]...)
	}

	for range artificials {
		if err := t.m.RemoveColumn(firstArtificial); err != nil {
			return errors.Wrap(err, "artificial column")
		}
	}
	if err := t.m.RemoveRow(0); err != nil {
		return errors.Wrap(err, "auxiliary row")
	}
	if err := t.m.RemoveColumn(0); err != nil {
		return errors.Wrap(err, "auxiliary column")
	}

	basis := t.basis[1:]
	for y, col := range basis {
		if col >= firstArtificial {
			return errors.Wrapf(ErrBasisDrift, "artificial column %d still basic in row %d", col, y)
		}
		basis[y] = col - 1
	}
	t.basis = basis
	return nil
}
