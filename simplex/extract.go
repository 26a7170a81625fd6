package simplex

import (
	"github.com/pkg/errors"
	"q.log/mincover/matrix"
)

// Variable is the state of one tableau column at the current basis.
type Variable struct {
	Value   float64
	IsBasic bool
	IsSlack bool
}

// Variables returns one entry per variable column (bookkeeping and
// right-hand side excluded), original variables first.
func (t *Tableau) Variables() ([]Variable, error) {
	w := t.m.Width()
	vars := make([]Variable, w-2)
	for i := range vars {
		vars[i].IsSlack = i >= t.vars
	}

	for y := 1; y < len(t.basis); y++ {
		col := t.basis[y]
		if col < 0 {
			return nil, errors.Wrapf(ErrNoBasis, "row %d", y)
		}
		if !identityColumn(t.m, col, y) {
			return nil, errors.Wrapf(ErrBasisDrift, "column %d in row %d", col, y)
		}
		v := t.rhs(y)
		if ApproxZero(v) {
			v = 0
		}
		vars[col-1].Value = v
		vars[col-1].IsBasic = true
	}
	return vars, nil
}

// Values returns the values of the original variables.
func (t *Tableau) Values() ([]float64, error) {
	vars, err := t.Variables()
	if err != nil {
		return nil, err
	}
	values := make([]float64, t.vars)
	for i := range values {
		values[i] = vars[i].Value
	}
	return values, nil
}

// Aligned returns a copy of the tableau matrix whose rows are permuted so
// that, wherever the height allows, the row of basic original variable j
// (tableau column j) is row j. Row 0 stays the objective row.
func (t *Tableau) Aligned() (*matrix.Matrix, error) {
	m := t.m.Clone()
	basis := t.Basis()
	rowOf := make(map[int]int, len(basis))
	for y, col := range basis {
		rowOf[col] = y
	}

	for j := 1; j <= t.vars && j < m.Height(); j++ {
		y, ok := rowOf[j]
		if !ok || y == j {
			continue
		}
		if err := m.SwapRows(y, j); err != nil {
			return nil, err
		}
		displaced := basis[j]
		basis[y], basis[j] = displaced, j
		rowOf[j] = j
		if displaced >= 0 {
			rowOf[displaced] = y
		}
	}
	return m, nil
}

// identityColumn reports whether column x of m is a unit vector with its
// one in row y.
func identityColumn(m *matrix.Matrix, x, y int) bool {
	for r := range m.Height() {
		v := m.Row(r)[x]
		if r == y {
			if !ApproxEq(v, 1) {
				return false
			}
		} else if !ApproxZero(v) {
			return false
		}
	}
	return true
}
