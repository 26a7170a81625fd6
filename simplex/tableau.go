package simplex

import (
	"github.com/pkg/errors"
	"q.log/mincover/matrix"
)

// Tableau is a simplex tableau in canonical layout:
//
//	row 0       objective row (coefficients of the form to maximise)
//	rows 1..    equality constraints
//	column 0    bookkeeping column (1 in row 0, never pivoted on)
//	columns 1.. variables; the first NumVars are the original ones, the
//	            rest are slack columns added by bounds
//	last column right-hand side
//
// The basis map records which column is basic in each row. A Tableau is
// mutated in place by Phase1, Optimize and Solve; after one of them fails
// the tableau must be discarded.
type Tableau struct {
	m *matrix.Matrix

	// basis[y] is the column basic in row y, -1 when unknown
	basis []int

	vars int

	// maxPivots overrides the pivot budget when positive
	maxPivots int
}

// BuildTableau turns a constraint matrix [A | b] and the objective
// coefficients into a tableau. The constraint matrix is not modified.
func BuildTableau(constraints *matrix.Matrix, objective []float64) (*Tableau, error) {
	if len(objective) != constraints.Width()-1 {
		return nil, errors.Wrapf(matrix.ErrShapeMismatch,
			"BuildTableau: %d objective coefficients for %d columns", len(objective), constraints.Width()-1)
	}
	m := constraints.Clone()
	if err := augment(m, objective); err != nil {
		return nil, err
	}

	basis := make([]int, m.Height())
	for y := range basis {
		basis[y] = -1
	}
	basis[0] = 0

	return &Tableau{m: m, basis: basis, vars: len(objective)}, nil
}

// augment prepends the objective row (objective followed by a zero
// right-hand side) and the bookkeeping column.
func augment(m *matrix.Matrix, objective []float64) error {
	row := make([]float64, len(objective)+1)
	copy(row, objective)
	if err := m.InsertRow(0, row); err != nil {
		return errors.Wrap(err, "objective row")
	}

	col := make([]float64, m.Height())
	col[0] = 1
	return errors.Wrap(m.InsertColumn(0, col), "bookkeeping column")
}

// Matrix returns the live tableau matrix.
func (t *Tableau) Matrix() *matrix.Matrix { return t.m }

// Width returns the number of tableau columns, bookkeeping and right-hand
// side included.
func (t *Tableau) Width() int { return t.m.Width() }

// Height returns the number of tableau rows, objective row included.
func (t *Tableau) Height() int { return t.m.Height() }

// NumVars returns the number of original variables.
func (t *Tableau) NumVars() int { return t.vars }

// Basis returns a copy of the basis map.
func (t *Tableau) Basis() []int {
	b := make([]int, len(t.basis))
	copy(b, t.basis)
	return b
}

// Value returns the right-hand side of the objective row: the negated
// optimum of the maximised form. With all coefficients -1 it is the
// minimal sum of the variables.
func (t *Tableau) Value() float64 {
	return t.rhs(0)
}

func (t *Tableau) rhs(y int) float64 {
	row := t.m.Row(y)
	return row[len(row)-1]
}

// Clone returns an independent copy of t.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{m: t.m.Clone(), basis: t.Basis(), vars: t.vars, maxPivots: t.maxPivots}
}

func (t *Tableau) String() string { return t.m.String() }

// Direction selects the side of a bound.
type Direction int

const (
	// Upper bounds a variable from above: x + s = v.
	Upper Direction = iota
	// Lower bounds a variable from below: x - s = v.
	Lower
)

func (d Direction) String() string {
	if d == Upper {
		return "<="
	}
	return ">="
}

// Bound returns a copy of t with one more slack column and one more
// constraint row tying original variable col (1-based tableau column) to
// value from the given direction. The new row has no basic variable, so the
// copy needs a Solve before it can be read.
func (t *Tableau) Bound(col int, dir Direction, value float64) (*Tableau, error) {
	if col < 1 || col > t.vars {
		return nil, errors.Wrapf(matrix.ErrIndexOutOfBounds, "Bound: column %d is not an original variable", col)
	}
	c := t.Clone()
	w, h := c.m.Width(), c.m.Height()

	if err := c.m.InsertColumn(w-1, make([]float64, h)); err != nil {
		return nil, errors.Wrap(err, "slack column")
	}

	row := make([]float64, w+1)
	row[col] = 1
	row[w-1] = 1
	if dir == Lower {
		row[w-1] = -1
	}
	row[w] = value
	if err := c.m.AppendRow(row); err != nil {
		return nil, errors.Wrap(err, "bound row")
	}
	c.basis = append(c.basis, -1)
	return c, nil
}
