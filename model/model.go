package model

import (
	"github.com/pkg/errors"
	"q.log/mincover/matrix"
)

var (
	ErrComponents     = errors.New("mismatch number of components")
	ErrNotBinary      = errors.New("column entries must be 0 or 1")
	ErrNegativeTarget = errors.New("target components must be non-negative")
	ErrUnsatisfied    = errors.New("assignment does not reach the target")
)

// Problem asks for non-negative integer multiples of Columns, as few in
// total as possible, that sum component-wise to Target.
type Problem struct {
	//Columns candidate 0/1 vectors, each len(Target) long
	Columns [][]int

	//Target right hand side of the equality system
	Target []int
}

// NewProblem validates columns and target and returns the problem.
func NewProblem(columns [][]int, target []int) (*Problem, error) {
	p := &Problem{Columns: columns, Target: target}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Problem) Validate() error {
	for i, t := range p.Target {
		if t < 0 {
			return errors.Wrapf(ErrNegativeTarget, "component %d is %d", i, t)
		}
	}
	for c, col := range p.Columns {
		if len(col) != len(p.Target) {
			return errors.Wrapf(ErrComponents, "column %d has %d components, target has %d", c, len(col), len(p.Target))
		}
		for i, v := range col {
			if v != 0 && v != 1 {
				return errors.Wrapf(ErrNotBinary, "column %d component %d is %d", c, i, v)
			}
		}
	}
	return nil
}

// NumVars returns the number of candidate columns.
func (p *Problem) NumVars() int { return len(p.Columns) }

// NumRows returns the number of target components, i.e. equality
// constraints.
func (p *Problem) NumRows() int { return len(p.Target) }

// ConstraintMatrix returns the augmented matrix [A | b]: one row per target
// component, one column per candidate, and the target as the last column.
func (p *Problem) ConstraintMatrix() (*matrix.Matrix, error) {
	cols := make([][]float64, 0, len(p.Columns)+1)
	for _, col := range p.Columns {
		cols = append(cols, toFloats(col))
	}
	cols = append(cols, toFloats(p.Target))
	return matrix.FromColumns(cols)
}

// Objective returns the coefficients of the form to maximise: -1 per column,
// which minimises the total count.
func (p *Problem) Objective() []float64 {
	c := make([]float64, len(p.Columns))
	for i := range c {
		c[i] = -1
	}
	return c
}

// Verify checks that counts is a non-negative assignment reaching Target.
func (p *Problem) Verify(counts []int) error {
	if len(counts) != len(p.Columns) {
		return errors.Wrapf(ErrComponents, "got %d counts for %d columns", len(counts), len(p.Columns))
	}
	sum := make([]int, len(p.Target))
	for c, n := range counts {
		if n < 0 {
			return errors.Wrapf(ErrUnsatisfied, "column %d used %d times", c, n)
		}
		for i, v := range p.Columns[c] {
			sum[i] += n * v
		}
	}
	for i := range sum {
		if sum[i] != p.Target[i] {
			return errors.Wrapf(ErrUnsatisfied, "component %d is %d, want %d", i, sum[i], p.Target[i])
		}
	}
	return nil
}

// Total returns the sum of counts.
func Total(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func toFloats(v []int) []float64 {
	f := make([]float64, len(v))
	for i, x := range v {
		f[i] = float64(x)
	}
	return f
}
