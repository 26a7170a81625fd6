//go:build glpk

package mps

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"q.log/mincover/model"
	"q.log/mincover/simplex"
)

// ReadProblem loads the file and converts it into a model.Problem. Only
// equality rows with a non-negative integral right hand side, 0/1
// coefficients and default column bounds (0, +inf) are accepted. The
// objective is ignored: every column costs one.
func (r *Reader) ReadProblem() (*model.Problem, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "read %s", r.filename)
	}

	rows, cols := lp.NumRows(), lp.NumCols()
	for c := 1; c <= cols; c++ {
		if lp.ColLB(c) != 0 || lp.ColUB(c) != math.MaxFloat64 {
			return nil, errors.Wrapf(ErrUnsupported, "column %d bounded to [%v, %v]", c, lp.ColLB(c), lp.ColUB(c))
		}
	}

	columns := make([][]int, cols)
	for c := range columns {
		columns[c] = make([]int, rows)
	}
	target := make([]int, rows)
	for r := 1; r <= rows; r++ {
		lb, ub := lp.RowLB(r), lp.RowUB(r)
		if lb != ub {
			return nil, errors.Wrapf(ErrUnsupported, "row %d is not an equality", r)
		}
		if lb < 0 || simplex.IsFractional(lb) {
			return nil, errors.Wrapf(ErrUnsupported, "row %d right hand side %v", r, lb)
		}
		target[r-1] = int(math.Round(lb))

		idxs, vals := lp.MatRow(r)
		for i, c := range idxs {
			if c == 0 {
				continue
			}
			switch vals[i] {
			case 0:
			case 1:
				columns[c-1][r-1] = 1
			default:
				return nil, errors.Wrapf(ErrUnsupported, "row %d column %d coefficient %v", r, c, vals[i])
			}
		}
	}
	return model.NewProblem(columns, target)
}
