//go:build !glpk

package mps

import (
	"github.com/pkg/errors"
	"q.log/mincover/model"
)

func (r *Reader) ReadProblem() (*model.Problem, error) {
	return nil, errors.Wrap(ErrNoGLPK, r.filename)
}
