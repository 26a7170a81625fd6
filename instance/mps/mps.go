// Package mps reads cover problems from free MPS files through GLPK. GLPK
// is linked only with the glpk build tag; without it ReadProblem fails
// with ErrNoGLPK.
package mps

import "github.com/pkg/errors"

var (
	ErrUnsupported = errors.New("mps: not a 0/1 equality cover problem")
	ErrNoGLPK      = errors.New("mps: built without the glpk tag")
)

// Reader reads a mps file to construct a problem
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}
