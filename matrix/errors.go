package matrix

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when operands or inserted vectors do not
	// fit the current dimensions.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrIndexOutOfBounds is returned when a row or column index is outside
	// the current dimensions.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")
)

func outOfBounds(op string, x, y int, m *Matrix) error {
	return errors.Wrapf(ErrIndexOutOfBounds, "%s(%d, %d) on %dx%d", op, x, y, m.width, m.height)
}
