// Package matrix provides a small resizable dense matrix used as the
// substrate of the simplex tableau.
//
// Entries are addressed as (x, y): x is the column, y is the row. Storage is
// a flat row-major buffer whose length is always width*height; every
// resizing operation builds the new buffer in full before swapping it in, so
// a failed call leaves the matrix untouched.
package matrix

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense width×height matrix of float64 values.
type Matrix struct {
	data   []float64
	width  int
	height int
}

// New returns a width×height matrix of zeros.
func New(width, height int) *Matrix {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("matrix: negative dimensions %dx%d", width, height))
	}
	return &Matrix{
		data:   make([]float64, width*height),
		width:  width,
		height: height,
	}
}

// FromRows builds a matrix from row-major input. All rows must have the same
// length.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	width := len(rows[0])
	data := make([]float64, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d values, want %d", y, len(row), width)
		}
		data = append(data, row...)
	}
	return &Matrix{data: data, width: width, height: len(rows)}, nil
}

// FromColumns builds a matrix from column-major input. All columns must have
// the same length.
func FromColumns(cols [][]float64) (*Matrix, error) {
	if len(cols) == 0 {
		return New(0, 0), nil
	}
	height := len(cols[0])
	for x, col := range cols {
		if len(col) != height {
			return nil, errors.Wrapf(ErrShapeMismatch, "column %d has %d values, want %d", x, len(col), height)
		}
	}
	m := New(len(cols), height)
	for x, col := range cols {
		for y, v := range col {
			m.data[y*m.width+x] = v
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.height }

// At returns the entry in column x, row y.
func (m *Matrix) At(x, y int) (float64, error) {
	if !m.inside(x, y) {
		return 0, outOfBounds("At", x, y, m)
	}
	return m.data[y*m.width+x], nil
}

// Set stores v in column x, row y.
func (m *Matrix) Set(x, y int, v float64) error {
	if !m.inside(x, y) {
		return outOfBounds("Set", x, y, m)
	}
	m.data[y*m.width+x] = v
	return nil
}

func (m *Matrix) inside(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Row returns row y as a slice aliasing the matrix storage. Writes through
// the slice modify the matrix. It panics if y is out of range; callers that
// need a checked access use At.
func (m *Matrix) Row(y int) []float64 {
	if y < 0 || y >= m.height {
		panic(outOfBounds("Row", 0, y, m))
	}
	return m.data[y*m.width : (y+1)*m.width : (y+1)*m.width]
}

// Column returns a copy of column x. It panics if x is out of range.
func (m *Matrix) Column(x int) []float64 {
	if x < 0 || x >= m.width {
		panic(outOfBounds("Column", x, 0, m))
	}
	col := make([]float64, m.height)
	for y := range m.height {
		col[y] = m.data[y*m.width+x]
	}
	return col
}

// InsertRow inserts values as a new row at index y, shifting the following
// rows down. y may equal Height to append. A 0×0 matrix takes its width from
// the first inserted row.
func (m *Matrix) InsertRow(y int, values []float64) error {
	width := m.width
	if m.width == 0 && m.height == 0 {
		width = len(values)
	}
	if len(values) != width {
		return errors.Wrapf(ErrShapeMismatch, "InsertRow: got %d values, want %d", len(values), width)
	}
	if y < 0 || y > m.height {
		return outOfBounds("InsertRow", 0, y, m)
	}

	data := make([]float64, 0, width*(m.height+1))
	data = append(data, m.data[:y*width]...)
	data = append(data, values...)
	data = append(data, m.data[y*width:]...)

	m.data, m.width, m.height = data, width, m.height+1
	return nil
}

// AppendRow adds values as the last row.
func (m *Matrix) AppendRow(values []float64) error {
	return m.InsertRow(m.height, values)
}

// InsertColumn inserts values as a new column at index x, shifting the
// following columns right. x may equal Width to append. A 0×0 matrix takes
// its height from the first inserted column.
func (m *Matrix) InsertColumn(x int, values []float64) error {
	height := m.height
	if m.width == 0 && m.height == 0 {
		height = len(values)
	}
	if len(values) != height {
		return errors.Wrapf(ErrShapeMismatch, "InsertColumn: got %d values, want %d", len(values), height)
	}
	if x < 0 || x > m.width {
		return outOfBounds("InsertColumn", x, 0, m)
	}

	width := m.width + 1
	data := make([]float64, 0, width*height)
	for y := range height {
		row := m.data[y*m.width : (y+1)*m.width]
		data = append(data, row[:x]...)
		data = append(data, values[y])
		data = append(data, row[x:]...)
	}

	m.data, m.width, m.height = data, width, height
	return nil
}

// RemoveRow deletes row y.
func (m *Matrix) RemoveRow(y int) error {
	if y < 0 || y >= m.height {
		return outOfBounds("RemoveRow", 0, y, m)
	}
	data := make([]float64, 0, m.width*(m.height-1))
	data = append(data, m.data[:y*m.width]...)
	data = append(data, m.data[(y+1)*m.width:]...)

	m.data, m.height = data, m.height-1
	return nil
}

// RemoveColumn deletes column x.
func (m *Matrix) RemoveColumn(x int) error {
	if x < 0 || x >= m.width {
		return outOfBounds("RemoveColumn", x, 0, m)
	}
	width := m.width - 1
	data := make([]float64, 0, width*m.height)
	for y := range m.height {
		row := m.data[y*m.width : (y+1)*m.width]
		data = append(data, row[:x]...)
		data = append(data, row[x+1:]...)
	}

	m.data, m.width = data, width
	return nil
}

// SwapRows exchanges rows a and b. Swapping a row with itself is a no-op.
func (m *Matrix) SwapRows(a, b int) error {
	if a < 0 || a >= m.height {
		return outOfBounds("SwapRows", 0, a, m)
	}
	if b < 0 || b >= m.height {
		return outOfBounds("SwapRows", 0, b, m)
	}
	if a == b {
		return nil
	}
	ra, rb := m.Row(a), m.Row(b)
	for x := range ra {
		ra[x], rb[x] = rb[x], ra[x]
	}
	return nil
}

// Scale multiplies every entry of row y by c.
func (m *Matrix) Scale(y int, c float64) error {
	if y < 0 || y >= m.height {
		return outOfBounds("Scale", 0, y, m)
	}
	floats.Scale(c, m.Row(y))
	return nil
}

// Mul returns the product m·other. Entry (x, y) of the result is
// Σ_i m(i, y)·other(x, i); m.Width must equal other.Height.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.width != other.height {
		return nil, errors.Wrapf(ErrShapeMismatch, "Mul: %dx%d by %dx%d", m.width, m.height, other.width, other.height)
	}
	out := New(other.width, m.height)
	if m.width == 0 || out.width == 0 || out.height == 0 {
		return out, nil
	}

	var prod mat.Dense
	prod.Mul(mat.NewDense(m.height, m.width, m.data), mat.NewDense(other.height, other.width, other.data))
	for y := range out.height {
		copy(out.Row(y), prod.RawRowView(y))
	}
	return out, nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{data: data, width: m.width, height: m.height}
}

// EqualApprox reports whether m and other have the same shape and all
// entries agree within tol.
func (m *Matrix) EqualApprox(other *Matrix, tol float64) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	return floats.EqualApprox(m.data, other.data, tol)
}

// Dense returns a gonum copy of m. It returns nil for an empty matrix, which
// gonum cannot represent.
func (m *Matrix) Dense() *mat.Dense {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return mat.NewDense(m.height, m.width, data)
}

func (m *Matrix) String() string {
	d := m.Dense()
	if d == nil {
		return fmt.Sprintf("[](%dx%d)", m.width, m.height)
	}
	return fmt.Sprintf("%v", mat.Formatted(d, mat.Squeeze()))
}
