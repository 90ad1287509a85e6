package dynamo

import (
	"fmt"
	"math"
)

// Matrix is a dense row-major float64 matrix. Entry (i, j) of an adjacency
// matrix is the coupling weight of node j onto node i.
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

// NewMatrix returns a zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Ones returns a matrix with every entry set to 1.
func Ones(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = 1
	}
	return m
}

// FromRows copies a slice of rows into a matrix. Rows must share a length.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), cols)
		}
		copy(m.Data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

func (m *Matrix) At(i, j int) float64     { return m.Data[i*m.Cols+j] }
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

// Row returns row i backed by the matrix storage. Callers must not modify it.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m *Matrix) IsSquare() bool { return m.Rows == m.Cols }

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(c.Data, m.Data)
	return c
}

// Scale returns a new matrix with every entry multiplied by k.
func (m *Matrix) Scale(k float64) *Matrix {
	c := m.Clone()
	for i := range c.Data {
		c.Data[i] *= k
	}
	return c
}

func (m *Matrix) CountNonZero() int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

func (m *Matrix) HasNegative() bool {
	for _, v := range m.Data {
		if v < 0 {
			return true
		}
	}
	return false
}

func (m *Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
		copy(out[i], m.Row(i))
	}
	return out
}

// Rank computes the numerical rank by Gaussian elimination with partial
// pivoting. Pivots with magnitude <= tol count as zero.
func (m *Matrix) Rank(tol float64) int {
	a := m.ToRows()
	rank := 0
	for col := 0; col < m.Cols && rank < m.Rows; col++ {
		pivot := rank
		for r := rank + 1; r < m.Rows; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) <= tol {
			continue
		}
		a[rank], a[pivot] = a[pivot], a[rank]
		for r := rank + 1; r < m.Rows; r++ {
			f := a[r][col] / a[rank][col]
			if f == 0 {
				continue
			}
			for c := col; c < m.Cols; c++ {
				a[r][c] -= f * a[rank][c]
			}
		}
		rank++
	}
	return rank
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%dx%d)", m.Rows, m.Cols)
}
