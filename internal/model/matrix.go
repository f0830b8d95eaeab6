package model

import "fmt"

// Matrix is a dense row-major 2D array of Real. Recorded spike trains are
// n-by-1 (spike times in ms); analogue traces are n-by-2 (time, value).
type Matrix struct {
	rows int
	cols int
	data []Real
}

func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("model: negative matrix shape %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]Real, rows*cols)}
}

// MatrixFromRows builds a matrix from explicit rows. All rows must share one
// length; ragged input is rejected.
func MatrixFromRows(rows [][]Real) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("model: ragged matrix row %d: got %d columns, want %d", i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

func (m *Matrix) Rows() int { return m.rows }

func (m *Matrix) Cols() int { return m.cols }

// Len reports the flat element count.
func (m *Matrix) Len() int { return len(m.data) }

func (m *Matrix) At(row, col int) Real {
	m.check(row, col)
	return m.data[row*m.cols+col]
}

func (m *Matrix) Set(row, col int, v Real) {
	m.check(row, col)
	m.data[row*m.cols+col] = v
}

// Row returns the backing slice of one row. The slice aliases the matrix.
func (m *Matrix) Row(row int) []Real {
	if row < 0 || row >= m.rows {
		panic(fmt.Sprintf("model: matrix row %d out of range %dx%d", row, m.rows, m.cols))
	}
	return m.data[row*m.cols : (row+1)*m.cols]
}

// Values returns the flat row-major backing slice.
func (m *Matrix) Values() []Real { return m.data }

// ToRows copies the matrix into a fresh slice of rows.
func (m *Matrix) ToRows() [][]Real {
	rows := make([][]Real, m.rows)
	for i := 0; i < m.rows; i++ {
		rows[i] = append([]Real(nil), m.Row(i)...)
	}
	return rows
}

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]Real, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Equal reports structural equality of shape and elements.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

func (m *Matrix) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("model: matrix index (%d,%d) out of range %dx%d", row, col, m.rows, m.cols))
	}
}
