// Package mat implements small dense matrices whose entries are symbolic
// expressions. Dimension mismatches are programmer errors and panic.
package mat

import (
	"strings"

	"github.com/phil-mansfield/dhreach/sym"
)

// Matrix is a row-major matrix of expressions.
type Matrix struct {
	Vals          []sym.Expr
	Width, Height int
}

// NewMatrix wraps vals in a Matrix. vals is not copied.
func NewMatrix(vals []sym.Expr, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	for i := range vals {
		if vals[i] == nil {
			panic("vals contains a nil expression.")
		}
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	vals := make([]sym.Expr, n*n)
	for i := range vals {
		vals[i] = sym.Zero
	}
	for i := 0; i < n; i++ {
		vals[i*n+i] = sym.One
	}
	return NewMatrix(vals, n, n)
}

// At returns the entry at the given row and column.
func (m *Matrix) At(row, col int) sym.Expr {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		panic("index out of range.")
	}
	return m.Vals[row*m.Width+col]
}

// Mult returns the product m * m2.
func (m *Matrix) Mult(m2 *Matrix) *Matrix {
	out := &Matrix{
		Vals:  make([]sym.Expr, m.Height*m2.Width),
		Width: m2.Width, Height: m.Height,
	}
	m.MultAt(m2, out)
	return out
}

// MultAt writes m * m2 into out, which must already have the right shape
// and must not share memory with m or m2.
func (m *Matrix) MultAt(m2, out *Matrix) {
	if m.Width != m2.Height {
		panic("m.Width != m2.Height.")
	} else if out.Height != m.Height || out.Width != m2.Width {
		panic("out has the wrong dimensions.")
	}

	n := m.Width
	terms := make([]sym.Expr, n)
	for i := 0; i < m.Height; i++ {
		iOffset := i * n
		for j := 0; j < m2.Width; j++ {
			for k := 0; k < n; k++ {
				terms[k] = sym.Times(m.Vals[iOffset+k], m2.Vals[k*m2.Width+j])
			}
			out.Vals[i*out.Width+j] = sym.Plus(terms...)
		}
	}
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []sym.Expr {
	if j < 0 || j >= m.Width {
		panic("column out of range.")
	}
	col := make([]sym.Expr, m.Height)
	for i := range col {
		col[i] = m.Vals[i*m.Width+j]
	}
	return col
}

// String prints one bracketed row per line.
func (m *Matrix) String() string {
	rows := make([]string, m.Height)
	cells := make([]string, m.Width)
	for i := 0; i < m.Height; i++ {
		for j := 0; j < m.Width; j++ {
			cells[j] = m.Vals[i*m.Width+j].String()
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return strings.Join(rows, "\n")
}
