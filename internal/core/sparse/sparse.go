// Package sparse holds the compressed row and column float matrices the
// vectorizer produces and the trees consume
package sparse

import (
	"slices"
	"sort"
	"sync"
)

// CSR is a compressed sparse row matrix; column indices within a row ascend
type CSR struct {
	Rows, Cols int
	Indptr     []int
	Indices    []int
	Data       []float64

	cscOnce sync.Once
	csc     *CSC
}

// CSC is the column compressed view of a CSR; row indices within a column ascend
type CSC struct {
	Rows, Cols int
	Indptr     []int
	Indices    []int
	Data       []float64
}

// Builder appends rows to a CSR
type Builder struct {
	cols int
	m    *CSR
}

// NewBuilder starts an empty matrix with cols columns
func NewBuilder(cols int) *Builder {
	return &Builder{cols: cols, m: &CSR{Cols: cols, Indptr: []int{0}}}
}

// AddRow appends a row given as parallel index and value slices; zero
// values are dropped and indices are sorted, out of range indices panic
func (b *Builder) AddRow(idx []int, val []float64) {
	type cell struct {
		j int
		v float64
	}
	cells := make([]cell, 0, len(idx))
	for k, j := range idx {
		if j < 0 || j >= b.cols {
			panic("sparse: column index out of range")
		}
		if val[k] != 0 {
			cells = append(cells, cell{j, val[k]})
		}
	}
	sort.Slice(cells, func(a, c int) bool { return cells[a].j < cells[c].j })
	for _, c := range cells {
		b.m.Indices = append(b.m.Indices, c.j)
		b.m.Data = append(b.m.Data, c.v)
	}
	b.m.Rows++
	b.m.Indptr = append(b.m.Indptr, len(b.m.Indices))
}

// Build returns the matrix; the builder must not be reused
func (b *Builder) Build() *CSR { return b.m }

// FromDense builds a CSR from a row major dense matrix
func FromDense(rows [][]float64, cols int) *CSR {
	b := NewBuilder(cols)
	for _, r := range rows {
		idx := make([]int, 0, len(r))
		val := make([]float64, 0, len(r))
		for j, v := range r {
			if v != 0 {
				idx = append(idx, j)
				val = append(val, v)
			}
		}
		b.AddRow(idx, val)
	}
	return b.Build()
}

// NNZ is the stored value count
func (m *CSR) NNZ() int { return len(m.Data) }

// Row returns the column indices and values of row i; callers must not modify them
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.Indptr[i], m.Indptr[i+1]
	return m.Indices[lo:hi], m.Data[lo:hi]
}

// At returns the value at (i, j)
func (m *CSR) At(i, j int) float64 {
	idx, val := m.Row(i)
	if k, ok := slices.BinarySearch(idx, j); ok {
		return val[k]
	}
	return 0
}

// SelectRows returns a new matrix made of the given rows in order
func (m *CSR) SelectRows(rows []int) *CSR {
	out := &CSR{Cols: m.Cols, Rows: len(rows), Indptr: make([]int, 1, len(rows)+1)}
	for _, i := range rows {
		idx, val := m.Row(i)
		out.Indices = append(out.Indices, idx...)
		out.Data = append(out.Data, val...)
		out.Indptr = append(out.Indptr, len(out.Indices))
	}
	return out
}

// Dense expands the matrix, intended for small matrices and tests
func (m *CSR) Dense() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
		idx, val := m.Row(i)
		for k, j := range idx {
			out[i][j] = val[k]
		}
	}
	return out
}

// CSC returns the column compressed view, built once and shared
func (m *CSR) CSC() *CSC {
	m.cscOnce.Do(func() { m.csc = m.toCSC() })
	return m.csc
}

func (m *CSR) toCSC() *CSC {
	c := &CSC{
		Rows: m.Rows, Cols: m.Cols,
		Indptr:  make([]int, m.Cols+1),
		Indices: make([]int, len(m.Indices)),
		Data:    make([]float64, len(m.Data)),
	}
	for _, j := range m.Indices {
		c.Indptr[j+1]++
	}
	for j := 0; j < m.Cols; j++ {
		c.Indptr[j+1] += c.Indptr[j]
	}
	next := slices.Clone(c.Indptr[:m.Cols])
	for i := 0; i < m.Rows; i++ {
		idx, val := m.Row(i)
		for k, j := range idx {
			p := next[j]
			c.Indices[p], c.Data[p] = i, val[k]
			next[j]++
		}
	}
	return c
}

// Col returns the row indices and values of column j; callers must not modify them
func (c *CSC) Col(j int) ([]int, []float64) {
	lo, hi := c.Indptr[j], c.Indptr[j+1]
	return c.Indices[lo:hi], c.Data[lo:hi]
}
