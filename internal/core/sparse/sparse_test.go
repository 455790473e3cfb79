package sparse

import (
	"reflect"
	"testing"

	"disasterresponse/internal/platform/testkit"
)

func sample() *CSR {
	return FromDense([][]float64{
		{0, 1.5, 0, 2},
		{0, 0, 0, 0},
		{3, 0, 0, -1},
	}, 4)
}

func TestBuilder_SortsAndDropsZeros(t *testing.T) {
	t.Parallel()

	b := NewBuilder(5)
	b.AddRow([]int{4, 0, 2}, []float64{1, 2, 0})
	m := b.Build()
	idx, val := m.Row(0)
	if !reflect.DeepEqual(idx, []int{0, 4}) || !reflect.DeepEqual(val, []float64{2, 1}) {
		t.Fatalf("row = %v %v", idx, val)
	}
	if m.NNZ() != 2 || m.Rows != 1 {
		t.Fatalf("nnz=%d rows=%d", m.NNZ(), m.Rows)
	}
	testkit.MustPanic(t, func() { b.AddRow([]int{5}, []float64{1}) })
}

func TestCSR_AtAndDense(t *testing.T) {
	t.Parallel()

	m := sample()
	cases := []struct {
		i, j int
		want float64
	}{{0, 1, 1.5}, {0, 3, 2}, {0, 0, 0}, {1, 2, 0}, {2, 0, 3}, {2, 3, -1}}
	for _, c := range cases {
		if got := m.At(c.i, c.j); got != c.want {
			t.Fatalf("At(%d,%d) = %v want %v", c.i, c.j, got, c.want)
		}
	}
	want := [][]float64{{0, 1.5, 0, 2}, {0, 0, 0, 0}, {3, 0, 0, -1}}
	if got := m.Dense(); !reflect.DeepEqual(got, want) {
		t.Fatalf("dense = %v", got)
	}
}

func TestCSR_SelectRows(t *testing.T) {
	t.Parallel()

	got := sample().SelectRows([]int{2, 0, 2}).Dense()
	want := [][]float64{{3, 0, 0, -1}, {0, 1.5, 0, 2}, {3, 0, 0, -1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("select = %v", got)
	}
}

func TestCSC_MatchesCSR(t *testing.T) {
	t.Parallel()

	m := sample()
	c := m.CSC()
	if c != m.CSC() {
		t.Fatalf("CSC should be cached")
	}
	for j := 0; j < m.Cols; j++ {
		rows, vals := c.Col(j)
		for k, i := range rows {
			if m.At(i, j) != vals[k] {
				t.Fatalf("col %d row %d: %v vs %v", j, i, vals[k], m.At(i, j))
			}
			if k > 0 && rows[k-1] >= i {
				t.Fatalf("col %d rows not ascending: %v", j, rows)
			}
		}
	}
	if rows, _ := c.Col(2); len(rows) != 0 {
		t.Fatalf("empty column has rows %v", rows)
	}
	if rows, _ := c.Col(3); !reflect.DeepEqual(rows, []int{0, 2}) {
		t.Fatalf("col 3 rows = %v", rows)
	}
}
