package tree

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"disasterresponse/internal/core/sparse"
	perr "disasterresponse/internal/platform/errors"
)

const minGain = 1e-12

type entry struct {
	v float64
	i int
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

// builder grows one tree depth first; its scratch buffers are reused per node
type builder struct {
	ctx    context.Context
	p      Params
	X      *sparse.CSR
	y      []int // class index per row
	w      []float64
	nc     int
	rng    *rand.Rand
	kFeats int

	cnt     []int // per feature non-zero count in the current node
	start   []int
	perm    []int
	touched []int
	ents    []entry
	nodes   []Node
}

func (b *builder) grow(samples []int, depth int) (int, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeCanceled, "tree: fit")
	}
	counts, total := b.counts(samples)
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Value: normalize(counts, total)})

	if b.stop(counts, total, depth) {
		return id, nil
	}
	s, ok := b.best(samples, counts, total)
	if !ok {
		return id, nil
	}

	var left, right []int
	for _, i := range samples {
		if b.X.At(i, s.feature) <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l, err := b.grow(left, depth+1)
	if err != nil {
		return 0, err
	}
	r, err := b.grow(right, depth+1)
	if err != nil {
		return 0, err
	}
	b.nodes[id].Feature, b.nodes[id].Threshold = s.feature, s.threshold
	b.nodes[id].Left, b.nodes[id].Right = l, r
	return id, nil
}

func (b *builder) stop(counts []float64, total float64, depth int) bool {
	if b.p.MaxDepth > 0 && depth >= b.p.MaxDepth {
		return true
	}
	if total < float64(b.p.MinSamplesSplit) || total < 2*float64(b.p.MinSamplesLeaf) {
		return true
	}
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func (b *builder) counts(samples []int) ([]float64, float64) {
	c := make([]float64, b.nc)
	var total float64
	for _, i := range samples {
		c[b.y[i]] += b.w[i]
		total += b.w[i]
	}
	return c, total
}

// best buckets the node's non-zero cells by feature, then scans up to kFeats
// non constant features in random order for the lowest weighted impurity
func (b *builder) best(samples []int, counts []float64, total float64) (split, bool) {
	b.touched = b.touched[:0]
	nnz := 0
	for _, i := range samples {
		idx, _ := b.X.Row(i)
		for _, j := range idx {
			if b.cnt[j] == 0 {
				b.touched = append(b.touched, j)
			}
			b.cnt[j]++
			nnz++
		}
	}
	off := 0
	for _, j := range b.touched {
		b.start[j] = off
		off += b.cnt[j]
	}
	if cap(b.ents) < nnz {
		b.ents = make([]entry, nnz)
	}
	b.ents = b.ents[:nnz]
	fill := make(map[int]int, len(b.touched))
	for _, i := range samples {
		idx, val := b.X.Row(i)
		for k, j := range idx {
			p := b.start[j] + fill[j]
			b.ents[p] = entry{val[k], i}
			fill[j]++
		}
	}
	defer func() {
		for _, j := range b.touched {
			b.cnt[j] = 0
		}
	}()

	parent := impurity(b.p.Criterion, counts, total)
	bestS := split{feature: -1, score: math.Inf(-1)}
	d := len(b.perm)
	visited := 0
	for f := 0; f < d && visited < b.kFeats; f++ {
		r := f + b.rng.IntN(d-f)
		b.perm[f], b.perm[r] = b.perm[r], b.perm[f]
		j := b.perm[f]
		if b.cnt[j] == 0 {
			continue
		}
		ents := b.ents[b.start[j] : b.start[j]+b.cnt[j]]
		s, nonConstant := b.scan(j, ents, counts, total, len(samples))
		if !nonConstant {
			continue
		}
		visited++
		if s.feature >= 0 && s.score > bestS.score {
			bestS = s
		}
	}
	if bestS.feature < 0 {
		return bestS, false
	}
	if total*parent+bestS.score <= minGain {
		return bestS, false
	}
	return bestS, true
}

// scan sweeps thresholds for feature j; rows absent from ents hold zero.
// score is minus the weighted child impurity, higher is better
func (b *builder) scan(j int, ents []entry, counts []float64, total float64, n int) (split, bool) {
	sort.Slice(ents, func(a, c int) bool {
		if ents[a].v != ents[c].v {
			return ents[a].v < ents[c].v
		}
		return ents[a].i < ents[c].i
	})

	zeroCounts := append([]float64(nil), counts...)
	zeroW := total
	for _, e := range ents {
		zeroCounts[b.y[e.i]] -= b.w[e.i]
		zeroW -= b.w[e.i]
	}
	hasZero := len(ents) < n

	if !hasZero && ents[0].v == ents[len(ents)-1].v {
		return split{feature: -1}, false
	}

	// values in ascending order with the implicit zero block spliced in
	type step struct {
		v float64
		e int // index into ents, -1 for the zero block
	}
	steps := make([]step, 0, len(ents)+1)
	zeroAt := sort.Search(len(ents), func(k int) bool { return ents[k].v > 0 })
	for k := 0; k < zeroAt; k++ {
		steps = append(steps, step{ents[k].v, k})
	}
	if hasZero {
		steps = append(steps, step{0, -1})
	}
	for k := zeroAt; k < len(ents); k++ {
		steps = append(steps, step{ents[k].v, k})
	}
	if steps[0].v == steps[len(steps)-1].v {
		return split{feature: -1}, false
	}

	left := make([]float64, b.nc)
	right := make([]float64, b.nc)
	var wl float64
	minLeaf := float64(b.p.MinSamplesLeaf)
	best := split{feature: -1, score: math.Inf(-1)}
	for k, st := range steps {
		if st.e < 0 {
			for c := range left {
				left[c] += zeroCounts[c]
			}
			wl += zeroW
		} else {
			e := ents[st.e]
			left[b.y[e.i]] += b.w[e.i]
			wl += b.w[e.i]
		}
		if k+1 == len(steps) || steps[k+1].v <= st.v {
			continue
		}
		wr := total - wl
		if wl < minLeaf || wr < minLeaf {
			continue
		}
		for c := range right {
			right[c] = counts[c] - left[c]
		}
		score := -(wl*impurity(b.p.Criterion, left, wl) + wr*impurity(b.p.Criterion, right, wr))
		if score > best.score {
			best = split{feature: j, threshold: st.v + (steps[k+1].v-st.v)/2, score: score}
		}
	}
	return best, true
}

func impurity(criterion string, counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	var s float64
	if criterion == Entropy {
		for _, c := range counts {
			if c > 0 {
				p := c / total
				s -= p * math.Log2(p)
			}
		}
		return s
	}
	for _, c := range counts {
		p := c / total
		s += p * p
	}
	return 1 - s
}

func normalize(counts []float64, total float64) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / total
	}
	return out
}
