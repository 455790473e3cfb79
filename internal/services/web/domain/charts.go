// Package domain holds the dashboard's chart specs and classification DTOs
package domain

import (
	"cmp"
	"slices"
	"strconv"

	msgdom "disasterresponse/internal/services/messages/domain"
)

// Trace is one Plotly data series
type Trace struct {
	Type   string   `json:"type"`
	X      []string `json:"x,omitempty"`
	Y      []int    `json:"y,omitempty"`
	Labels []string `json:"labels,omitempty"`
	Values []int    `json:"values,omitempty"`
}

// Axis is a Plotly axis layout
type Axis struct {
	Title      string `json:"title"`
	Automargin bool   `json:"automargin,omitempty"`
}

// Layout is a Plotly figure layout
type Layout struct {
	Title string `json:"title"`
	YAxis Axis   `json:"yaxis"`
	XAxis Axis   `json:"xaxis"`
}

// Figure is a Plotly figure spec, rendered client side
type Figure struct {
	ID     string  `json:"id"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Charts are the index page figures, in page order
type Charts struct {
	Figures []Figure `json:"figures"`
}

// RelatedCategory is the column the pie chart counts
const RelatedCategory = "related"

// BuildCharts computes the genre bar chart and the related pie chart
func BuildCharts(m msgdom.Messages) Charts {
	return Charts{Figures: []Figure{genreFigure(m), relatedFigure(m)}}
}

// genreFigure counts every row per genre, genres ascending
func genreFigure(m msgdom.Messages) Figure {
	counts := map[string]int{}
	for _, r := range m.Rows {
		counts[r.Genre]++
	}
	names := make([]string, 0, len(counts))
	for g := range counts {
		names = append(names, g)
	}
	slices.Sort(names)
	ys := make([]int, len(names))
	for i, g := range names {
		ys[i] = counts[g]
	}
	return Figure{
		ID:   "graph-0",
		Data: []Trace{{Type: "bar", X: names, Y: ys}},
		Layout: Layout{
			Title: "Distribution of Message Genres",
			YAxis: Axis{Title: "Count"},
			XAxis: Axis{Title: "Genre"},
		},
	}
}

// relatedFigure counts each value of the related column, most frequent first
// and ties by value; the trace is empty when the column is missing
func relatedFigure(m msgdom.Messages) Figure {
	f := Figure{
		ID: "graph-1",
		Layout: Layout{
			Title: "Pie chart of related messages count",
			YAxis: Axis{Title: "Count"},
			XAxis: Axis{Title: "Category", Automargin: true},
		},
	}
	col := m.Category(RelatedCategory)
	tr := Trace{Type: "pie", Labels: []string{}, Values: []int{}}
	if col >= 0 {
		counts := map[int]int{}
		for _, r := range m.Rows {
			counts[r.Flags[col]]++
		}
		vals := make([]int, 0, len(counts))
		for v := range counts {
			vals = append(vals, v)
		}
		slices.SortFunc(vals, func(a, b int) int {
			if c := cmp.Compare(counts[b], counts[a]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for _, v := range vals {
			tr.Labels = append(tr.Labels, strconv.Itoa(v))
			tr.Values = append(tr.Values, counts[v])
		}
	}
	f.Data = []Trace{tr}
	return f
}
