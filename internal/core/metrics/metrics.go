// Package metrics scores multi-label predictions: per label classification
// reports, subset accuracy and micro averaged F1
package metrics

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	perr "disasterresponse/internal/platform/errors"
)

// ClassScore is one row of a classification report
type ClassScore struct {
	Class     int     `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Average holds averaged precision, recall and F1
type Average struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// LabelReport is the classification report of one output label
type LabelReport struct {
	Label    string       `json:"label"`
	Classes  []ClassScore `json:"classes"`
	Accuracy float64      `json:"accuracy"`
	Macro    Average      `json:"macro_avg"`
	Weighted Average      `json:"weighted_avg"`
	Support  int          `json:"support"`
}

// Report covers every label plus whole-row scores
type Report struct {
	Labels         []LabelReport `json:"labels"`
	SubsetAccuracy float64       `json:"subset_accuracy"`
	MicroF1        float64       `json:"micro_f1"`
}

// Classification scores one label; classes are the union of true and
// predicted values, and an undefined ratio counts as 0
func Classification(label string, yTrue, yPred []int) LabelReport {
	classes := append(slices.Clone(yTrue), yPred...)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	r := LabelReport{Label: label, Support: len(yTrue)}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	if len(yTrue) > 0 {
		r.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for _, c := range classes {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == c && yPred[i] == c:
				tp++
			case yPred[i] == c:
				fp++
			case yTrue[i] == c:
				fn++
			}
		}
		s := ClassScore{Class: c, Support: tp + fn}
		s.Precision = ratio(tp, tp+fp)
		s.Recall = ratio(tp, tp+fn)
		s.F1 = f1(s.Precision, s.Recall)
		r.Classes = append(r.Classes, s)

		r.Macro.Precision += s.Precision
		r.Macro.Recall += s.Recall
		r.Macro.F1 += s.F1
		w := float64(s.Support)
		r.Weighted.Precision += w * s.Precision
		r.Weighted.Recall += w * s.Recall
		r.Weighted.F1 += w * s.F1
	}
	if k := float64(len(classes)); k > 0 {
		r.Macro = Average{r.Macro.Precision / k, r.Macro.Recall / k, r.Macro.F1 / k}
	}
	if n := float64(len(yTrue)); n > 0 {
		r.Weighted = Average{r.Weighted.Precision / n, r.Weighted.Recall / n, r.Weighted.F1 / n}
	}
	return r
}

// Evaluate builds the full report; Y matrices are rows by labels
func Evaluate(labels []string, yTrue, yPred [][]int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, perr.Validationf("metrics: %d true rows vs %d predicted", len(yTrue), len(yPred))
	}
	for i := range yTrue {
		if len(yTrue[i]) != len(labels) || len(yPred[i]) != len(labels) {
			return Report{}, perr.Validationf("metrics: row %d width differs from %d labels", i, len(labels))
		}
	}
	rep := Report{
		SubsetAccuracy: SubsetAccuracy(yTrue, yPred),
		MicroF1:        MicroF1(yTrue, yPred),
	}
	col := func(Y [][]int, j int) []int {
		out := make([]int, len(Y))
		for i := range Y {
			out[i] = Y[i][j]
		}
		return out
	}
	for j, l := range labels {
		rep.Labels = append(rep.Labels, Classification(l, col(yTrue, j), col(yPred, j)))
	}
	return rep, nil
}

// SubsetAccuracy is the share of rows whose every label is right
func SubsetAccuracy(yTrue, yPred [][]int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	hit := 0
	for i := range yTrue {
		if slices.Equal(yTrue[i], yPred[i]) {
			hit++
		}
	}
	return float64(hit) / float64(len(yTrue))
}

// MicroF1 pools true positives, false positives and false negatives over
// every cell, treating any non-zero value as positive
func MicroF1(yTrue, yPred [][]int) float64 {
	var tp, fp, fn int
	for i := range yTrue {
		for j := range yTrue[i] {
			t, p := yTrue[i][j] != 0, yPred[i][j] != 0
			switch {
			case t && p:
				tp++
			case p:
				fp++
			case t:
				fn++
			}
		}
	}
	return f1(ratio(tp, tp+fp), ratio(tp, tp+fn))
}

// WriteText prints one classification report block per label
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, l := range r.Labels {
		fmt.Fprintf(&b, "Category: %s\n", l.Label)
		fmt.Fprintf(&b, "%14s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
		for _, c := range l.Classes {
			fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", strconv.Itoa(c.Class), c.Precision, c.Recall, c.F1, c.Support)
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%14s %10s %10s %10.2f %10d\n", "accuracy", "", "", l.Accuracy, l.Support)
		fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n", "macro avg", l.Macro.Precision, l.Macro.Recall, l.Macro.F1, l.Support)
		fmt.Fprintf(&b, "%14s %10.2f %10.2f %10.2f %10d\n\n", "weighted avg", l.Weighted.Precision, l.Weighted.Recall, l.Weighted.F1, l.Support)
	}
	fmt.Fprintf(&b, "Subset accuracy: %.4f\nMicro F1: %.4f\n", r.SubsetAccuracy, r.MicroF1)
	_, err := io.WriteString(w, b.String())
	return err
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
