package tfidf

import (
	"math"
	"reflect"
	"testing"

	perr "disasterresponse/internal/platform/errors"
)

var corpus = [][]string{
	{"water", "food", "water"},
	{"food", "shelter"},
	{"medicine"},
	{"water", "shelter", "tent"},
}

func TestFit_VocabularyAndIDF(t *testing.T) {
	t.Parallel()

	v := New(Options{})
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("fit: %v", err)
	}
	want := []string{"food", "medicine", "shelter", "tent", "water"}
	if !reflect.DeepEqual(v.Terms, want) {
		t.Fatalf("terms = %v", v.Terms)
	}
	// n=4: df(food)=2 -> ln(5/3)+1, df(medicine)=1 -> ln(5/2)+1
	if got := v.IDF[v.Vocab["food"]]; math.Abs(got-(math.Log(5.0/3)+1)) > 1e-12 {
		t.Fatalf("idf food = %v", got)
	}
	if got := v.IDF[v.Vocab["medicine"]]; math.Abs(got-(math.Log(5.0/2)+1)) > 1e-12 {
		t.Fatalf("idf medicine = %v", got)
	}
}

func TestFit_MaxFeaturesAndMinDF(t *testing.T) {
	t.Parallel()

	v := New(Options{MaxFeatures: 2})
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("fit: %v", err)
	}
	// corpus counts: water 3, food 2, shelter 2; food wins the tie alphabetically
	if want := []string{"food", "water"}; !reflect.DeepEqual(v.Terms, want) {
		t.Fatalf("terms = %v", v.Terms)
	}

	v = New(Options{MinDF: 2})
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if want := []string{"food", "shelter", "water"}; !reflect.DeepEqual(v.Terms, want) {
		t.Fatalf("terms = %v", v.Terms)
	}
}

func TestFit_EmptyVocabulary(t *testing.T) {
	t.Parallel()

	err := New(Options{}).Fit([][]string{{}, {}})
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestTransform_RowsAreUnitNorm(t *testing.T) {
	t.Parallel()

	v := New(Options{})
	X, err := v.FitTransform(corpus)
	if err != nil {
		t.Fatalf("fit transform: %v", err)
	}
	if X.Rows != len(corpus) || X.Cols != len(v.Terms) {
		t.Fatalf("shape %dx%d", X.Rows, X.Cols)
	}
	for i := 0; i < X.Rows; i++ {
		_, val := X.Row(i)
		var s float64
		for _, x := range val {
			s += x * x
		}
		if math.Abs(s-1) > 1e-9 {
			t.Fatalf("row %d norm^2 = %v", i, s)
		}
	}
	if X.At(2, v.Vocab["medicine"]) != 1 {
		t.Fatalf("single term row should be 1, got %v", X.At(2, v.Vocab["medicine"]))
	}
}

func TestTransform_UnknownTermsAndUnfitted(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{}).Transform(corpus); perr.CodeOf(err) != perr.ErrorCodeModel {
		t.Fatalf("want model error, got %v", err)
	}

	v := New(Options{})
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("fit: %v", err)
	}
	X, err := v.Transform([][]string{{"earthquake"}, {"water", "earthquake"}})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if idx, _ := X.Row(0); len(idx) != 0 {
		t.Fatalf("unknown only row should be empty, got %v", idx)
	}
	if got := X.At(1, v.Vocab["water"]); math.Abs(got-1) > 1e-12 {
		t.Fatalf("water = %v", got)
	}
}
