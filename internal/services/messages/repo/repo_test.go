package repo

import (
	"reflect"
	"testing"

	perr "disasterresponse/internal/platform/errors"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	idx, labels, names, err := layout([]string{"id", "message", "original", "genre", "related", "water"})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if idx["genre"] != 3 || !reflect.DeepEqual(labels, []int{4, 5}) || !reflect.DeepEqual(names, []string{"related", "water"}) {
		t.Fatalf("layout = %v %v %v", idx, labels, names)
	}

	// original is optional, columns may come in any order
	idx, labels, _, err = layout([]string{"water", "genre", "message", "id"})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if idx["id"] != 3 || !reflect.DeepEqual(labels, []int{0}) {
		t.Fatalf("layout = %v %v", idx, labels)
	}

	_, _, _, err = layout([]string{"id", "message", "water"})
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "genre" {
		t.Fatalf("want genre validation error, got %v", err)
	}
}
