package strings

import (
	"testing"

	"disasterresponse/internal/platform/testkit"
)

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"api/v1":    "/api/v1",
		" /meta/ ":  "/meta",
		"//charts/": "/charts",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestDropLast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"related-1", 2, "related"},
		{"aid_related-0", 2, "aid_related"},
		{"ab", 2, ""},
		{"x", 2, ""},
		{"café-1", 2, "café"},
		{"keep", 0, "keep"},
	}
	for _, c := range cases {
		if got := DropLast(c.in, c.n); got != c.want {
			t.Fatalf("DropLast(%q,%d) = %q want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestLastDigit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"related-1", 1, true},
		{"related-2", 2, true},
		{"offer-0 ", 0, true},
		{"broken-x", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := LastDigit(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("LastDigit(%q) = %d,%v", c.in, got, ok)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("we need water", 7); got != "we need…" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}
