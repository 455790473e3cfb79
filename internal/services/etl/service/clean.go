package service

import (
	"slices"
	"strings"

	perr "disasterresponse/internal/platform/errors"
	str "disasterresponse/internal/platform/strings"
	dom "disasterresponse/internal/services/etl/domain"
)

// CleanOptions tune flag coercion
type CleanOptions struct {
	// StrictFlags rejects digits other than 0 and 1 instead of clamping them to 1
	StrictFlags bool
}

// Clean expands the raw category field into one flag column per category,
// named after the first row, then drops exact duplicate rows and rows whose
// id was already kept. An already expanded frame is only deduplicated
func Clean(f dom.Frame, opts CleanOptions) (dom.Frame, dom.Stats, error) {
	var st dom.Stats
	if !f.Expanded() {
		var err error
		f, st.ClampedFlags, err = expand(f, opts)
		if err != nil {
			return dom.Frame{}, st, err
		}
	}
	f, st.Duplicates, st.DuplicateIDs = dedupe(f)
	return f, st, nil
}

func expand(f dom.Frame, opts CleanOptions) (dom.Frame, int, error) {
	if len(f.Rows) == 0 {
		return dom.Frame{}, 0, perr.Validationf("clean: no rows to derive categories from")
	}
	first := strings.Split(f.Rows[0].Raw, ";")
	names := make([]string, len(first))
	for i, part := range first {
		names[i] = str.DropLast(strings.TrimSpace(part), 2)
		if names[i] == "" {
			return dom.Frame{}, 0, perr.WithField(perr.Validationf("clean: category %d in %q has no name", i, f.Rows[0].Raw), "categories")
		}
	}
	if dup := firstDuplicate(names); dup != "" {
		return dom.Frame{}, 0, perr.WithField(perr.Validationf("clean: category %q appears twice", dup), "categories")
	}

	out := dom.Frame{Categories: names, Rows: make([]dom.Row, len(f.Rows))}
	clamped := 0
	for i, r := range f.Rows {
		parts := strings.Split(r.Raw, ";")
		if len(parts) != len(names) {
			return dom.Frame{}, 0, perr.WithField(perr.Validationf("clean: id %d has %d categories, want %d", r.ID, len(parts), len(names)), "categories")
		}
		flags := make([]int, len(parts))
		for j, p := range parts {
			d, ok := str.LastDigit(p)
			if !ok {
				return dom.Frame{}, 0, perr.WithField(perr.Validationf("clean: id %d category %q has no trailing digit", r.ID, p), names[j])
			}
			if d > 1 {
				if opts.StrictFlags {
					return dom.Frame{}, 0, perr.WithField(perr.Validationf("clean: id %d category %s is %d", r.ID, names[j], d), names[j])
				}
				d = 1
				clamped++
			}
			flags[j] = d
		}
		r.Raw, r.Flags = "", flags
		out.Rows[i] = r
	}
	return out, clamped, nil
}

// dedupe keeps the first of each exact duplicate, then the first row per id
func dedupe(f dom.Frame) (dom.Frame, int, int) {
	type key struct {
		id       int64
		message  string
		original string
		hasOrig  bool
		genre    string
		flags    string
	}
	seen := make(map[key]struct{}, len(f.Rows))
	ids := make(map[int64]struct{}, len(f.Rows))
	out := dom.Frame{Categories: f.Categories, Rows: make([]dom.Row, 0, len(f.Rows))}
	var dups, dupIDs int
	var b strings.Builder
	for _, r := range f.Rows {
		b.Reset()
		for _, v := range r.Flags {
			b.WriteByte(byte('0' + v))
		}
		k := key{id: r.ID, message: r.Message, genre: r.Genre, flags: b.String()}
		if r.Original != nil {
			k.original, k.hasOrig = *r.Original, true
		}
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
		if _, ok := ids[r.ID]; ok {
			dupIDs++
			continue
		}
		ids[r.ID] = struct{}{}
		out.Rows = append(out.Rows, r)
	}
	return out, dups, dupIDs
}

func firstDuplicate(names []string) string {
	s := slices.Clone(names)
	slices.Sort(s)
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return s[i]
		}
	}
	return ""
}
