package service

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	perr "disasterresponse/internal/platform/errors"
	dom "disasterresponse/internal/services/etl/domain"
)

// table is a parsed CSV: header positions plus records
type table struct {
	path string
	cols map[string]int
	recs [][]string
}

func (t table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t table) get(rec []string, col string) string {
	if i, ok := t.cols[col]; ok {
		return rec[i]
	}
	return ""
}

func readCSV(path string, required ...string) (table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table{}, perr.WithField(perr.IOf(err, "open %s", path), "path")
	}
	defer func() { _ = f.Close() }()
	return parseCSV(f, path, required...)
}

func parseCSV(r io.Reader, path string, required ...string) (table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table{}, perr.Validationf("%s: empty file", path)
		}
		return table{}, perr.Wrapf(err, perr.ErrorCodeValidation, "%s: header", path)
	}
	t := table{path: path, cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.cols[h]; !dup {
			t.cols[h] = i
		}
	}
	for _, c := range required {
		if !t.has(c) {
			return table{}, perr.WithField(perr.Validationf("%s: missing column %q", path, c), c)
		}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, perr.Wrapf(err, perr.ErrorCodeValidation, "%s", path)
		}
		t.recs = append(t.recs, rec)
	}
	return t, nil
}

func parseID(t table, rec []string, line int) (int64, error) {
	s := strings.TrimSpace(t.get(rec, "id"))
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, perr.WithField(perr.Validationf("%s: record %d: id %q is not an integer", t.path, line, s), "id")
	}
	return id, nil
}

// Load inner joins the messages and categories CSVs on id, keeping the
// messages file order; repeated ids on both sides yield every pairing
func Load(messagesPath, categoriesPath string) (dom.Frame, error) {
	msgs, err := readCSV(messagesPath, "id", "message", "genre")
	if err != nil {
		return dom.Frame{}, err
	}
	cats, err := readCSV(categoriesPath, "id", "categories")
	if err != nil {
		return dom.Frame{}, err
	}
	return join(msgs, cats)
}

func join(msgs, cats table) (dom.Frame, error) {
	byID := make(map[int64][]string, len(cats.recs))
	for i, rec := range cats.recs {
		id, err := parseID(cats, rec, i+1)
		if err != nil {
			return dom.Frame{}, err
		}
		byID[id] = append(byID[id], cats.get(rec, "categories"))
	}

	var f dom.Frame
	for i, rec := range msgs.recs {
		id, err := parseID(msgs, rec, i+1)
		if err != nil {
			return dom.Frame{}, err
		}
		raws, ok := byID[id]
		if !ok {
			continue
		}
		var original *string
		if s := msgs.get(rec, "original"); s != "" {
			original = &s
		}
		for _, raw := range raws {
			f.Rows = append(f.Rows, dom.Row{
				ID:       id,
				Message:  msgs.get(rec, "message"),
				Original: original,
				Genre:    msgs.get(rec, "genre"),
				Raw:      raw,
			})
		}
	}
	return f, nil
}
