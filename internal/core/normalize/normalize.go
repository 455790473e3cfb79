// Package normalize case-folds message text before tokenization
// Pipeline order
// 1 drop control runes and invalid UTF-8
// 2 Unicode NFC composition
// 3 lower casing
// 4 collapse whitespace runs to single spaces and trim
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chains are stateful, so each caller takes one from the pool
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFC, cases.Lower(language.Und))
	},
}

// Normalize returns the normalized form of s
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}
