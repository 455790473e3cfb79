// Package lemma reduces an inflected English word to its dictionary form for a
// coarse part of speech. Candidates come from an irregular forms table and
// suffix detachment rules, and are kept only when the dictionary knows them
// as a base form. The shortest surviving candidate wins.
package lemma

import (
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// POS is the coarse part of speech used to pick detachment rules
type POS byte

// Parts of speech
const (
	Noun POS = 'n'
	Verb POS = 'v'
	Adj  POS = 'a'
	Adv  POS = 'r'
)

// POSFromTag maps a Penn Treebank tag to a POS by its first letter:
// J adjective, V verb, R adverb, anything else noun
func POSFromTag(tag string) POS {
	if tag == "" {
		return Noun
	}
	switch tag[0] {
	case 'J':
		return Adj
	case 'V':
		return Verb
	case 'R':
		return Adv
	}
	return Noun
}

// Dictionary answers membership and lemma lookups; *golem.Lemmatizer satisfies it
type Dictionary interface {
	InDict(word string) bool
	Lemmas(word string) []string
	Lemma(word string) string
}

// Lemmatizer is safe for concurrent use once built
type Lemmatizer struct {
	dict Dictionary
}

// NewWithDict builds a Lemmatizer over an explicit dictionary
func NewWithDict(d Dictionary) *Lemmatizer { return &Lemmatizer{dict: d} }

var (
	defaultOnce sync.Once
	defaultLem  *Lemmatizer
	defaultErr  error
)

// Default returns the process wide English lemmatizer backed by the golem
// dictionary, loading it on first use
func Default() (*Lemmatizer, error) {
	defaultOnce.Do(func() {
		g, err := golem.New(en.New())
		if err != nil {
			defaultErr = err
			return
		}
		defaultLem = NewWithDict(g)
	})
	return defaultLem, defaultErr
}

// Lemmatize returns the lemma of word for pos, or word itself when no
// candidate is a known base form
func (l *Lemmatizer) Lemmatize(word string, pos POS) string {
	if word == "" || !hasLetter(word) {
		return word
	}
	forms := l.candidates(word, pos)
	if len(forms) == 0 {
		if pos == Verb && l.dict.InDict(word) {
			if lm := l.dict.Lemma(word); lm != "" {
				return lm
			}
		}
		return word
	}
	best := forms[0]
	for _, f := range forms[1:] {
		if len(f) < len(best) {
			best = f
		}
	}
	return best
}

// candidates lists the valid base forms for word in discovery order
func (l *Lemmatizer) candidates(word string, pos POS) []string {
	if exc, ok := exceptions[pos][word]; ok {
		return l.valid(append([]string{word}, exc...))
	}
	forms := detach([]string{word}, pos)
	if got := l.valid(append([]string{word}, forms...)); len(got) > 0 {
		return got
	}
	for len(forms) > 0 {
		forms = detach(forms, pos)
		if got := l.valid(forms); len(got) > 0 {
			return got
		}
	}
	return nil
}

// valid keeps forms the dictionary lists as their own lemma, deduplicated
func (l *Lemmatizer) valid(forms []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		if _, dup := seen[f]; dup || f == "" {
			continue
		}
		seen[f] = struct{}{}
		if l.isBase(f) {
			out = append(out, f)
		}
	}
	return out
}

func (l *Lemmatizer) isBase(w string) bool {
	if !l.dict.InDict(w) {
		return false
	}
	for _, lm := range l.dict.Lemmas(w) {
		if lm == w {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || r > 0x7f
	}) >= 0
}
