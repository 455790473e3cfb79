// Package tokenize turns a message into the lemmatized word list shared by
// training and serving
package tokenize

import (
	"bufio"
	"context"
	_ "embed"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"

	"disasterresponse/internal/core/lemma"
	"disasterresponse/internal/core/normalize"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
)

// MinRunes is the shortest token kept
const MinRunes = 3

//go:embed stopwords.txt
var stopwordsTxt string

// newDocument tags a message; swapped in tests
var newDocument = prose.NewDocument

// Tokenizer is safe for concurrent use
type Tokenizer struct {
	model *prose.Model
	lem   *lemma.Lemmatizer
	stops map[string]struct{}
}

// New loads the tagging model and the lemma dictionary
func New() (*Tokenizer, error) {
	lem, err := lemma.Default()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeModel, "tokenize: load lemma dictionary")
	}
	doc, err := prose.NewDocument("ready",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeModel, "tokenize: load tagger")
	}
	return &Tokenizer{model: doc.Model, lem: lem, stops: Stopwords()}, nil
}

var (
	defaultOnce sync.Once
	defaultTok  *Tokenizer
	defaultErr  error
)

// Default returns the process wide tokenizer, built on first use
func Default() (*Tokenizer, error) {
	defaultOnce.Do(func() { defaultTok, defaultErr = New() })
	return defaultTok, defaultErr
}

// Tokenize runs text through the default tokenizer; it panics when the
// embedded models cannot load, which callers surface earlier via Default
func Tokenize(text string) []string {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t.Tokenize(text)
}

// Tokenize lower-cases text, splits and POS-tags it, lemmatizes each word
// by its tag and drops stop words and words under MinRunes
func (t *Tokenizer) Tokenize(text string) []string {
	text = normalize.Normalize(text)
	if text == "" {
		return []string{}
	}
	doc, err := newDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
		prose.UsingModel(t.model),
	)
	if err != nil {
		logger.Named("tokenize").Warn().Err(err).Int("runes", utf8.RuneCountInString(text)).
			Msg("tagging failed; message yields no tokens")
		return []string{}
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		w := t.lem.Lemmatize(tok.Text, lemma.POSFromTag(tok.Tag))
		if t.keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func (t *Tokenizer) keep(w string) bool {
	if utf8.RuneCountInString(w) < MinRunes {
		return false
	}
	_, stop := t.stops[w]
	return !stop
}

// Corpus tokenizes texts on up to workers goroutines; out[i] belongs to texts[i]
func (t *Tokenizer) Corpus(ctx context.Context, texts []string, workers int) ([][]string, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([][]string, len(texts))

	sem := make(chan struct{}, workers)
	wg := sync.WaitGroup{}
	for i := range texts {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, perr.Wrap(err, perr.ErrorCodeCanceled, "tokenize: corpus")
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			out[i] = t.Tokenize(texts[i])
		}(i)
	}
	wg.Wait()
	return out, nil
}

// Stopwords returns a fresh copy of the embedded English stop-word set
func Stopwords() map[string]struct{} {
	m := make(map[string]struct{}, 200)
	sc := bufio.NewScanner(strings.NewReader(stopwordsTxt))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}
