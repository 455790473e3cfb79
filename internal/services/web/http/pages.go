// Package http serves the dashboard pages and the JSON classification API
package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/platform/logger"
	phttp "disasterresponse/internal/platform/net/http"
	"disasterresponse/internal/services/web/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"title": func(s string) string {
		return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
	},
}

// Pages renders master.html and go.html; each page gets its own set so
// go.html can replace the content block
type Pages struct {
	index *template.Template
	goPg  *template.Template
	clf   domain.ClassifierPort
}

// NewPages parses the embedded templates
func NewPages(clf domain.ClassifierPort) (*Pages, error) {
	index, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/master.html")
	if err != nil {
		return nil, err
	}
	goPg, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/master.html", "templates/go.html")
	if err != nil {
		return nil, err
	}
	return &Pages{index: index, goPg: goPg, clf: clf}, nil
}

type pageData struct {
	MaxQuery   int
	Rows       int
	Categories int
	Figures    []domain.Figure
	Query      string
	Labels     []domain.LabelFlag
}

// Register mounts / /index and /go
func (p *Pages) Register(r httpkit.Router, rows int) {
	index := func(w http.ResponseWriter, req *http.Request) {
		p.render(w, req, p.index, "master.html", pageData{
			MaxQuery:   domain.MaxQueryLen,
			Rows:       rows,
			Categories: len(p.clf.Categories()),
			Figures:    p.clf.Charts().Figures,
		})
	}
	r.Get("/", index)
	r.Get("/index", index)
	r.Get("/go", p.goHandler)
}

func (p *Pages) goHandler(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("query")
	if len([]rune(query)) > domain.MaxQueryLen {
		query = string([]rune(query)[:domain.MaxQueryLen])
	}
	res, err := p.clf.Classify(req.Context(), query)
	if err != nil {
		phttp.RespondError(w, req, err)
		return
	}
	p.render(w, req, p.goPg, "go.html", pageData{
		MaxQuery: domain.MaxQueryLen,
		Figures:  []domain.Figure{},
		Query:    res.Query,
		Labels:   res.Labels,
	})
}

func (p *Pages) render(w http.ResponseWriter, req *http.Request, t *template.Template, name string, data pageData) {
	if data.Figures == nil {
		data.Figures = []domain.Figure{}
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		logger.C(req.Context()).Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
