package http

import (
	"net/http"

	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/platform/net/http/bind"
	"disasterresponse/internal/services/web/domain"
)

type api struct {
	clf domain.ClassifierPort
}

// RegisterAPI mounts the JSON routes; the caller scopes them under /api/v1
func RegisterAPI(r httpkit.Router, clf domain.ClassifierPort) {
	h := &api{clf: clf}
	httpkit.Get(r, "/charts", h.charts)
	httpkit.Get(r, "/categories", h.categories)
	httpkit.Get(r, "/classify", h.classifyQuery)
	httpkit.PostJSON(r, "/classify", h.classifyBody)
}

// CategoriesResponse lists category names in column order
type CategoriesResponse struct {
	Categories []string `json:"categories" example:"related,request,offer"`
}

// @Summary Index page chart specs
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Charts
// @Router /charts [get]
func (h *api) charts(_ *http.Request) (any, error) {
	return h.clf.Charts(), nil
}

// @Summary Category names
// @Tags Dashboard
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (h *api) categories(_ *http.Request) (any, error) {
	return CategoriesResponse{Categories: h.clf.Categories()}, nil
}

// @Summary Classify a message from the query string
// @Tags Classify
// @Produce json
// @Param query query string true "message text" maxlength(5000)
// @Success 200 {object} domain.Classification
// @Router /classify [get]
func (h *api) classifyQuery(r *http.Request) (any, error) {
	req := domain.ClassifyRequest{Query: r.URL.Query().Get("query")}
	if err := bind.Struct(req); err != nil {
		return nil, err
	}
	return h.clf.Classify(r.Context(), req.Query)
}

// classifyBody receives a body already validated by the JSON binder
//
// @Summary Classify a message
// @Tags Classify
// @Accept json
// @Produce json
// @Param body body domain.ClassifyRequest true "message"
// @Success 200 {object} domain.Classification
// @Router /classify [post]
func (h *api) classifyBody(r *http.Request, req domain.ClassifyRequest) (any, error) {
	return h.clf.Classify(r.Context(), req.Query)
}
