package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"disasterresponse/internal/platform/logger"
)

// serveDocJSON parses the registered spec, normalizes it for the UI and serves it
func serveDocJSON(o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(o.Read()), &spec); err != nil {
			logger.Named("swagger").Error().Err(err).Msg("spec parse")
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		Normalize(spec, o.BaseURL)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// Normalize lifts the spec to OAS 3.0.3 with a servers block and adds the
// shared error envelope plus default 400 and 500 responses to every operation
func Normalize(spec map[string]any, baseURL string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": baseURL}}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = map[string]any{
			"type":        "object",
			"description": "Standard error envelope",
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer", "format": "int32"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer", "format": "int32"},
				"error":       map[string]any{"type": "string"},
				"field":       map[string]any{"type": "string"},
				"request_id":  map[string]any{"type": "string"},
			},
			"required": []any{"status_code", "status"},
		}
	}

	addDefault(spec, "400", "Bad Request", map[string]any{
		"status_code": 400, "status": "Bad Request", "code": 6,
		"error": "query is a required field", "field": "query",
	})
	addDefault(spec, "500", "Internal Server Error", map[string]any{
		"status_code": 500, "status": "Internal Server Error", "code": 1,
		"error": "panic recovered",
	})
}

// addDefault injects a response for code into every operation lacking one
func addDefault(spec map[string]any, code, desc string, example map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			if _, exists := responses[code]; !exists {
				responses[code] = resp
			}
		}
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
