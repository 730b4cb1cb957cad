// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// indexHandler serves the usage landing page.
type indexHandler struct{}

// newIndexHandler creates a new index handler.
func newIndexHandler() *indexHandler {
	return &indexHandler{}
}

// HandleIndex handles GET / requests with an HTML usage page. Any other
// path falls through to 404.
func (h *indexHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, indexFS, "index.html")
}
