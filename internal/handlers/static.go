package handlers

import (
	"net/http"
)

// StaticHandler serves the system-under-test pages from a directory
type StaticHandler struct {
	files http.Handler
}

// NewStaticHandler creates a StaticHandler rooted at dir
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{
		files: http.FileServer(http.Dir(dir)),
	}
}

// ServeHTTP serves GET and HEAD requests for files under the root directory
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Pages under test change between runs; never let the browser cache them
	w.Header().Set("Cache-Control", "no-store")
	h.files.ServeHTTP(w, r)
}
