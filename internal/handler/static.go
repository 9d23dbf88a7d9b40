package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the dashboard bundle: real files as-is, everything
// else falls back to index.html for client-side routing. The route
// guard has already run by the time a request reaches this handler.
type SPAHandler struct {
	staticDir string
	indexFile string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{
		staticDir: staticDir,
		indexFile: "index.html",
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	filePath := filepath.Join(h.staticDir, filepath.Clean("/"+path))

	info, err := os.Stat(filePath)
	if err == nil && !info.IsDir() {
		http.ServeFile(w, r, filePath)
		return
	}

	indexPath := filepath.Join(h.staticDir, h.indexFile)
	if _, err := os.Stat(indexPath); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, indexPath)
}
