package httpserver

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// RegisterStaticRoutes mounts:
// - /          -> <webDir>/index.html
// - /static/*  -> <webDir>/static
func RegisterStaticRoutes(r chi.Router, webDir string) {
	if webDir == "" {
		webDir = "."
	}
	index := filepath.Join(webDir, "index.html")

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, index)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(webDir, "static")))))
}
