//go:build dev

// Package resources serves the workbench's static assets. Release builds
// embed them in the binary; dev builds (-tags dev) read them from the
// source tree so edits show up without a rebuild.
package resources

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Handler serves assets straight from the source tree with caching
// disabled, so CSS edits land on the next request.
func Handler() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir()))))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})
}

// staticDir locates the static directory next to this source file, so the
// dev server works regardless of the working directory.
func staticDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("internal", "ui", "resources", "static")
	}
	return filepath.Join(filepath.Dir(file), "static")
}
