//go:build !dev

// Package resources serves the workbench's static assets. Release builds
// embed them in the binary; dev builds (-tags dev) read them from the
// source tree so edits show up without a rebuild.
package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var assets embed.FS

// Handler serves the embedded assets. They change with every release of
// the binary, so cache for an hour rather than marking them immutable.
func Handler() http.Handler {
	sub, _ := fs.Sub(assets, "static")
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
