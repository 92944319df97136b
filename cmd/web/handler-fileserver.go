package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/trainplan/internal/errors"
)

// fileServerHandler creates a file server handler for ui/static that renders the not-found page for missing files.
func (app *application) fileServerHandler() (http.Handler, error) {
	fileRoot := filepath.Join("ui", "static")
	if _, err := os.Stat(fileRoot); err != nil {
		root, dirErr := moduleDir()
		if dirErr != nil {
			return nil, errors.Wrap(dirErr, "find module dir")
		}
		fileRoot = filepath.Join(root, "ui", "static")
	}
	if stat, err := os.Stat(fileRoot); err != nil || !stat.IsDir() {
		return nil, errors.Wrap(errors.Join(errors.New("static root is not a directory"), err), "verify static root",
			slog.String("path", fileRoot))
	}

	fileServer := http.FileServer(http.Dir(fileRoot))
	notFound := noCache(http.HandlerFunc(app.notFound))

	return app.recoverPanic(app.logAndTraceRequest(secureHeaders(commonContext(cacheForever(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Sanitize the URL path to prevent directory traversal attacks
			cleanPath := filepath.Clean(r.URL.Path)
			if strings.Contains(cleanPath, "..") {
				notFound.ServeHTTP(w, r)
				return
			}
			info, statErr := os.Stat(filepath.Join(fileRoot, cleanPath))
			if statErr != nil || info.IsDir() {
				notFound.ServeHTTP(w, r)
				return
			}

			fileServer.ServeHTTP(w, r)
		})))))), nil
}
