package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/myrjola/trainplan/internal/contexthelpers"
	"github.com/myrjola/trainplan/internal/errors"
)

// BaseTemplateData is embedded by the data of every page rendered with base.gohtml.
type BaseTemplateData struct {
	// CurrentPath highlights the active navigation link.
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// moduleDir walks up from the working directory to the first directory holding go.mod.
func moduleDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "get working directory")
	}
	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrap(os.ErrNotExist, "no go.mod above working directory")
		}
		dir = parent
	}
}

// resolveAndVerifyTemplatePath returns templatePath, or ui/templates under the module root when it is empty,
// after checking that it is a directory.
func resolveAndVerifyTemplatePath(templatePath string) (string, error) {
	if templatePath == "" {
		root, err := moduleDir()
		if err != nil {
			return "", errors.Wrap(err, "find module dir")
		}
		templatePath = filepath.Join(root, "ui", "templates")
	}
	stat, err := os.Stat(templatePath)
	if err != nil {
		return "", errors.Wrap(err, "stat template path", slog.String("path", templatePath))
	}
	if !stat.IsDir() {
		return "", errors.Wrap(errors.New("not a directory"), "verify template path", slog.String("path", templatePath))
	}
	return templatePath, nil
}
