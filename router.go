package webserver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// indexPage is served for the root path when it exists next to the
// working directory.
const indexPage = "static/index.html"

// browserDir holds the bundled file browser single page app.
const (
	browserDir   = "static/browser"
	browserIndex = "static/browser/index.html"
)

// route resolves a request path to a filesystem path. The root path
// prefers the bundled index page, the browser paths serve the single page
// app, and everything else resolves under the www root.
func (s *Server) route(path string, isJSON bool, logger zerolog.Logger) (string, error) {
	switch path {
	case "/":
		if isJSON {
			return s.cfg.WWWRoot, nil
		}
		if _, err := os.Stat(indexPage); err == nil {
			return indexPage, nil
		}
		return s.cfg.WWWRoot, nil
	case "/browser", "/browser/":
		if isJSON {
			if info, err := os.Stat(browserDir); err == nil && info.IsDir() {
				return browserDir, nil
			}
		}
		if _, err := os.Stat(browserIndex); err == nil {
			return browserIndex, nil
		}
		logger.Error().Msg("browser app index.html is missing")
		return "", ErrNotFound
	case "*":
		return "*", nil
	}

	if path == "" {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.cfg.WWWRoot, path[1:])
	if _, err := os.Stat(full); err == nil {
		return full, nil
	}
	if strings.HasPrefix(path, "/browser") {
		if _, err := os.Stat(browserIndex); err == nil {
			logger.Debug().Str("path", path).Msg("missing file under /browser, serving the app shell")
			return browserIndex, nil
		}
	}
	return "", ErrNotFound
}
