package webserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
)

// chdirTemp moves the working directory to a fresh temp dir so the
// CWD-relative static/ paths resolve predictably.
func chdirTemp(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestRouteFileUnderRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "page.html"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	server := newTestServer(testConfig(root))
	defer server.Close()

	path, err := server.route("/page.html", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, "page.html") {
		t.Fatalf("Path is %s", path)
	}
}

func TestRouteNestedFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "assets", "css"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "assets", "css", "site.css"), []byte("body{}"), 0644); err != nil {
		t.Fatal(err)
	}
	server := newTestServer(testConfig(root))
	defer server.Close()

	path, err := server.route("/assets/css/site.css", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, "assets", "css", "site.css") {
		t.Fatalf("Path is %s", path)
	}
}

func TestRouteMissingFile(t *testing.T) {
	chdirTemp(t)
	server := newTestServer(testConfig(t.TempDir()))
	defer server.Close()

	if _, err := server.route("/missing.html", false, log.Logger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Error is %v", err)
	}
}

func TestRouteEmptyPath(t *testing.T) {
	server := newTestServer(testConfig(t.TempDir()))
	defer server.Close()

	if _, err := server.route("", false, log.Logger); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Error is %v", err)
	}
}

func TestRouteAsterisk(t *testing.T) {
	server := newTestServer(testConfig(t.TempDir()))
	defer server.Close()

	path, err := server.route("*", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != "*" {
		t.Fatalf("Path is %s", path)
	}
}

func TestRouteRootWithoutIndex(t *testing.T) {
	chdirTemp(t)
	root := t.TempDir()
	server := newTestServer(testConfig(root))
	defer server.Close()

	path, err := server.route("/", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != root {
		t.Fatalf("Path is %s", path)
	}
}

func TestRouteRootWithIndex(t *testing.T) {
	chdirTemp(t)
	if err := os.MkdirAll("static", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("static/index.html", []byte("<h1>home</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	server := newTestServer(testConfig(root))
	defer server.Close()

	path, err := server.route("/", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != "static/index.html" {
		t.Fatalf("Path is %s", path)
	}

	// JSON clients want the root listing, not the landing page
	path, err = server.route("/", true, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != root {
		t.Fatalf("Path is %s", path)
	}
}

func TestRouteBrowserMissing(t *testing.T) {
	chdirTemp(t)
	server := newTestServer(testConfig(t.TempDir()))
	defer server.Close()

	if _, err := server.route("/browser", false, log.Logger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Error is %v", err)
	}
}

func TestRouteBrowserApp(t *testing.T) {
	chdirTemp(t)
	if err := os.MkdirAll("static/browser", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("static/browser/index.html", []byte("<app>"), 0644); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "browser"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "browser", "real.txt"), []byte("real"), 0644); err != nil {
		t.Fatal(err)
	}
	server := newTestServer(testConfig(root))
	defer server.Close()

	for _, p := range []string{"/browser", "/browser/"} {
		path, err := server.route(p, false, log.Logger)
		if err != nil {
			t.Fatal(err)
		}
		if path != "static/browser/index.html" {
			t.Fatalf("Path for %s is %s", p, path)
		}
	}

	// JSON clients browsing the app path get the app directory itself
	path, err := server.route("/browser", true, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != "static/browser" {
		t.Fatalf("Path is %s", path)
	}

	// files that exist under the www root win over the app shell
	path, err = server.route("/browser/real.txt", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, "browser", "real.txt") {
		t.Fatalf("Path is %s", path)
	}

	// deep links with no matching file fall back to the app shell
	path, err = server.route("/browser/settings/profile", false, log.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if path != "static/browser/index.html" {
		t.Fatalf("Path is %s", path)
	}
}
