package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontsail/frontsail-sub000/internal/config"
	"github.com/frontsail/frontsail-sub000/internal/logging"
	"github.com/frontsail/frontsail-sub000/internal/project"
)

func testServer(t *testing.T, environment project.Environment) (*PreviewServer, *project.Project, string) {
	t.Helper()
	proj, err := project.New(project.Options{Environment: environment})
	require.NoError(t, err)

	sourceDir := t.TempDir()
	cfg := &config.Config{
		Environment: string(environment),
		Server:      config.ServerConfig{Host: "127.0.0.1", Port: 5417},
		Build:       config.BuildConfig{SourceDir: sourceDir},
	}
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelError, Output: io.Discard})
	return New(cfg, proj, logger), proj, sourceDir
}

func TestInjectReloadScript(t *testing.T) {
	withBody := injectReloadScript("<html><body><p>hi</p></body></html>")
	assert.True(t, strings.HasSuffix(withBody, reloadScript+"</body></html>"))
	assert.Contains(t, withBody, "<p>hi</p>")

	withoutBody := injectReloadScript("<p>hi</p>")
	assert.Equal(t, "<p>hi</p>"+reloadScript, withoutBody)
}

func TestHandlePage(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentDevelopment)
	require.NoError(t, proj.AddPage("/", "<html><body><h1>Home</h1></body></html>"))

	recorder := httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 200, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	body := recorder.Body.String()
	assert.Contains(t, body, "<h1>Home</h1>")
	assert.Contains(t, body, reloadScript)
}

func TestHandlePageProductionHasNoReloadScript(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentProduction)
	require.NoError(t, proj.AddPage("/", "<html><body><h1>Home</h1></body></html>"))

	recorder := httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 200, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "WebSocket")
}

func TestHandlePageTrailingSlash(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentDevelopment)
	require.NoError(t, proj.AddPage("/about", "<html><body>About</body></html>"))

	recorder := httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("GET", "/about/", nil))
	assert.Equal(t, 200, recorder.Code)
}

func TestHandlePageNotFound(t *testing.T) {
	s, _, _ := testServer(t, project.EnvironmentDevelopment)

	recorder := httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, 404, recorder.Code)

	recorder = httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("GET", "/Not%20A%20Page", nil))
	assert.Equal(t, 404, recorder.Code)
}

func TestHandlePageMethodNotAllowed(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentDevelopment)
	require.NoError(t, proj.AddPage("/", "<html><body></body></html>"))

	recorder := httptest.NewRecorder()
	s.handlePage(recorder, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, 405, recorder.Code)
}

func TestHandleStylesAndScripts(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentDevelopment)
	proj.SetCSS(".base { margin: 0 }")
	proj.SetJS("console.log('ready')")

	recorder := httptest.NewRecorder()
	s.handleStyles(recorder, httptest.NewRequest("GET", "/site.css", nil))
	assert.Equal(t, "text/css; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), ".base")

	recorder = httptest.NewRecorder()
	s.handleScripts(recorder, httptest.NewRequest("GET", "/site.js", nil))
	assert.Equal(t, "text/javascript; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "console.log('ready')")
}

func TestHandleAsset(t *testing.T) {
	s, proj, sourceDir := testServer(t, project.EnvironmentDevelopment)

	assetDir := filepath.Join(sourceDir, "assets")
	require.NoError(t, os.MkdirAll(assetDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assetDir, "logo.svg"), []byte("<svg></svg>"), 0o644))
	require.NoError(t, proj.AddAsset("/assets/logo.svg"))

	recorder := httptest.NewRecorder()
	s.handleAsset(recorder, httptest.NewRequest("GET", "/assets/logo.svg", nil))
	assert.Equal(t, 200, recorder.Code)
	assert.Equal(t, "<svg></svg>", recorder.Body.String())

	// Registered but missing on disk.
	require.NoError(t, proj.AddAsset("/assets/ghost.png"))
	recorder = httptest.NewRecorder()
	s.handleAsset(recorder, httptest.NewRequest("GET", "/assets/ghost.png", nil))
	assert.Equal(t, 404, recorder.Code)

	// Never registered.
	recorder = httptest.NewRecorder()
	s.handleAsset(recorder, httptest.NewRequest("GET", "/assets/other.png", nil))
	assert.Equal(t, 404, recorder.Code)
}

func TestHandleHealth(t *testing.T) {
	s, proj, _ := testServer(t, project.EnvironmentDevelopment)
	require.NoError(t, proj.AddComponent("button", "<button></button>"))
	require.NoError(t, proj.AddPage("/", "<div></div>"))

	recorder := httptest.NewRecorder()
	s.handleHealth(recorder, httptest.NewRequest("GET", "/health", nil))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, float64(1), payload["components"])
	assert.Equal(t, float64(1), payload["pages"])
}

func TestNotifyReloadWithoutHubDoesNotBlock(t *testing.T) {
	s, _, _ := testServer(t, project.EnvironmentDevelopment)
	s.NotifyReload("")
}
