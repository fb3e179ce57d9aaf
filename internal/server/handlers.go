package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frontsail/frontsail-sub000/internal/pattern"
	"github.com/frontsail/frontsail-sub000/internal/project"
)

// reloadScript is injected into rendered pages in development so the
// browser reconnects and reloads on change notifications.
const reloadScript = `<script>
(() => {
  const connect = () => {
    const ws = new WebSocket('ws://' + location.host + '/ws');
    ws.onmessage = (e) => {
      const msg = JSON.parse(e.data);
      if (msg.type === 'reload') location.reload();
    };
    ws.onclose = () => setTimeout(connect, 1000);
  };
  connect();
})();
</script>`

func (s *PreviewServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}
	if !pattern.IsPagePath(path) || !s.project.HasPage(path) {
		http.NotFound(w, r)
		return
	}

	result, err := s.project.Render(path, nil)
	if err != nil {
		s.logger.Error(r.Context(), err, "Page render failed", "path", path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	for _, diagnostic := range result.Diagnostics {
		s.logger.Warn(r.Context(), nil, "Render diagnostic",
			"path", path,
			"template", diagnostic.TemplateID,
			"message", diagnostic.Message,
		)
	}

	html := result.HTML
	if s.project.Environment() == project.EnvironmentDevelopment {
		html = injectReloadScript(html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// injectReloadScript places the live reload script before the closing
// body tag, falling back to appending when the page has none.
func injectReloadScript(html string) string {
	if at := strings.LastIndex(html, "</body>"); at >= 0 {
		return html[:at] + reloadScript + html[at:]
	}
	return html + reloadScript
}

func (s *PreviewServer) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(s.project.BuildStyles()))
}

func (s *PreviewServer) handleScripts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write([]byte(s.project.BuildScripts()))
}

func (s *PreviewServer) handleAsset(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if !pattern.IsAssetPath(path) || !s.project.HasAsset(path) {
		http.NotFound(w, r)
		return
	}
	file := filepath.Join(s.config.Build.SourceDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if _, err := os.Stat(file); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, file)
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now(),
		"components": len(s.project.ListComponents()),
		"pages":      len(s.project.ListPages()),
	})
}
