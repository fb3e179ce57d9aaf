// Package scanner maps a frontsail source tree onto project
// registrations. The layout is fixed: `components/**/*.html` are
// components named by their relative path, `pages/**/*.html` are pages
// routed by their relative path, `assets/**` are static assets, and
// `main.css`/`main.js` are the custom project sources.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/logging"
	"github.com/frontsail/frontsail-sub000/internal/project"
)

// FileKind classifies one source file.
type FileKind int

const (
	KindIgnored FileKind = iota
	KindComponent
	KindPage
	KindAsset
	KindCSS
	KindJS
)

// SourceScanner reads a source directory into a project and applies
// incremental filesystem changes onto it.
type SourceScanner struct {
	sourceDir string
	project   *project.Project
	logger    logging.Logger
}

// New creates a scanner rooted at sourceDir that feeds proj.
func New(sourceDir string, proj *project.Project, logger logging.Logger) *SourceScanner {
	return &SourceScanner{
		sourceDir: sourceDir,
		project:   proj,
		logger:    logger.WithComponent("scanner"),
	}
}

// Classify maps a path inside the source tree onto its project
// identifier: a component name, a page path, or an asset path.
func (s *SourceScanner) Classify(path string) (FileKind, string) {
	rel, err := filepath.Rel(s.sourceDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return KindIgnored, ""
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == "main.css":
		return KindCSS, ""
	case rel == "main.js":
		return KindJS, ""
	case strings.HasPrefix(rel, "components/") && strings.HasSuffix(rel, ".html"):
		name := strings.TrimSuffix(strings.TrimPrefix(rel, "components/"), ".html")
		return KindComponent, name
	case strings.HasPrefix(rel, "pages/") && strings.HasSuffix(rel, ".html"):
		return KindPage, pagePath(strings.TrimSuffix(strings.TrimPrefix(rel, "pages/"), ".html"))
	case strings.HasPrefix(rel, "assets/"):
		return KindAsset, "/" + rel
	}
	return KindIgnored, ""
}

// pagePath routes a page source path: `index` maps to the directory
// itself, so `pages/index.html` serves `/` and `pages/blog/index.html`
// serves `/blog`.
func pagePath(rel string) string {
	if rel == "index" {
		return "/"
	}
	return "/" + strings.TrimSuffix(rel, "/index")
}

// ScanAll walks the source tree and registers everything it finds,
// components first so stylesheet ordering stays stable.
func (s *SourceScanner) ScanAll(ctx context.Context) error {
	var paths []string
	err := filepath.WalkDir(s.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Components sort before pages and both before project sources, which
	// matches the kind ordering.
	sort.SliceStable(paths, func(i, j int) bool {
		ki, _ := s.Classify(paths[i])
		kj, _ := s.Classify(paths[j])
		return ki < kj
	})
	for _, path := range paths {
		if err := s.Apply(ctx, path, false); err != nil {
			return err
		}
	}
	return nil
}

// Apply registers, updates, or removes the project entry for one source
// file. Paths outside the known layout are ignored.
func (s *SourceScanner) Apply(ctx context.Context, path string, removed bool) error {
	kind, id := s.Classify(path)
	if kind == KindIgnored {
		return nil
	}
	if removed {
		return s.remove(ctx, kind, id)
	}
	switch kind {
	case KindAsset:
		if s.project.HasAsset(id) {
			return nil
		}
		s.logger.Debug(ctx, "Registering asset", "path", id)
		return s.project.AddAsset(id)
	case KindCSS:
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		s.project.SetCSS(string(content))
		return nil
	case KindJS:
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		s.project.SetJS(string(content))
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	html := string(content)
	if kind == KindComponent {
		if s.project.HasComponent(id) {
			s.logger.Debug(ctx, "Updating component", "name", id)
			return s.project.UpdateComponent(id, html)
		}
		s.logger.Debug(ctx, "Registering component", "name", id)
		return s.project.AddComponent(id, html)
	}
	if s.project.HasPage(id) {
		s.logger.Debug(ctx, "Updating page", "path", id)
		return s.project.UpdatePage(id, html)
	}
	s.logger.Debug(ctx, "Registering page", "path", id)
	return s.project.AddPage(id, html)
}

func (s *SourceScanner) remove(ctx context.Context, kind FileKind, id string) error {
	switch kind {
	case KindComponent:
		if !s.project.HasComponent(id) {
			return nil
		}
		s.logger.Debug(ctx, "Removing component", "name", id)
		return s.project.RemoveComponent(id)
	case KindPage:
		if !s.project.HasPage(id) {
			return nil
		}
		s.logger.Debug(ctx, "Removing page", "path", id)
		return s.project.RemovePage(id)
	case KindAsset:
		if !s.project.HasAsset(id) {
			return nil
		}
		s.logger.Debug(ctx, "Removing asset", "path", id)
		return s.project.RemoveAsset(id)
	case KindCSS:
		s.project.SetCSS("")
	case KindJS:
		s.project.SetJS("")
	}
	return nil
}
