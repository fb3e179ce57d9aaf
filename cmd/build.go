package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frontsail/frontsail-sub000/internal/config"
	"github.com/frontsail/frontsail-sub000/internal/logging"
	"github.com/frontsail/frontsail-sub000/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the project to static files",
	Long: `Compile all pages into plain HTML files, build the stylesheet and
script bundle, and copy assets into the output directory.

Examples:
  frontsail build                 # Build to the configured output directory
  frontsail build --production    # Build with minified output
  frontsail build --output dist   # Build to a specific output directory
  frontsail build --clean         # Remove the output directory first`,
	RunE: runBuild,
}

var (
	buildOutput     string
	buildProduction bool
	buildClean      bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory")
	buildCmd.Flags().BoolVar(&buildProduction, "production", false, "Minify the compiled output")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before building")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	outputDir := cfg.Build.OutputDir
	if buildOutput != "" {
		outputDir = buildOutput
	}
	if buildProduction {
		cfg.Environment = string(project.EnvironmentProduction)
	}

	if buildClean {
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	ctx := cmd.Context()
	perf := logger.StartOperation("build")
	pages, problems, err := executeBuild(ctx, cfg, logger, outputDir)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	perf.End(ctx)

	elapsed := time.Since(startTime).Round(time.Millisecond)
	if problems > 0 {
		fmt.Printf("Built %d pages with %d problems in %s\n", pages, problems, elapsed)
	} else {
		fmt.Printf("Built %d pages in %s\n", pages, elapsed)
	}
	return nil
}

// executeBuild scans, renders, and writes the whole project, returning the
// page and diagnostic counts.
func executeBuild(ctx context.Context, cfg *config.Config, logger logging.Logger, outputDir string) (int, int, error) {
	proj, _, err := loadProject(ctx, cfg, logger)
	if err != nil {
		return 0, 0, err
	}

	problems := 0
	for _, path := range proj.ListPages() {
		result, err := proj.Render(path, nil)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to render page '%s': %w", path, err)
		}
		for _, diagnostic := range result.Diagnostics {
			problems++
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", path, diagnostic.TemplateID, diagnostic.Message)
		}
		if err := writePage(outputDir, path, result.HTML); err != nil {
			return 0, 0, err
		}
	}

	cssPath := filepath.Join(outputDir, "site.css")
	if err := writeFile(cssPath, proj.BuildStyles()); err != nil {
		return 0, 0, err
	}
	jsPath := filepath.Join(outputDir, "site.js")
	if err := writeFile(jsPath, proj.BuildScripts()); err != nil {
		return 0, 0, err
	}

	for _, asset := range proj.ListAssets() {
		source := filepath.Join(cfg.Build.SourceDir, filepath.FromSlash(strings.TrimPrefix(asset, "/")))
		target := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(asset, "/")))
		if err := copyFile(source, target); err != nil {
			return 0, 0, fmt.Errorf("failed to copy asset '%s': %w", asset, err)
		}
	}
	return len(proj.ListPages()), problems, nil
}

// writePage maps a page path onto the output file layout: the root page
// becomes index.html and every other page becomes <path>/index.html.
func writePage(outputDir, path, html string) error {
	target := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(path, "/")), "index.html")
	return writeFile(target, html)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
