// Package cmd provides the command-line interface of the frontsail
// compiler.
//
// Configuration is resolved from three sources with clear precedence:
//  1. Command-line flags (--config, --port, etc.) - highest priority
//  2. Environment variables following the FRONTSAIL_<SECTION>_<OPTION> pattern
//  3. The frontsail.yml configuration file - lowest priority
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frontsail/frontsail-sub000/internal/config"
	"github.com/frontsail/frontsail-sub000/internal/logging"
	"github.com/frontsail/frontsail-sub000/internal/project"
	"github.com/frontsail/frontsail-sub000/internal/scanner"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "frontsail",
	Short: "A compiler for component-based HTML templates",
	Long: `Frontsail compiles a source directory of component and page templates
into plain HTML, a single stylesheet, and a single script bundle.

Quick Start:
  frontsail build                 Compile the project to the output directory
  frontsail serve                 Start the development server with live reload
  frontsail lint                  Report template diagnostics
  frontsail list                  List components, pages, and assets`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is frontsail.yml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	addFlagValidation(rootCmd.PersistentFlags(), "log-level", validateLogLevel)
}

func newLogger() *logging.CompilerLogger {
	level := logging.LevelInfo
	switch logLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	return logging.NewLogger(cfg)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadProject builds a project from the configured source directory.
func loadProject(ctx context.Context, cfg *config.Config, logger logging.Logger) (*project.Project, *scanner.SourceScanner, error) {
	variables := make([]project.Variable, 0, len(cfg.ScssVariables))
	for _, variable := range cfg.ScssVariables {
		variables = append(variables, project.Variable{Name: variable.Name, Value: variable.Value})
	}

	proj, err := project.New(project.Options{
		Environment:   project.Environment(cfg.Environment),
		Globals:       cfg.Globals,
		ScssVariables: variables,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create project: %w", err)
	}

	sourceScanner := scanner.New(cfg.Build.SourceDir, proj, logger)
	if err := sourceScanner.ScanAll(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to scan source directory: %w", err)
	}
	return proj, sourceScanner, nil
}
