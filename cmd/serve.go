package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frontsail/frontsail-sub000/internal/server"
	"github.com/frontsail/frontsail-sub000/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server with live reload",
	Long: `Start the development server. Pages are rendered on request, the
stylesheet and script bundle are rebuilt on demand, and connected
browsers reload automatically when source files change.

Examples:
  frontsail serve                 # Serve on the configured host and port
  frontsail serve --port 3000     # Serve on a specific port`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on")
	serveCmd.Flags().String("host", "", "Host to bind to")
	addFlagValidation(serveCmd.Flags(), "port", validatePort)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}

	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proj, sourceScanner, err := loadProject(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, proj, logger)

	fileWatcher, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			if err := sourceScanner.Apply(ctx, event.Path, event.Removed()); err != nil {
				logger.Warn(ctx, err, "Failed to apply file change", "path", event.Path)
			}
		}
		srv.NotifyReload("")
		return nil
	})
	if err := fileWatcher.AddRecursive(cfg.Build.SourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory: %w", err)
	}
	fileWatcher.Start(ctx)

	return srv.Start(ctx)
}
