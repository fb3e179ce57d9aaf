package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frontsail/frontsail-sub000/internal/project"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List components, pages, and assets",
	Long: `List all registered components, pages, and assets in the project.

Examples:
  frontsail list                  # List everything in table format
  frontsail list -f json          # Output as JSON
  frontsail list -d               # Include component dependencies`,
	RunE: runList,
}

var (
	listFormat   string
	listWithDeps bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
	listCmd.Flags().BoolVarP(&listWithDeps, "with-deps", "d", false, "Include included component names")
}

// listEntry is one row of the listing.
type listEntry struct {
	ID           string   `json:"id" yaml:"id"`
	Kind         string   `json:"kind" yaml:"kind"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if listFormat != "table" && listFormat != "json" && listFormat != "yaml" {
		return fmt.Errorf("unsupported format '%s' (expected table, json, or yaml)", listFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	proj, _, err := loadProject(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	entries := collectEntries(proj)

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(entries)
	default:
		return printTable(entries)
	}
}

func collectEntries(proj *project.Project) []listEntry {
	var entries []listEntry
	appendEntry := func(id, kind string) {
		entry := listEntry{ID: id, Kind: kind}
		if listWithDeps && kind != "asset" {
			if deps, err := proj.GetIncludedComponentNames(id, false); err == nil {
				entry.Dependencies = deps
			}
		}
		entries = append(entries, entry)
	}
	for _, name := range proj.ListComponents() {
		appendEntry(name, "component")
	}
	for _, path := range proj.ListPages() {
		appendEntry(path, "page")
	}
	for _, path := range proj.ListAssets() {
		appendEntry(path, "asset")
	}
	return entries
}

func printTable(entries []listEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if listWithDeps {
		fmt.Fprintln(w, "KIND\tID\tDEPENDENCIES")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Kind, entry.ID, strings.Join(entry.Dependencies, ", "))
		}
	} else {
		fmt.Fprintln(w, "KIND\tID")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\n", entry.Kind, entry.ID)
		}
	}
	return w.Flush()
}
