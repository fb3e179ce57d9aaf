package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report template diagnostics",
	Long: `Lint every component and page in the project and report their
diagnostics. Exits with a non-zero status when any problem is found.

Examples:
  frontsail lint                  # Report diagnostics in text format
  frontsail lint -f json          # Output as JSON
  frontsail lint -f yaml          # Output as YAML`,
	RunE: runLint,
}

var lintFormat string

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

// lintReport is the per-template entry of the structured output formats.
type lintReport struct {
	ID          string                   `json:"id" yaml:"id"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFormat != "text" && lintFormat != "json" && lintFormat != "yaml" {
		return fmt.Errorf("unsupported format '%s' (expected text, json, or yaml)", lintFormat)
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

	var reports []lintReport
	collect := func(id string, diags []diagnostics.Diagnostic, err error) error {
		if err != nil {
			return err
		}
		if len(diags) > 0 {
			reports = append(reports, lintReport{ID: id, Diagnostics: diags})
		}
		return nil
	}

	for _, name := range proj.ListComponents() {
		diags, err := proj.GetComponentDiagnostics(name)
		if err := collect(name, diags, err); err != nil {
			return err
		}
	}
	for _, path := range proj.ListPages() {
		diags, err := proj.GetPageDiagnostics(path)
		if err := collect(path, diags, err); err != nil {
			return err
		}
	}

	if err := printReports(reports); err != nil {
		return err
	}
	if len(reports) > 0 {
		os.Exit(1)
	}
	return nil
}

func printReports(reports []lintReport) error {
	switch lintFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(reports)
	default:
		if len(reports) == 0 {
			fmt.Println("No problems found")
			return nil
		}
		total := 0
		for _, report := range reports {
			for _, diagnostic := range report.Diagnostics {
				total++
				fmt.Printf("%s [%d:%d] %s\n", report.ID, diagnostic.From, diagnostic.To, diagnostic.Message)
			}
		}
		fmt.Printf("\n%d problems in %d templates\n", total, len(reports))
		return nil
	}
}
