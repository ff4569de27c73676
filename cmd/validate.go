package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/loader"
	"github.com/dasolve/dmddl/validator"
)

func newValidateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Validate a YAML data model",
		Long: `Validate a YAML data model file.

The file is loaded with the same rules as generate, then linted:
- Table and column naming (identifier format and length, reserved keywords)
- Description length and column count limits
- Duplicate table and column names
- Tables without columns or without a primary key
- Unknown column types
- Foreign key references (existing table and column)

Lint findings never block generate. Structural errors fail both commands.

Examples:
  dmddl validate schema.yml
  dmddl validate schema.yml --format json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}

			m, err := loader.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("schema validation failed: %w", err)
			}

			report := validator.Lint(m)
			out := cmd.OutOrStdout()
			if format == "json" {
				err = outputJSON(out, report)
			} else {
				err = outputText(out, report)
			}
			if err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("schema validation failed with %d errors", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}

func outputJSON(w io.Writer, report *validator.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func printIssues(w io.Writer, heading string, issues []validator.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", heading, len(issues))
	for i, issue := range issues {
		fmt.Fprintf(w, "  %d. ", i+1)
		if issue.Table != "" {
			fmt.Fprintf(w, "[%s]", issue.Table)
		}
		if issue.Column != "" {
			fmt.Fprintf(w, ".%s", issue.Column)
		}
		fmt.Fprintf(w, ": %s\n", issue.Message)
	}
}

func outputText(w io.Writer, report *validator.Report) error {
	if report.Valid {
		fmt.Fprintln(w, color.GreenString("✅ Schema validation passed!"))
	} else {
		fmt.Fprintln(w, color.RedString("❌ Schema validation failed!"))
	}

	printIssues(w, "🔴 Errors", report.Errors)
	printIssues(w, "🟡 Warnings", report.Warnings)
	printIssues(w, "🔵 Info", report.Info)

	fmt.Fprintf(w, "\n📊 Summary:\n")
	fmt.Fprintf(w, "  • Errors: %d\n", len(report.Errors))
	fmt.Fprintf(w, "  • Warnings: %d\n", len(report.Warnings))
	fmt.Fprintf(w, "  • Info: %d\n", len(report.Info))

	if report.Valid {
		fmt.Fprintf(w, "\n🎉 Your data model is valid and ready for code generation!\n")
	} else {
		fmt.Fprintf(w, "\n💡 Fix the errors above before generating code.\n")
	}
	return nil
}
