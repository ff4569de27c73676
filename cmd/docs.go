package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/docs"
	"github.com/dasolve/dmddl/loader"
	"github.com/dasolve/dmddl/logger"
)

func newDocsCmd() *cobra.Command {
	var (
		docsFormat string
		docsOutput string
	)

	cmd := &cobra.Command{
		Use:   "docs <input>",
		Short: "Generate ERD diagrams from a data model",
		Long: `Generate entity-relationship diagrams from a YAML data model.

Supported formats:
  - plantuml: PlantUML ERD diagram
  - mermaid: Mermaid ERD diagram
  - graphviz: Graphviz DOT format
  - all: every format, written into the --output directory

Without --output the diagram is printed to stdout.

Examples:
  dmddl docs schema.yml --format plantuml --output erd.puml
  dmddl docs schema.yml --format mermaid
  dmddl docs schema.yml --format all --output docs/
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loader.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("loading data model: %w", err)
			}

			if docsFormat == "all" {
				dir := docsOutput
				if dir == "" {
					dir = "."
				}
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
				for _, name := range docs.Formats() {
					f, _ := docs.Lookup(name)
					path := filepath.Join(dir, f.DefaultFile)
					if err := os.WriteFile(path, []byte(f.Render(m)), 0644); err != nil {
						return fmt.Errorf("writing %s file: %w", name, err)
					}
					logger.Debug("wrote %s diagram to %s", name, path)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✅ All documentation generated in: %s/", dir))
				return nil
			}

			f, err := docs.Lookup(docsFormat)
			if err != nil {
				return err
			}
			content := f.Render(m)
			if docsOutput == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			if err := os.WriteFile(docsOutput, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing %s file: %w", f.Name, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✅ %s ERD saved to: %s", f.Name, docsOutput))
			return nil
		},
	}

	cmd.Flags().StringVarP(&docsFormat, "format", "f", "mermaid", "Output format (plantuml, mermaid, graphviz, all)")
	cmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file, or directory for --format all")
	return cmd
}
