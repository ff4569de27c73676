package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/config"
	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/highlight"
	"github.com/dasolve/dmddl/loader"
	"github.com/dasolve/dmddl/logger"
	"github.com/dasolve/dmddl/validator"
)

type generateOptions struct {
	root *rootOptions

	output             string
	dialect            string
	target             string
	highlight          string
	style              string
	explicitTableNames bool
}

func (o *generateOptions) bindFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Output file (default: print to stdout)")
	f.StringVar(&o.dialect, "dialect", defaults.Dialect, "Database dialect; only postgres is supported")
	f.StringVarP(&o.target, "target", "t", defaults.Target, "Code target ("+strings.Join(generator.Targets(), ", ")+")")
	f.StringVar(&o.highlight, "highlight", defaults.Highlight, "Highlight stdout output (auto, always, never)")
	f.StringVar(&o.style, "style", defaults.Style, "Highlighting style")
	f.BoolVar(&o.explicitTableNames, "explicit-table-names", false, "Emit __tablename__ whenever the class name differs from the table name")
}

// settings merges explicitly set flags over the loaded configuration.
func (o *generateOptions) settings(cmd *cobra.Command) (config.Config, error) {
	cfg := *o.root.cfg
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output = o.output
	}
	if f.Changed("dialect") {
		cfg.Dialect = o.dialect
	}
	if f.Changed("target") {
		cfg.Target = o.target
	}
	if f.Changed("highlight") {
		cfg.Highlight = o.highlight
	}
	if f.Changed("style") {
		cfg.Style = o.style
	}
	if f.Changed("explicit-table-names") {
		cfg.ExplicitTableNames = o.explicitTableNames
	}
	return cfg, cfg.Validate()
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{root: root}
	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate model code from a YAML data model",
		Long: `Generate model code from a YAML data model file.

The default target emits SQLModel classes for Python. Other targets:
  - drizzle: Drizzle ORM table definitions (TypeScript)
  - ddl: PostgreSQL CREATE statements

Examples:
  dmddl generate schema.yml                  # Print SQLModel code
  dmddl generate schema.yml -o models.py     # Write to a file
  dmddl generate schema.yml -t drizzle       # Drizzle schema
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}
	opts.bindFlags(cmd)
	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command, input string) error {
	cfg, err := o.settings(cmd)
	if err != nil {
		return err
	}

	target, ok := generator.Lookup(cfg.Target)
	if !ok {
		return fmt.Errorf("%w: %q (available: %s)", generator.ErrUnknownTarget, cfg.Target, strings.Join(generator.Targets(), ", "))
	}
	if !target.Supports(cfg.Dialect) {
		return fmt.Errorf("%w: %s (available: %s)", generator.ErrUnsupportedDialect, cfg.Dialect, strings.Join(target.Dialects(), ", "))
	}

	logger.Debug("loading data model from %s", input)
	m, err := loader.LoadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded data model %q with %d tables", m.Name, len(m.Tables))

	// lint findings never stop generation
	for _, issue := range validator.Lint(m).Issues() {
		switch issue.Severity {
		case validator.SeverityError:
			logger.Error("%s", issue.Message)
		case validator.SeverityWarning:
			logger.Warn("%s", issue.Message)
		default:
			if logger.Verbose() {
				logger.Info("%s", issue.Message)
			}
		}
	}

	code, err := generator.Generate(m, target.Name, generator.Options{ExplicitTableNames: cfg.ExplicitTableNames})
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := generator.WriteFile(cfg.Output, code); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✅ %s code written to %s", target.Name, cfg.Output))
		return nil
	}
	return writeCode(cmd.OutOrStdout(), code, target.Language, cfg)
}

func writeCode(w io.Writer, code, language string, cfg config.Config) error {
	if highlight.Enabled(cfg.Highlight, w) {
		return highlight.Write(w, code+"\n", language, cfg.Style)
	}
	_, err := fmt.Fprintln(w, code)
	return err
}
