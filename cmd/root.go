package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/config"
	"github.com/dasolve/dmddl/logger"

	// Register code emitters
	_ "github.com/dasolve/dmddl/generator/ddl"
	_ "github.com/dasolve/dmddl/generator/drizzle"
	_ "github.com/dasolve/dmddl/generator/sqlmodel"
)

// rootOptions holds the persistent flags and the configuration they
// resolve to. Subcommands read cfg after the persistent pre-run.
type rootOptions struct {
	configFile string
	verbose    bool
	noColor    bool

	cfg *config.Config
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(o.verbose || cfg.Verbose)
	if o.noColor {
		color.NoColor = true
	}
	if o.configFile != "" {
		logger.Debug("using config file %s", o.configFile)
	}
	return nil
}

// NewRootCmd builds the dmddl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	gen := &generateOptions{root: opts}

	rootCmd := &cobra.Command{
		Use:   "dmddl [input]",
		Short: "Generate ORM model code from a YAML data model",
		Long: `dmddl turns a declarative YAML data model (tables, typed columns,
foreign keys, defaults) into generated source code.

Examples:

  dmddl schema.yml
  dmddl generate schema.yml -o models.py
  dmddl generate schema.yml --target drizzle -o schema.ts
  dmddl validate schema.yml
  dmddl docs schema.yml --format mermaid
  dmddl diff old.yml new.yml --sql
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return gen.run(cmd, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default: "+config.DefaultFile+" when present)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug output to stderr")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	gen.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newInitCmd(),
		newGenerateCmd(opts),
		newValidateCmd(),
		newDocsCmd(),
		newDiffCmd(),
		newInspectCmd(),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("❌"), err)
		os.Exit(1)
	}
}
