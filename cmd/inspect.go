package cmd

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/loader"
)

func newInspectCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Dump the parsed data model",
		Long: `Load a YAML data model and dump the resulting Go structures, with
defaults applied and every column resolved to its variant. Useful when a
generated field does not look the way the YAML suggests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			cfg := spew.ConfigState{
				Indent:                  "  ",
				MaxDepth:                depth,
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}
			cfg.Fdump(cmd.OutOrStdout(), m)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "Maximum nesting depth to dump (0 for unlimited)")
	return cmd
}
