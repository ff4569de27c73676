package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/schema"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and available targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dmddl %s (data model version %s)\n", Version, schema.DefaultVersion)
			for _, name := range generator.Targets() {
				t, _ := generator.Lookup(name)
				fmt.Fprintf(out, "  %-10s %-12s %s\n", t.Name, t.Language, strings.Join(t.Dialects(), ", "))
			}
			return nil
		},
	}
}
