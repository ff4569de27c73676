package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/schema"
)

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the data model format",
		Long: `Print the draft-07 JSON schema describing version 1 of the YAML data
model format. Point your editor's YAML language server at it for
completion and inline validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				return generator.WriteFile(output, string(schema.JSONSchema()))
			}
			_, err := cmd.OutOrStdout().Write(schema.JSONSchema())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: print to stdout)")
	return cmd
}
