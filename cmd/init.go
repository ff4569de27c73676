package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/config"
	"github.com/dasolve/dmddl/schema"
)

const starterModel = `# yaml-language-server: $schema=./data-model-v1.schema.json
version: "1"
name: blog
dialect: postgres
description: Example data model with users and posts
tables:
  - name: users
    description: Registered users
    columns:
      - name: id
        type: uuid
        default: gen_random_uuid()
        primary_key: true
      - name: email
        type: text
        unique: true
      - name: display_name
        type: text
        nullable: true
        description: Public name
      - name: created_at
        type:
          name: timestamp
          options:
            withTimeZone: true
        default: now()

  - name: posts
    columns:
      - name: id
        type: integer
        primary_key: true
        generated_always_as: identity
      - name: title
        type: text
      - name: status
        type: text
        default: draft
      - name: author_id
        type: uuid
        foreign_key:
          table: users
          column: id
      - name: price
        type:
          name: numeric
          options:
            precision: 10
            scale: 2
        default: 0
      - name: published_on
        type: date
        nullable: true
        default: CURRENT_DATE()

# Default value rules:
# - uuid:      only gen_random_uuid()
# - date:      only CURRENT_DATE()
# - timestamp: only now()
# - integer:   integer literal
# - numeric:   number or string literal
# - text:      string literal
`

const starterConfig = `# dmddl settings; flags and DMDDL_* environment variables override these.
target: sqlmodel
dialect: postgres
highlight: auto
style: monokai
explicit_table_names: false
`

func newInitCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter data model and config file",
		Long: `Create a starter data model (schema.yml), its JSON schema for editor
support and a ` + config.DefaultFile + ` config file.

Examples:
  dmddl init                # Initialize in the current directory
  dmddl init --dir models   # Initialize in ./models
  dmddl init --force        # Overwrite existing files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}

			files := []struct {
				name    string
				content string
			}{
				{"schema.yml", starterModel},
				{"data-model-v1.schema.json", string(schema.JSONSchema())},
				{config.DefaultFile, starterConfig},
			}

			if !force {
				for _, f := range files {
					path := filepath.Join(dir, f.name)
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					} else if !errors.Is(err, fs.ErrNotExist) {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				path := filepath.Join(dir, f.name)
				if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Fprintln(out, color.GreenString("✅ Created %s", path))
			}
			fmt.Fprintf(out, "📝 Edit %s to define your data model\n", filepath.Join(dir, "schema.yml"))
			fmt.Fprintf(out, "🚀 Run 'dmddl generate %s' to generate code\n", filepath.Join(dir, "schema.yml"))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create the files in")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}
