package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dasolve/dmddl/diff"
	"github.com/dasolve/dmddl/generator/ddl"
	"github.com/dasolve/dmddl/loader"
)

func newDiffCmd() *cobra.Command {
	var (
		visual bool
		sql    bool
	)

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show differences between two versions of a data model",
		Long: `Show the table and column changes that turn one data model into another.

Examples:
  dmddl diff v1.yml v2.yml           # Numbered list of changes
  dmddl diff v1.yml v2.yml --visual  # Changes grouped by table
  dmddl diff v1.yml v2.yml --sql     # PostgreSQL migration statements`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := loader.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			new, err := loader.LoadFile(args[1])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[1], err)
			}

			ops := diff.Models(old, new)
			out := cmd.OutOrStdout()
			switch {
			case sql:
				if len(ops) > 0 {
					fmt.Fprintln(out, strings.Join(ddl.Migration(new.Name, ops), "\n"))
				}
			case len(ops) == 0:
				fmt.Fprintln(out, color.GreenString("✅ No differences found"))
			case visual:
				showVisualDiff(out, ops)
			default:
				showTextDiff(out, ops)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&visual, "visual", false, "Group changes by table")
	cmd.Flags().BoolVar(&sql, "sql", false, "Print PostgreSQL migration statements")
	return cmd
}

func showTextDiff(w io.Writer, ops []diff.Operation) {
	fmt.Fprintf(w, "📋 Found %d change(s):\n\n", len(ops))
	for i, op := range ops {
		fmt.Fprintf(w, "%d. %s\n", i+1, opColor(op.Type).Sprint(op.String()))
	}
}

func showVisualDiff(w io.Writer, ops []diff.Operation) {
	fmt.Fprintln(w, "🌳 Data Model Changes")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	var tables []string
	byTable := map[string][]diff.Operation{}
	for _, op := range ops {
		if _, seen := byTable[op.TableName]; !seen {
			tables = append(tables, op.TableName)
		}
		byTable[op.TableName] = append(byTable[op.TableName], op)
	}

	for _, table := range tables {
		tableOps := byTable[table]
		switch tableOps[0].Type {
		case diff.CreateTable:
			opColor(diff.CreateTable).Fprintf(w, "\n➕ %s (new)\n", table)
			for _, c := range tableOps[0].Table.Columns {
				fmt.Fprintf(w, "  • %s %s\n", c.Name, c.Type.Name)
			}
			continue
		case diff.DropTable:
			opColor(diff.DropTable).Fprintf(w, "\n❌ %s (dropped)\n", table)
			continue
		}

		opColor(diff.ModifyColumn).Fprintf(w, "\n⚡ %s\n", table)
		for _, op := range tableOps {
			fmt.Fprintf(w, "  %s %s\n", opSymbol(op.Type), opColor(op.Type).Sprint(op.String()))
		}
	}
}

func opColor(t diff.OperationType) *color.Color {
	switch t {
	case diff.CreateTable, diff.AddColumn, diff.AddForeignKey:
		return color.New(color.FgGreen, color.Bold)
	case diff.DropTable, diff.DropColumn, diff.DropForeignKey:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func opSymbol(t diff.OperationType) string {
	switch t {
	case diff.AddColumn, diff.AddForeignKey:
		return "+"
	case diff.DropColumn, diff.DropForeignKey:
		return "-"
	default:
		return "~"
	}
}
