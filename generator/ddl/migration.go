package ddl

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dasolve/dmddl/diff"
	"github.com/dasolve/dmddl/schema"
)

// Migration renders the statements that apply ops, in the order of
// diff.Models, to the tables of schemaName. Constraint names follow the
// PostgreSQL defaults (<table>_<column>_key and <table>_<column>_fkey).
// References between tables created by the same migration are added after
// all of them exist.
func Migration(schemaName string, ops []diff.Operation) []string {
	pending := map[string]bool{}
	for _, op := range ops {
		if op.Type == diff.CreateTable {
			pending[op.TableName] = true
		}
	}

	var stmts, deferred []string
	for _, op := range ops {
		table := pgx.Identifier{schemaName, op.TableName}.Sanitize()
		alter := "ALTER TABLE " + table + " "

		switch op.Type {
		case diff.CreateTable:
			delete(pending, op.TableName)
			stmt, fks := createTable(schemaName, *op.Table, pending)
			stmts = append(stmts, stmt)
			deferred = append(deferred, fks...)
		case diff.DropTable:
			stmts = append(stmts, fmt.Sprintf("DROP TABLE %s;", table))
		case diff.AddColumn:
			stmts = append(stmts, alter+"ADD COLUMN "+columnDefinition(schemaName, *op.Column)+";")
		case diff.DropColumn:
			stmts = append(stmts, alter+"DROP COLUMN "+pgx.Identifier{op.OldColumn.Name}.Sanitize()+";")
		case diff.ModifyColumn:
			for _, action := range alterColumn(op.TableName, *op.OldColumn, *op.Column) {
				stmts = append(stmts, alter+action+";")
			}
		case diff.AddForeignKey:
			stmts = append(stmts, addForeignKey(schemaName, op.TableName, *op.Column))
		case diff.DropForeignKey:
			stmts = append(stmts, alter+"DROP CONSTRAINT "+constraintName(op.TableName, op.OldColumn.Name, "fkey")+";")
		}
	}
	return append(stmts, deferred...)
}

func alterColumn(table string, old, new schema.Column) []string {
	col := pgx.Identifier{new.Name}.Sanitize()
	column := "ALTER COLUMN " + col + " "
	var actions []string

	if MapType(old.Type) != MapType(new.Type) {
		actions = append(actions, fmt.Sprintf("%sTYPE %s USING %s::%s", column, MapType(new.Type), col, MapType(new.Type)))
	}
	if old.GeneratedAlwaysAs != new.GeneratedAlwaysAs {
		if old.GeneratedAlwaysAs == "identity" {
			actions = append(actions, column+"DROP IDENTITY IF EXISTS")
		} else if old.GeneratedAlwaysAs != "" {
			actions = append(actions, column+"DROP EXPRESSION IF EXISTS")
		}
		if new.GeneratedAlwaysAs == "identity" {
			actions = append(actions, column+"ADD GENERATED ALWAYS AS IDENTITY")
		}
	}
	if old.PrimaryKey != new.PrimaryKey {
		if new.PrimaryKey {
			actions = append(actions, fmt.Sprintf("ADD PRIMARY KEY (%s)", col))
		} else {
			actions = append(actions, "DROP CONSTRAINT "+constraintName(table, "", "pkey"))
		}
	}
	if notNull(old) != notNull(new) {
		if notNull(new) {
			actions = append(actions, column+"SET NOT NULL")
		} else {
			actions = append(actions, column+"DROP NOT NULL")
		}
	}
	oldDefault, newDefault := "", ""
	if old.Default != nil {
		oldDefault = defaultExpr(old)
	}
	if new.Default != nil {
		newDefault = defaultExpr(new)
	}
	if oldDefault != newDefault {
		if newDefault == "" {
			actions = append(actions, column+"DROP DEFAULT")
		} else {
			actions = append(actions, column+"SET DEFAULT "+newDefault)
		}
	}
	if old.Unique != new.Unique {
		name := constraintName(table, new.Name, "key")
		if new.Unique {
			actions = append(actions, fmt.Sprintf("ADD CONSTRAINT %s UNIQUE (%s)", name, col))
		} else {
			actions = append(actions, "DROP CONSTRAINT "+name)
		}
	}
	return actions
}

func notNull(c schema.Column) bool {
	return c.PrimaryKey || !c.Nullable
}

func constraintName(table, column, suffix string) string {
	name := table + "_"
	if column != "" {
		name += column + "_"
	}
	return pgx.Identifier{name + suffix}.Sanitize()
}
