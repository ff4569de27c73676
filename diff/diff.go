// Package diff compares two versions of a data model.
package diff

import (
	"fmt"
	"reflect"

	"github.com/dasolve/dmddl/schema"
)

type OperationType string

const (
	CreateTable    OperationType = "CREATE_TABLE"
	DropTable      OperationType = "DROP_TABLE"
	AddColumn      OperationType = "ADD_COLUMN"
	DropColumn     OperationType = "DROP_COLUMN"
	ModifyColumn   OperationType = "MODIFY_COLUMN"
	AddForeignKey  OperationType = "ADD_FOREIGN_KEY"
	DropForeignKey OperationType = "DROP_FOREIGN_KEY"
)

type Operation struct {
	Type      OperationType
	TableName string
	Table     *schema.Table  // for CREATE_TABLE, DROP_TABLE
	Column    *schema.Column // for ADD_COLUMN, MODIFY_COLUMN, ADD_FOREIGN_KEY
	OldColumn *schema.Column // for DROP_COLUMN, MODIFY_COLUMN, DROP_FOREIGN_KEY
}

func (op Operation) String() string {
	switch op.Type {
	case CreateTable:
		return fmt.Sprintf("CREATE TABLE %s", op.TableName)
	case DropTable:
		return fmt.Sprintf("DROP TABLE %s", op.TableName)
	case AddColumn:
		return fmt.Sprintf("ADD COLUMN %s.%s (%s)", op.TableName, op.Column.Name, op.Column.Type.Name)
	case DropColumn:
		return fmt.Sprintf("DROP COLUMN %s.%s", op.TableName, op.OldColumn.Name)
	case ModifyColumn:
		return fmt.Sprintf("MODIFY COLUMN %s.%s", op.TableName, op.Column.Name)
	case AddForeignKey:
		fk := op.Column.ForeignKey
		return fmt.Sprintf("ADD FOREIGN KEY %s.%s → %s.%s", op.TableName, op.Column.Name, fk.Table, fk.Column)
	case DropForeignKey:
		return fmt.Sprintf("DROP FOREIGN KEY %s.%s", op.TableName, op.OldColumn.Name)
	}
	return string(op.Type)
}

// Models returns the operations that turn old into new, in an order a
// database accepts them: foreign key drops, table drops (referencing tables
// first), table creations, column changes per table, then foreign key
// additions. Tables and columns are matched by name and follow the order of
// new.
func Models(old, new *schema.DataModel) []Operation {
	oldTables := map[string]schema.Table{}
	for _, t := range old.Tables {
		oldTables[t.Name] = t
	}
	keep := map[string]bool{}

	var dropFKs, creates, changes, addFKs []Operation
	for _, table := range new.Tables {
		keep[table.Name] = true
		existing, exists := oldTables[table.Name]
		if !exists {
			t := table
			creates = append(creates, Operation{Type: CreateTable, TableName: table.Name, Table: &t})
			continue
		}
		cols := diffColumns(table.Name, existing.Columns, table.Columns)
		dropFKs = append(dropFKs, cols.dropFKs...)
		changes = append(changes, cols.changes...)
		addFKs = append(addFKs, cols.addFKs...)
	}

	ops := dropFKs
	for _, name := range dropOrder(old, keep) {
		t := oldTables[name]
		ops = append(ops, Operation{Type: DropTable, TableName: name, Table: &t})
	}
	ops = append(ops, creates...)
	ops = append(ops, changes...)
	return append(ops, addFKs...)
}

// dropOrder lists the tables of old missing from keep so that a table comes
// after every dropped table referencing it.
func dropOrder(old *schema.DataModel, keep map[string]bool) []string {
	var dropped []string
	referrers := map[string][]string{}
	for _, t := range old.Tables {
		if keep[t.Name] {
			continue
		}
		dropped = append(dropped, t.Name)
		for _, c := range t.Columns {
			if c.ForeignKey != nil && c.ForeignKey.Table != t.Name {
				referrers[c.ForeignKey.Table] = append(referrers[c.ForeignKey.Table], t.Name)
			}
		}
	}

	var order []string
	seen := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		for _, r := range referrers[name] {
			visit(r)
		}
		order = append(order, name)
	}
	for _, name := range dropped {
		visit(name)
	}
	return order
}

type columnOps struct {
	dropFKs, changes, addFKs []Operation
}

func diffColumns(table string, oldCols, newCols []schema.Column) columnOps {
	var ops columnOps

	existing := map[string]schema.Column{}
	for _, c := range oldCols {
		existing[c.Name] = c
	}
	wanted := map[string]bool{}

	for _, col := range newCols {
		col := col
		wanted[col.Name] = true

		prev, exists := existing[col.Name]
		if !exists {
			ops.changes = append(ops.changes, Operation{Type: AddColumn, TableName: table, Column: &col})
			continue
		}

		fkChanged := !reflect.DeepEqual(prev.ForeignKey, col.ForeignKey)
		if fkChanged && prev.ForeignKey != nil {
			ops.dropFKs = append(ops.dropFKs, Operation{Type: DropForeignKey, TableName: table, OldColumn: &prev})
		}
		if !sameDefinition(prev, col) {
			ops.changes = append(ops.changes, Operation{Type: ModifyColumn, TableName: table, Column: &col, OldColumn: &prev})
		}
		if fkChanged && col.ForeignKey != nil {
			ops.addFKs = append(ops.addFKs, Operation{Type: AddForeignKey, TableName: table, Column: &col})
		}
	}

	for _, col := range oldCols {
		col := col
		if !wanted[col.Name] {
			ops.changes = append(ops.changes, Operation{Type: DropColumn, TableName: table, OldColumn: &col})
		}
	}
	return ops
}

// sameDefinition compares everything but the foreign key and description.
func sameDefinition(a, b schema.Column) bool {
	a.ForeignKey, b.ForeignKey = nil, nil
	a.Description, b.Description = "", ""
	return reflect.DeepEqual(a, b)
}
