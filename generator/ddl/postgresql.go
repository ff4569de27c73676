// Package ddl emits PostgreSQL CREATE statements for data models.
package ddl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/schema"
)

const (
	TargetName = "ddl"
	Language   = "postgresql"
)

func init() {
	generator.Register(TargetName, Language, schema.DefaultDialect, generator.EmitterFunc(
		func(m *schema.DataModel, _ generator.Options) (string, error) {
			return Emit(m), nil
		}))
}

// Emit renders every statement of the model separated by blank lines.
func Emit(m *schema.DataModel) string {
	return strings.Join(Statements(m), "\n\n") + "\n"
}

// Statements converts a data model into raw SQL statements: the schema,
// one CREATE TABLE per table in input order, foreign keys to tables created
// later in the script, then the comments.
func Statements(m *schema.DataModel) []string {
	schemaName := pgx.Identifier{m.Name}.Sanitize()
	stmts := []string{fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", schemaName)}

	pending := map[string]bool{}
	for _, t := range m.Tables {
		pending[t.Name] = true
	}
	var deferred []string
	for _, t := range m.Tables {
		delete(pending, t.Name)
		stmt, fks := createTable(m.Name, t, pending)
		stmts = append(stmts, stmt)
		deferred = append(deferred, fks...)
	}
	stmts = append(stmts, deferred...)

	if m.Description != "" {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON SCHEMA %s IS %s;", schemaName, quoteLiteral(m.Description)))
	}
	for _, t := range m.Tables {
		table := pgx.Identifier{m.Name, t.Name}.Sanitize()
		if t.Description != "" {
			stmts = append(stmts, fmt.Sprintf("COMMENT ON TABLE %s IS %s;", table, quoteLiteral(t.Description)))
		}
		for _, c := range t.Columns {
			if c.Description == "" {
				continue
			}
			col := pgx.Identifier{m.Name, t.Name, c.Name}.Sanitize()
			stmts = append(stmts, fmt.Sprintf("COMMENT ON COLUMN %s IS %s;", col, quoteLiteral(c.Description)))
		}
	}
	return stmts
}

// createTable renders t. References to tables in pending are left out of
// the column definitions and returned as ALTER TABLE statements to run once
// those tables exist.
func createTable(schemaName string, t schema.Table, pending map[string]bool) (string, []string) {
	stmt := fmt.Sprintf("CREATE TABLE %s (", pgx.Identifier{schemaName, t.Name}.Sanitize())
	if len(t.Columns) == 0 {
		return stmt + ");", nil
	}

	var deferred []string
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.ForeignKey != nil && pending[c.ForeignKey.Table] {
			deferred = append(deferred, addForeignKey(schemaName, t.Name, c))
			c.ForeignKey = nil
		}
		defs = append(defs, "  "+columnDefinition(schemaName, c))
	}
	return stmt + "\n" + strings.Join(defs, ",\n") + "\n);", deferred
}

func addForeignKey(schemaName, table string, c schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
		pgx.Identifier{schemaName, table}.Sanitize(),
		constraintName(table, c.Name, "fkey"),
		pgx.Identifier{c.Name}.Sanitize(),
		pgx.Identifier{schemaName, c.ForeignKey.Table}.Sanitize(),
		pgx.Identifier{c.ForeignKey.Column}.Sanitize())
}

func columnDefinition(schemaName string, c schema.Column) string {
	def := pgx.Identifier{c.Name}.Sanitize() + " " + MapType(c.Type)

	switch {
	case c.GeneratedAlwaysAs == "identity":
		def += " GENERATED ALWAYS AS IDENTITY"
	case c.GeneratedAlwaysAs != "":
		def += fmt.Sprintf(" GENERATED ALWAYS AS (%s) STORED", c.GeneratedAlwaysAs)
	}
	if c.PrimaryKey {
		def += " PRIMARY KEY"
	} else if !c.Nullable {
		def += " NOT NULL"
	}
	if c.Default != nil {
		def += " DEFAULT " + defaultExpr(c)
	}
	if c.Unique {
		def += " UNIQUE"
	}
	if c.ForeignKey != nil {
		def += fmt.Sprintf(" REFERENCES %s (%s)",
			pgx.Identifier{schemaName, c.ForeignKey.Table}.Sanitize(),
			pgx.Identifier{c.ForeignKey.Column}.Sanitize())
	}
	return def
}

// MapType returns the PostgreSQL column type for a DSL type. Unknown type
// names are passed through unchanged.
func MapType(t schema.ColumnType) string {
	switch schema.KindOf(t.Name) {
	case schema.KindNumeric:
		o := t.Options
		switch {
		case o.Precision != nil && o.Scale != nil:
			return fmt.Sprintf("numeric(%d, %d)", *o.Precision, *o.Scale)
		case o.Precision != nil:
			return fmt.Sprintf("numeric(%d)", *o.Precision)
		}
		return "numeric"
	case schema.KindTimestamp:
		if t.Options.TimeZone() {
			return "timestamp with time zone"
		}
		return "timestamp"
	default:
		return t.Name
	}
}

func defaultExpr(c schema.Column) string {
	d := c.Default
	if c.Kind != schema.KindText {
		switch d.Kind {
		case schema.DefaultGenRandomUUID, schema.DefaultNow:
			return d.Kind.String()
		case schema.DefaultCurrentDate:
			return "CURRENT_DATE"
		}
	}

	switch v := d.Value.(type) {
	case string:
		return quoteLiteral(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return quoteLiteral(fmt.Sprint(v))
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
