// Package sqlmodel emits SQLModel (Python) classes for PostgreSQL data
// models.
package sqlmodel

import (
	"fmt"
	"strings"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/schema"
	"github.com/dasolve/dmddl/utils"
)

const (
	TargetName = "sqlmodel"
	Language   = "python"
)

func init() {
	generator.Register(TargetName, Language, schema.DefaultDialect, generator.EmitterFunc(
		func(m *schema.DataModel, opts generator.Options) (string, error) {
			return Emit(m, opts), nil
		}))
}

var header = []string{
	"import datetime",
	"import uuid",
	"from typing import List, Optional",
	"",
	"from sqlmodel import Field, Relationship, SQLModel",
	"from sqlalchemy import Column, String, Integer, Numeric, DateTime, Date, UUID",
	"from sqlalchemy.dialects.postgresql import UUID as PGUUID",
	"",
}

// defaultFactories maps generated defaults to the Python callables that
// produce them.
var defaultFactories = map[schema.DefaultKind]string{
	schema.DefaultGenRandomUUID: "uuid.uuid4",
	schema.DefaultNow:           "datetime.datetime.now",
	schema.DefaultCurrentDate:   "datetime.date.today",
}

// MapType returns the SQLAlchemy type expression for a DSL column type.
// Unknown type names are echoed back capitalized.
func MapType(t schema.ColumnType) string {
	switch schema.KindOf(t.Name) {
	case schema.KindUUID:
		return "UUID"
	case schema.KindInteger:
		return "Integer"
	case schema.KindNumeric:
		if t.Options.Precision != nil && t.Options.Scale != nil {
			return fmt.Sprintf("Numeric(precision=%d, scale=%d)", *t.Options.Precision, *t.Options.Scale)
		}
		return "Numeric"
	case schema.KindText:
		return "String"
	case schema.KindDate:
		return "Date"
	case schema.KindTimestamp:
		if t.Options.TimeZone() {
			return "DateTime(timezone=True)"
		}
		return "DateTime"
	default:
		return utils.Capitalize(t.Name)
	}
}

// Emit renders the whole module: imports, the model docstring and one
// class per table, in input order.
func Emit(m *schema.DataModel, opts generator.Options) string {
	lines := append([]string(nil), header...)

	if m.Description != "" {
		lines = append(lines, `"""`, m.Description, `"""`, "")
	}

	for _, t := range m.Tables {
		lines = append(lines, EmitClass(t, opts), "")
	}
	return strings.Join(lines, "\n")
}

// EmitClass renders the SQLModel class for one table.
func EmitClass(t schema.Table, opts generator.Options) string {
	className := utils.Capitalize(t.Name)
	lines := []string{fmt.Sprintf("class %s(SQLModel, table=True):", className)}
	if t.Description != "" {
		lines = append(lines, fmt.Sprintf(`    """%s"""`, t.Description))
	}

	if needsTableName(t.Name, className, opts) {
		lines = append(lines, fmt.Sprintf(`    __tablename__ = "%s"`, t.Name))
	}

	if len(t.Columns) == 0 {
		lines = append(lines, "    pass")
		return strings.Join(lines, "\n")
	}

	for _, c := range t.Columns {
		lines = append(lines, emitField(c))
	}
	return strings.Join(lines, "\n")
}

func needsTableName(table, className string, opts generator.Options) bool {
	if opts.ExplicitTableNames {
		return className != table
	}
	return strings.ToLower(table) != strings.ToLower(className)
}

func emitField(c schema.Column) string {
	field := fmt.Sprintf("    %s: %s", c.Name, MapType(c.Type))
	if args := FieldArgs(c); len(args) > 0 {
		field += fmt.Sprintf(" = Field(%s)", strings.Join(args, ", "))
	}
	if c.Description != "" {
		field += "  # " + c.Description
	}
	return field
}

// FieldArgs returns the Field(...) arguments of a column in their fixed
// order: primary key, nullable, default, unique, foreign key.
func FieldArgs(c schema.Column) []string {
	var args []string

	switch c.Kind {
	case schema.KindUUID, schema.KindInteger, schema.KindOther:
		if c.PrimaryKey {
			args = append(args, "primary_key=True")
		}
	case schema.KindNumeric, schema.KindText, schema.KindDate, schema.KindTimestamp:
	}

	if c.Nullable {
		args = append(args, "nullable=True")
	}

	if c.Default != nil {
		if factory, ok := defaultFactories[c.Default.Kind]; ok {
			args = append(args, "default_factory="+factory)
		} else {
			args = append(args, "default="+c.Default.Literal())
		}
	}

	if c.Unique {
		args = append(args, "unique=True")
	}

	if c.ForeignKey != nil && c.Kind.HasKeys() {
		args = append(args, fmt.Sprintf(`foreign_key="%s.%s"`, utils.Capitalize(c.ForeignKey.Table), c.ForeignKey.Column))
	}
	return args
}
