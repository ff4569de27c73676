// Package drizzle emits Drizzle ORM (TypeScript) table definitions for
// PostgreSQL data models.
package drizzle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dasolve/dmddl/generator"
	"github.com/dasolve/dmddl/schema"
	"github.com/dasolve/dmddl/utils"
)

const (
	TargetName = "drizzle"
	Language   = "typescript"
)

func init() {
	generator.Register(TargetName, Language, schema.DefaultDialect, generator.EmitterFunc(
		func(m *schema.DataModel, _ generator.Options) (string, error) {
			return Emit(m)
		}))
}

// importSet keeps imported names in first-use order.
type importSet struct {
	names []string
	seen  map[string]bool
}

func newImportSet(names ...string) *importSet {
	s := &importSet{seen: map[string]bool{}}
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s *importSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

func (s *importSet) statement(module string) string {
	if len(s.names) == 0 {
		return ""
	}
	return fmt.Sprintf("import { %s } from %q;\n", strings.Join(s.names, ", "), module)
}

type emitter struct {
	ormImports  *importSet
	coreImports *importSet
}

// Emit renders a Drizzle schema module. It fails when a column carries a
// default or generated expression Drizzle cannot express for its type.
func Emit(m *schema.DataModel) (string, error) {
	if m.Version != schema.DefaultVersion {
		return "", fmt.Errorf("unsupported data model version: %s", m.Version)
	}

	e := &emitter{
		ormImports:  newImportSet(),
		coreImports: newImportSet("pgSchema"),
	}

	tables := make([]string, 0, len(m.Tables))
	for _, t := range m.Tables {
		def, err := e.table(m.Name, t)
		if err != nil {
			return "", fmt.Errorf("table %s: %w", t.Name, err)
		}
		tables = append(tables, def)
	}

	parts := []string{
		e.ormImports.statement("drizzle-orm"),
		e.coreImports.statement("drizzle-orm/pg-core"),
		tsdoc(m.Description),
		fmt.Sprintf("const %s = pgSchema(%q);\n", utils.SnakeToCamel(m.Name), m.Name),
	}
	parts = append(parts, tables...)

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n"), nil
}

func tsdoc(description string) string {
	if description == "" {
		return ""
	}
	return "/** " + description + " */"
}

func (e *emitter) table(schemaName string, t schema.Table) (string, error) {
	var b strings.Builder
	if doc := tsdoc(t.Description); doc != "" {
		b.WriteString(doc + "\n")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		chain, err := e.column(c)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name, err)
		}
		entry := c.Name + ": " + chain
		if doc := tsdoc(c.Description); doc != "" {
			entry = doc + "\n  " + entry
		}
		cols = append(cols, entry)
	}

	fmt.Fprintf(&b, "export const %s = %s.table(%q, {", utils.SnakeToCamel(t.Name), utils.SnakeToCamel(schemaName), t.Name)
	if len(cols) > 0 {
		b.WriteString("\n  " + strings.Join(cols, ",\n  ") + "\n")
	}
	b.WriteString("});\n")
	return b.String(), nil
}

func (e *emitter) column(c schema.Column) (string, error) {
	e.coreImports.add(c.Type.Name)

	var b strings.Builder
	b.WriteString(c.Type.Name + "(" + strconv.Quote(c.Name))
	if opts := printOptions(c.Kind, c.Type.Options); opts != "" {
		b.WriteString(", " + opts)
	}
	b.WriteString(")")

	if c.PrimaryKey {
		b.WriteString(".primaryKey()")
	}
	if c.Default != nil {
		def, err := defaultValue(c)
		if err != nil {
			return "", err
		}
		b.WriteString(def)
	}
	if !c.Nullable && !c.PrimaryKey {
		b.WriteString(".notNull()")
	}
	if c.Unique {
		b.WriteString(".unique()")
	}
	if c.ForeignKey != nil {
		fmt.Fprintf(&b, ".references(() => %s.%s)", utils.SnakeToCamel(c.ForeignKey.Table), c.ForeignKey.Column)
	}
	if c.GeneratedAlwaysAs != "" {
		gen, err := e.generated(c)
		if err != nil {
			return "", err
		}
		b.WriteString(gen)
	}
	return b.String(), nil
}

// printOptions renders type options as a TypeScript object literal using
// the option names of drizzle-orm/pg-core.
func printOptions(kind schema.ColumnKind, o schema.TypeOptions) string {
	var props []string
	if o.Precision != nil {
		props = append(props, fmt.Sprintf("precision: %d", *o.Precision))
	}
	if o.Scale != nil {
		props = append(props, fmt.Sprintf("scale: %d", *o.Scale))
	}
	if o.WithTimeZone != nil {
		props = append(props, fmt.Sprintf("withTimezone: %t", *o.WithTimeZone))
	} else if kind == schema.KindTimestamp {
		props = append(props, "withTimezone: true")
	}
	if len(props) == 0 {
		return ""
	}
	return "{ " + strings.Join(props, ", ") + " }"
}

func defaultValue(c schema.Column) (string, error) {
	d := c.Default
	switch c.Kind {
	case schema.KindUUID:
		if d.Kind == schema.DefaultGenRandomUUID {
			return ".defaultRandom()", nil
		}
	case schema.KindTimestamp, schema.KindDate:
		if d.Kind == schema.DefaultNow || d.Kind == schema.DefaultCurrentDate {
			return ".defaultNow()", nil
		}
	case schema.KindInteger, schema.KindNumeric:
		switch v := d.Value.(type) {
		case int64:
			return fmt.Sprintf(".default(%d)", v), nil
		case float64:
			return fmt.Sprintf(".default(%s)", strconv.FormatFloat(v, 'f', -1, 64)), nil
		case string:
			if c.Kind == schema.KindNumeric {
				return ".default(" + strconv.Quote(v) + ")", nil
			}
		}
		return "", fmt.Errorf("invalid default value for numeric/integer column: %v, expected a number", d.Value)
	case schema.KindText:
		if s, ok := d.Value.(string); ok {
			return ".default(" + strconv.Quote(s) + ")", nil
		}
		return "", fmt.Errorf("invalid default value for text column: %v, expected a string", d.Value)
	case schema.KindOther:
		return "", fmt.Errorf("invalid type for default value: %s", c.Type.Name)
	}
	return "", fmt.Errorf("invalid default value for %s column: %v", c.Kind, d.Value)
}

func (e *emitter) generated(c schema.Column) (string, error) {
	if c.GeneratedAlwaysAs == "identity" {
		if c.Kind == schema.KindInteger {
			return ".generatedAlwaysAsIdentity()", nil
		}
		return "", fmt.Errorf("invalid generated always as value for %s column: identity", c.Kind)
	}
	e.ormImports.add("sql")
	return ".generatedAlwaysAs(sql`" + c.GeneratedAlwaysAs + "`)", nil
}
