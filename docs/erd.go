// Package docs renders entity-relationship diagrams of a data model.
package docs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dasolve/dmddl/schema"
)

// Format describes one diagram flavour and the file it is written to by
// default.
type Format struct {
	Name        string
	DefaultFile string
	Render      func(m *schema.DataModel) string
}

var formats = map[string]Format{
	"plantuml": {Name: "plantuml", DefaultFile: "erd.puml", Render: PlantUML},
	"mermaid":  {Name: "mermaid", DefaultFile: "erd.md", Render: Mermaid},
	"graphviz": {Name: "graphviz", DefaultFile: "erd.dot", Render: Graphviz},
}

// Lookup returns the format registered under name.
func Lookup(name string) (Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("unsupported format: %s (supported: %s)", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Formats lists the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func displayType(t schema.ColumnType) string {
	o := t.Options
	switch schema.KindOf(t.Name) {
	case schema.KindNumeric:
		if o.Precision != nil && o.Scale != nil {
			return fmt.Sprintf("NUMERIC(%d,%d)", *o.Precision, *o.Scale)
		}
	case schema.KindTimestamp:
		if o.TimeZone() {
			return "TIMESTAMPTZ"
		}
	}
	return strings.ToUpper(t.Name)
}

func defaultText(d *schema.Default) string {
	if s, ok := d.Value.(string); ok {
		return s
	}
	return fmt.Sprint(d.Value)
}

// PlantUML renders the model as a PlantUML entity diagram.
func PlantUML(m *schema.DataModel) string {
	var content strings.Builder

	content.WriteString("@startuml\n")
	content.WriteString("!theme plain\n")
	content.WriteString("skinparam linetype ortho\n\n")
	if m.Description != "" {
		content.WriteString(fmt.Sprintf("title %s\n\n", m.Description))
	}

	for _, t := range m.Tables {
		content.WriteString(fmt.Sprintf("entity \"%s\" {\n", t.Name))
		for _, c := range t.Columns {
			line := fmt.Sprintf("  %s : %s", c.Name, displayType(c.Type))
			if c.PrimaryKey {
				line += " <<PK>>"
			}
			if c.ForeignKey != nil {
				line += " <<FK>>"
			}
			if c.Unique {
				line += " <<UQ>>"
			}
			if !c.Nullable && !c.PrimaryKey {
				line += " <<NN>>"
			}
			if c.Default != nil {
				line += fmt.Sprintf(" <<DEFAULT: %s>>", defaultText(c.Default))
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("}\n\n")
	}

	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.ForeignKey != nil {
				content.WriteString(fmt.Sprintf("\"%s\" ||--o{ \"%s\" : \"%s\"\n", c.ForeignKey.Table, t.Name, c.Name))
			}
		}
	}

	content.WriteString("@enduml\n")
	return content.String()
}

// Mermaid renders the model as a Markdown document holding a Mermaid
// erDiagram block.
func Mermaid(m *schema.DataModel) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("# %s ERD\n\n", m.Name))
	if m.Description != "" {
		content.WriteString(m.Description + "\n\n")
	}
	content.WriteString("```mermaid\nerDiagram\n")

	for _, t := range m.Tables {
		content.WriteString(fmt.Sprintf("    %s {\n", t.Name))
		for _, c := range t.Columns {
			line := fmt.Sprintf("        %s %s", mermaidType(c.Type), c.Name)

			var keys []string
			if c.PrimaryKey {
				keys = append(keys, "PK")
			}
			if c.ForeignKey != nil {
				keys = append(keys, "FK")
			}
			if c.Unique {
				keys = append(keys, "UK")
			}
			if len(keys) > 0 {
				line += " " + strings.Join(keys, ",")
			}
			if c.Description != "" {
				line += fmt.Sprintf(" \"%s\"", strings.ReplaceAll(c.Description, `"`, "'"))
			}
			content.WriteString(line + "\n")
		}
		content.WriteString("    }\n")
	}

	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.ForeignKey == nil {
				continue
			}
			cardinality := "||--o{"
			if c.Nullable {
				cardinality = "|o--o{"
			}
			content.WriteString(fmt.Sprintf("    %s %s %s : %s\n", c.ForeignKey.Table, cardinality, t.Name, c.Name))
		}
	}

	content.WriteString("```\n")
	return content.String()
}

// mermaidType strips characters Mermaid does not accept in attribute types.
func mermaidType(t schema.ColumnType) string {
	r := strings.NewReplacer("(", "_", ")", "", ",", "_")
	return r.Replace(displayType(t))
}

// Graphviz renders the model as a DOT digraph with record-shaped nodes.
func Graphviz(m *schema.DataModel) string {
	var content strings.Builder

	content.WriteString("digraph ERD {\n")
	content.WriteString("  rankdir=LR;\n")
	content.WriteString("  node [shape=record];\n\n")

	for _, t := range m.Tables {
		content.WriteString(fmt.Sprintf("  %s [label=\"%s|", t.Name, t.Name))

		var columns []string
		for _, c := range t.Columns {
			line := fmt.Sprintf("%s: %s", c.Name, displayType(c.Type))
			if c.PrimaryKey {
				line += " (PK)"
			}
			if c.ForeignKey != nil {
				line += " (FK)"
			}
			if c.Unique {
				line += " (UQ)"
			}
			if !c.Nullable && !c.PrimaryKey {
				line += " (NN)"
			}
			columns = append(columns, line)
		}

		content.WriteString(strings.Join(columns, "\\l"))
		if len(columns) > 0 {
			content.WriteString("\\l")
		}
		content.WriteString("\"];\n")
	}

	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.ForeignKey != nil {
				content.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n", c.ForeignKey.Table, t.Name, c.Name))
			}
		}
	}

	content.WriteString("}\n")
	return content.String()
}
