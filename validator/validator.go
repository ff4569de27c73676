package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dasolve/dmddl/schema"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

const (
	minIdentifierLength = 2
	maxIdentifierLength = 59
	maxDescription      = 255
	maxColumns          = 1600
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var reservedKeywords = map[string]bool{
	"user": true, "order": true, "group": true, "table": true,
	"index": true, "view": true, "schema": true, "select": true,
}

// Issue is a single lint finding.
type Issue struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// Report contains all lint results. Valid is false when any error-level
// issue was found.
type Report struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Info     []Issue `json:"info"`
}

func (r *Report) add(i Issue) {
	switch i.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, i)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, i)
	default:
		r.Info = append(r.Info, i)
	}
}

// Issues returns every finding, errors first.
func (r *Report) Issues() []Issue {
	all := make([]Issue, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	return append(all, r.Info...)
}

// Lint checks a loaded data model for problems the loader accepts but a
// database would reject or a reader would not expect. It never modifies
// the model and generation does not depend on its outcome.
func Lint(m *schema.DataModel) *Report {
	report := &Report{
		Errors:   []Issue{},
		Warnings: []Issue{},
		Info:     []Issue{},
	}

	if err := validateIdentifier("data model", m.Name); err != nil {
		report.add(Issue{Type: "model_name", Message: err.Error(), Severity: SeverityError})
	}
	if err := validateDescription(m.Description); err != nil {
		report.add(Issue{Type: "description", Message: err.Error(), Severity: SeverityError})
	}

	tableNames := make(map[string]bool)
	for _, t := range m.Tables {
		if tableNames[t.Name] {
			report.add(Issue{
				Type:     "duplicate_table",
				Table:    t.Name,
				Message:  fmt.Sprintf("Duplicate table name '%s'", t.Name),
				Severity: SeverityError,
			})
			continue
		}
		tableNames[t.Name] = true
		validateTable(t, report)
	}

	validateCrossTableConstraints(m.Tables, report)

	report.Valid = len(report.Errors) == 0
	return report
}

func validateTable(t schema.Table, report *Report) {
	if err := validateIdentifier("table", t.Name); err != nil {
		report.add(Issue{Type: "table_name", Table: t.Name, Message: err.Error(), Severity: SeverityError})
	} else if reservedKeywords[strings.ToLower(t.Name)] {
		report.add(Issue{
			Type:     "reserved_keyword",
			Table:    t.Name,
			Message:  fmt.Sprintf("table name '%s' is a reserved keyword", t.Name),
			Severity: SeverityWarning,
		})
	}
	if err := validateDescription(t.Description); err != nil {
		report.add(Issue{Type: "description", Table: t.Name, Message: err.Error(), Severity: SeverityError})
	}

	if len(t.Columns) == 0 {
		report.add(Issue{
			Type:     "no_columns",
			Table:    t.Name,
			Message:  fmt.Sprintf("Table '%s' has no columns", t.Name),
			Severity: SeverityWarning,
		})
		return
	}
	if len(t.Columns) > maxColumns {
		report.add(Issue{
			Type:     "too_many_columns",
			Table:    t.Name,
			Message:  fmt.Sprintf("Table '%s' has %d columns (max %d)", t.Name, len(t.Columns), maxColumns),
			Severity: SeverityError,
		})
	}

	columnNames := make(map[string]bool)
	hasPrimaryKey := false

	for _, c := range t.Columns {
		if columnNames[c.Name] {
			report.add(Issue{
				Type:     "duplicate_column",
				Table:    t.Name,
				Column:   c.Name,
				Message:  fmt.Sprintf("Duplicate column name '%s' in table '%s'", c.Name, t.Name),
				Severity: SeverityError,
			})
			continue
		}
		columnNames[c.Name] = true

		if err := validateIdentifier("column", c.Name); err != nil {
			report.add(Issue{Type: "column_name", Table: t.Name, Column: c.Name, Message: err.Error(), Severity: SeverityError})
		}
		if err := validateDescription(c.Description); err != nil {
			report.add(Issue{Type: "description", Table: t.Name, Column: c.Name, Message: err.Error(), Severity: SeverityError})
		}

		if c.Kind == schema.KindOther {
			report.add(Issue{
				Type:     "data_type",
				Table:    t.Name,
				Column:   c.Name,
				Message:  fmt.Sprintf("unknown data type '%s' is passed through as is", c.Type.Name),
				Severity: SeverityWarning,
			})
		}

		if c.PrimaryKey {
			hasPrimaryKey = true
			if c.Nullable {
				report.add(Issue{
					Type:     "nullable_primary_key",
					Table:    t.Name,
					Column:   c.Name,
					Message:  fmt.Sprintf("primary key column '%s' is marked nullable", c.Name),
					Severity: SeverityWarning,
				})
			}
		}

		if c.Default != nil && c.GeneratedAlwaysAs != "" {
			report.add(Issue{
				Type:     "default_value",
				Table:    t.Name,
				Column:   c.Name,
				Message:  fmt.Sprintf("column '%s' has both a default and a generated expression", c.Name),
				Severity: SeverityError,
			})
		}

		if fk := c.ForeignKey; fk != nil && fk.Table == t.Name && fk.Column == c.Name {
			report.add(Issue{
				Type:     "foreign_key",
				Table:    t.Name,
				Column:   c.Name,
				Message:  "foreign key cannot reference itself",
				Severity: SeverityError,
			})
		}
	}

	if !hasPrimaryKey {
		report.add(Issue{
			Type:     "no_primary_key",
			Table:    t.Name,
			Message:  fmt.Sprintf("Table '%s' has no primary key defined", t.Name),
			Severity: SeverityWarning,
		})
	}
}

// validateIdentifier checks names against the DSL identifier rules.
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) < minIdentifierLength || len(name) > maxIdentifierLength {
		return fmt.Errorf("%s name '%s' must be between %d and %d characters", kind, name, minIdentifierLength, maxIdentifierLength)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%s name '%s' must start with a letter or underscore and contain only letters, digits and underscores", kind, name)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescription {
		return fmt.Errorf("description is too long (%d characters, max %d)", len(description), maxDescription)
	}
	return nil
}

// validateCrossTableConstraints checks that foreign keys point at existing
// tables and columns. Generation never resolves them, so these are warnings.
func validateCrossTableConstraints(tables []schema.Table, report *Report) {
	columnMap := make(map[string]map[string]schema.Column)
	for _, t := range tables {
		if _, seen := columnMap[t.Name]; seen {
			continue
		}
		columnMap[t.Name] = make(map[string]schema.Column)
		for _, c := range t.Columns {
			columnMap[t.Name][c.Name] = c
		}
	}

	for _, t := range tables {
		for _, c := range t.Columns {
			fk := c.ForeignKey
			if fk == nil {
				continue
			}

			columns, exists := columnMap[fk.Table]
			if !exists {
				report.add(Issue{
					Type:     "foreign_key_table_not_found",
					Table:    t.Name,
					Column:   c.Name,
					Message:  fmt.Sprintf("Foreign key references non-existent table '%s'", fk.Table),
					Severity: SeverityWarning,
				})
				continue
			}

			target, exists := columns[fk.Column]
			if !exists {
				report.add(Issue{
					Type:     "foreign_key_column_not_found",
					Table:    t.Name,
					Column:   c.Name,
					Message:  fmt.Sprintf("Foreign key references non-existent column '%s' in table '%s'", fk.Column, fk.Table),
					Severity: SeverityWarning,
				})
				continue
			}

			if target.Kind != c.Kind {
				report.add(Issue{
					Type:     "foreign_key_type_mismatch",
					Table:    t.Name,
					Column:   c.Name,
					Message:  fmt.Sprintf("Foreign key column type '%s' differs from referenced '%s.%s' type '%s'", c.Type.Name, fk.Table, fk.Column, target.Type.Name),
					Severity: SeverityInfo,
				})
			}
		}
	}
}
