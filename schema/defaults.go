package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expressions accepted in the DSL for generated defaults.
const (
	ExprGenRandomUUID = "gen_random_uuid()"
	ExprCurrentDate   = "CURRENT_DATE()"
	ExprNow           = "now()"
)

type DefaultKind int

const (
	DefaultLiteral DefaultKind = iota
	DefaultGenRandomUUID
	DefaultCurrentDate
	DefaultNow
)

func (k DefaultKind) String() string {
	switch k {
	case DefaultGenRandomUUID:
		return ExprGenRandomUUID
	case DefaultCurrentDate:
		return ExprCurrentDate
	case DefaultNow:
		return ExprNow
	default:
		return "literal"
	}
}

// Default is a column default. For DefaultLiteral, Value holds a string,
// int64 or float64; for the expression kinds Value is the expression text.
type Default struct {
	Kind  DefaultKind
	Value any
}

// ExpressionKind maps a DSL default expression to its kind. Any other string
// is a literal.
func ExpressionKind(s string) DefaultKind {
	switch s {
	case ExprGenRandomUUID:
		return DefaultGenRandomUUID
	case ExprCurrentDate:
		return DefaultCurrentDate
	case ExprNow:
		return DefaultNow
	}
	return DefaultLiteral
}

// restrictedDefaults lists the variants whose default may only be one
// expression.
var restrictedDefaults = map[ColumnKind]DefaultKind{
	KindUUID:      DefaultGenRandomUUID,
	KindDate:      DefaultCurrentDate,
	KindTimestamp: DefaultNow,
}

// RestrictedDefault returns the only default kind a variant accepts, if the
// variant is restricted.
func RestrictedDefault(k ColumnKind) (DefaultKind, bool) {
	d, ok := restrictedDefaults[k]
	return d, ok
}

// IsText reports whether the default is a textual literal.
func (d *Default) IsText() bool {
	_, ok := d.Value.(string)
	return d.Kind == DefaultLiteral && ok
}

// Literal renders a literal default the way a Python repr would: strings
// double-quoted, integers as-is and floats always with a fractional part.
func (d *Default) Literal() string {
	switch v := d.Value.(type) {
	case string:
		return `"` + escapeDoubleQuoted(v) + `"`
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatFloat(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}

// FormatFloat prints f with the shortest representation and keeps a ".0" on
// whole numbers so the value stays a float in the generated code.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	case math.IsNaN(f):
		return `float("nan")`
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func escapeDoubleQuoted(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(s)
}
