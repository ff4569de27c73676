package loader

import (
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/dasolve/dmddl/schema"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates the data model stored in filename.
func LoadFile(filename string) (*schema.DataModel, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML text and validates it as a data model.
func Parse(data []byte) (*schema.DataModel, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	m, ok := normalize(doc).(map[string]any)
	if !ok {
		return nil, &ValidationError{Errors: []FieldError{{
			Field:   "$",
			Value:   doc,
			Message: "data model must be a mapping",
		}}}
	}
	return ParseMap(m)
}

// ParseMap validates an already decoded document. Nested values may be any
// map or slice type, including those produced by YAML and JSON decoders;
// integral floats are accepted where integers are expected.
func ParseMap(doc map[string]any) (*schema.DataModel, error) {
	d := &decoder{}
	m := d.dataModel(normalize(doc).(map[string]any))
	if len(d.errs) > 0 {
		return nil, &ValidationError{Errors: d.errs}
	}
	return m, nil
}

type decoder struct {
	errs []FieldError
}

func (d *decoder) fail(field string, value any, format string, args ...any) {
	d.errs = append(d.errs, FieldError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

func (d *decoder) dataModel(doc map[string]any) *schema.DataModel {
	m := &schema.DataModel{
		Version: schema.DefaultVersion,
		Dialect: schema.DefaultDialect,
	}

	if v, ok := doc["version"]; ok && v != nil {
		switch ver := v.(type) {
		case string:
			m.Version = ver
		default:
			if n, ok := asInt(v); ok {
				m.Version = fmt.Sprint(n)
			} else {
				d.fail("version", v, "must be a string")
			}
		}
	}
	m.Name = d.requiredString(doc, "name", "name")
	if v, ok := doc["dialect"]; ok && v != nil {
		m.Dialect = d.optionalString(doc, "dialect", "dialect")
	}
	m.Description = d.optionalString(doc, "description", "description")

	tables, ok := d.list(doc, "tables", "tables")
	if !ok {
		return m
	}
	m.Tables = make([]schema.Table, 0, len(tables))
	for i, raw := range tables {
		path := fmt.Sprintf("tables[%d]", i)
		obj, ok := d.object(raw, path)
		if !ok {
			continue
		}
		m.Tables = append(m.Tables, d.table(obj, path))
	}
	return m
}

func (d *decoder) table(obj map[string]any, path string) schema.Table {
	t := schema.Table{
		Name:        d.requiredString(obj, "name", path+".name"),
		Description: d.optionalString(obj, "description", path+".description"),
	}
	columns, ok := d.list(obj, "columns", path+".columns")
	if !ok {
		return t
	}
	t.Columns = make([]schema.Column, 0, len(columns))
	for i, raw := range columns {
		cpath := fmt.Sprintf("%s.columns[%d]", path, i)
		cobj, ok := d.object(raw, cpath)
		if !ok {
			continue
		}
		t.Columns = append(t.Columns, d.column(cobj, cpath))
	}
	return t
}

func (d *decoder) column(obj map[string]any, path string) schema.Column {
	c := schema.Column{
		Name:              d.requiredString(obj, "name", path+".name"),
		Description:       d.optionalString(obj, "description", path+".description"),
		Nullable:          d.optionalBool(obj, "nullable", path+".nullable"),
		Unique:            d.optionalBool(obj, "unique", path+".unique"),
		GeneratedAlwaysAs: d.optionalString(obj, "generated_always_as", path+".generated_always_as"),
	}

	raw, ok := obj["type"]
	if !ok || raw == nil {
		d.fail(path+".type", nil, "field required")
		return c
	}
	switch t := raw.(type) {
	case string:
		c.Type = schema.ColumnType{Name: t}
		c.Kind = schema.KindOf(t)
	case map[string]any:
		c.Type = d.compoundType(t, path+".type")
		c.Kind = schema.KindOf(c.Type.Name)
		if c.Kind != schema.KindOther && !c.Kind.IsCompound() {
			d.fail(path+".type.name", c.Type.Name, "type name must be 'numeric' or 'timestamp'")
		}
	default:
		d.fail(path+".type", raw, "must be a type name or a {name, options} object")
		return c
	}

	if c.Kind.HasKeys() {
		c.PrimaryKey = d.optionalBool(obj, "primary_key", path+".primary_key")
		if v, ok := obj["foreign_key"]; ok && v != nil {
			c.ForeignKey = d.foreignKey(v, path+".foreign_key")
		}
	} else {
		for _, key := range []string{"primary_key", "foreign_key"} {
			if v, ok := obj[key]; ok && v != nil {
				d.fail(path+"."+key, v, "not allowed on %s columns", c.Kind)
			}
		}
	}

	if v, ok := obj["default"]; ok && v != nil {
		c.Default = d.defaultValue(c.Kind, v, path+".default")
	}
	return c
}

func (d *decoder) compoundType(obj map[string]any, path string) schema.ColumnType {
	t := schema.ColumnType{
		Name:     d.requiredString(obj, "name", path+".name"),
		Compound: true,
	}
	raw, ok := obj["options"]
	if !ok || raw == nil {
		return t
	}
	opts, ok := d.object(raw, path+".options")
	if !ok {
		return t
	}
	t.Options.Precision = d.optionalInt(opts, "precision", path+".options.precision")
	t.Options.Scale = d.optionalInt(opts, "scale", path+".options.scale")
	if v, ok := opts["withTimeZone"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			d.fail(path+".options.withTimeZone", v, "must be a boolean")
		} else {
			t.Options.WithTimeZone = &b
		}
	}
	return t
}

func (d *decoder) foreignKey(raw any, path string) *schema.ForeignKey {
	obj, ok := d.object(raw, path)
	if !ok {
		return nil
	}
	return &schema.ForeignKey{
		Table:  d.requiredString(obj, "table", path+".table"),
		Column: d.requiredString(obj, "column", path+".column"),
	}
}

var restrictedLabels = map[schema.ColumnKind]string{
	schema.KindUUID:      "UUID",
	schema.KindDate:      "Date",
	schema.KindTimestamp: "Timestamp",
}

func (d *decoder) defaultValue(kind schema.ColumnKind, v any, path string) *schema.Default {
	if want, ok := schema.RestrictedDefault(kind); ok {
		s, isString := v.(string)
		if !isString || schema.ExpressionKind(s) != want {
			d.fail(path, v, "%s default must be %s", restrictedLabels[kind], want)
			return nil
		}
		return &schema.Default{Kind: want, Value: s}
	}

	switch kind {
	case schema.KindInteger:
		n, ok := asInt(v)
		if !ok {
			d.fail(path, v, "must be an integer")
			return nil
		}
		return &schema.Default{Kind: schema.DefaultLiteral, Value: n}
	case schema.KindNumeric:
		if s, ok := v.(string); ok {
			return stringDefault(s)
		}
		f, ok := asFloat(v)
		if !ok {
			d.fail(path, v, "must be a string or a number")
			return nil
		}
		return &schema.Default{Kind: schema.DefaultLiteral, Value: f}
	case schema.KindText:
		s, ok := v.(string)
		if !ok {
			d.fail(path, v, "must be a string")
			return nil
		}
		return stringDefault(s)
	default:
		switch x := v.(type) {
		case string:
			return stringDefault(x)
		case bool:
			return &schema.Default{Kind: schema.DefaultLiteral, Value: x}
		case float32, float64:
			f, _ := asFloat(x)
			return &schema.Default{Kind: schema.DefaultLiteral, Value: f}
		}
		if n, ok := asInt(v); ok {
			return &schema.Default{Kind: schema.DefaultLiteral, Value: n}
		}
		if f, ok := asFloat(v); ok {
			return &schema.Default{Kind: schema.DefaultLiteral, Value: f}
		}
		d.fail(path, v, "must be a scalar value")
		return nil
	}
}

func stringDefault(s string) *schema.Default {
	return &schema.Default{Kind: schema.ExpressionKind(s), Value: s}
}

func (d *decoder) object(raw any, path string) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		d.fail(path, raw, "must be a mapping")
	}
	return obj, ok
}

func (d *decoder) list(obj map[string]any, key, path string) ([]any, bool) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		d.fail(path, nil, "field required")
		return nil, false
	}
	l, ok := raw.([]any)
	if !ok {
		d.fail(path, raw, "must be a list")
	}
	return l, ok
}

func (d *decoder) requiredString(obj map[string]any, key, path string) string {
	raw, ok := obj[key]
	if !ok || raw == nil {
		d.fail(path, nil, "field required")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(path, raw, "must be a string")
	}
	return s
}

func (d *decoder) optionalString(obj map[string]any, key, path string) string {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(path, raw, "must be a string")
	}
	return s
}

func (d *decoder) optionalBool(obj map[string]any, key, path string) bool {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		d.fail(path, raw, "must be a boolean")
	}
	return b
}

func (d *decoder) optionalInt(obj map[string]any, key, path string) *int {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil
	}
	n, ok := asInt(raw)
	if !ok {
		d.fail(path, raw, "must be an integer")
		return nil
	}
	i := int(n)
	return &i
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	}
	return 0, false
}

// integral accepts floats without a fractional part, as JSON decoders
// produce for every number.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

// normalize rewrites every mapping into map[string]any and every list into
// []any so the decoder only has to deal with one type of each. Typed
// containers such as []map[string]any are converted too.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case nil, string, []byte:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}
