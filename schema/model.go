package schema

const (
	DefaultVersion = "1"
	DefaultDialect = "postgres"
)

type DataModel struct {
	Version     string
	Name        string
	Dialect     string
	Description string
	Tables      []Table
}

type Table struct {
	Name        string
	Description string
	Columns     []Column
}

// Column is a tagged variant: Kind selects which of the optional fields are
// meaningful. The loader only fills fields the variant allows.
type Column struct {
	Name              string
	Kind              ColumnKind
	Type              ColumnType
	Description       string
	Nullable          bool
	Unique            bool
	GeneratedAlwaysAs string
	Default           *Default
	PrimaryKey        bool
	ForeignKey        *ForeignKey
}

type ForeignKey struct {
	Table  string
	Column string
}

// ColumnType is the declared type tag. Simple types only carry a name,
// compound types (numeric, timestamp) carry options as well.
type ColumnType struct {
	Name     string
	Compound bool
	Options  TypeOptions
}

type TypeOptions struct {
	Precision    *int
	Scale        *int
	WithTimeZone *bool
}

// TimeZone reports the effective withTimeZone flag, which defaults to true.
func (o TypeOptions) TimeZone() bool {
	if o.WithTimeZone == nil {
		return true
	}
	return *o.WithTimeZone
}

type ColumnKind string

const (
	KindUUID      ColumnKind = "uuid"
	KindInteger   ColumnKind = "integer"
	KindNumeric   ColumnKind = "numeric"
	KindText      ColumnKind = "text"
	KindDate      ColumnKind = "date"
	KindTimestamp ColumnKind = "timestamp"
	// KindOther holds columns whose type tag is not one of the known
	// variants. They are accepted and rendered on a best-effort basis.
	KindOther ColumnKind = "other"
)

// KindOf returns the variant for a type name, or KindOther.
func KindOf(typeName string) ColumnKind {
	switch ColumnKind(typeName) {
	case KindUUID, KindInteger, KindNumeric, KindText, KindDate, KindTimestamp:
		return ColumnKind(typeName)
	}
	return KindOther
}

// IsCompound reports whether the variant is declared with a {name, options}
// type object.
func (k ColumnKind) IsCompound() bool {
	return k == KindNumeric || k == KindTimestamp
}

// HasKeys reports whether the variant can carry primary_key and foreign_key.
func (k ColumnKind) HasKeys() bool {
	return k == KindUUID || k == KindInteger || k == KindOther
}
