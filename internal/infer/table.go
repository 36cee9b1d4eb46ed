package infer

import "time"

// Kind is the nominal type shared by every value of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindComplex
	KindDatetime
	KindDuration
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindComplex:
		return "complex"
	case KindDatetime:
		return "datetime"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// Value is a single cell. Only the field matching the column Kind is meaningful.
// Valid=false marks a missing value.
type Value struct {
	Text    string
	Number  float64
	Complex complex128
	Time    time.Time
	Dur     time.Duration
	Valid   bool
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// TextValue returns a present text value.
func TextValue(s string) Value { return Value{Text: s, Valid: true} }

// NumberValue returns a present floating-point value.
func NumberValue(f float64) Value { return Value{Number: f, Valid: true} }

// ComplexValue returns a present complex value.
func ComplexValue(c complex128) Value { return Value{Complex: c, Valid: true} }

// TimeValue returns a present datetime value.
func TimeValue(t time.Time) Value { return Value{Time: t, Valid: true} }

// DurationValue returns a present duration value.
func DurationValue(d time.Duration) Value { return Value{Dur: d, Valid: true} }

// Column is a named, ordered sequence of values of one Kind.
//
// Columns are treated as immutable once built: converters always return a new
// Column and never write into the one they were given, so tables may share
// column pointers freely.
type Column struct {
	Name string
	Kind Kind

	// Location is set for zone-aware datetime columns. Nil means naive.
	Location *time.Location

	// Categorical marks a bounded-domain column. Values keep their Kind.
	Categorical bool

	Values []Value
}

// NewTextColumn builds an untyped column. Cells for which isMissing returns
// true become missing markers; a nil isMissing keeps every cell present.
func NewTextColumn(name string, cells []string, isMissing func(string) bool) *Column {
	values := make([]Value, len(cells))
	for i, s := range cells {
		if isMissing != nil && isMissing(s) {
			continue
		}
		values[i] = TextValue(s)
	}
	return &Column{Name: name, Kind: KindText, Values: values}
}

// Len returns the number of rows, missing included.
func (c *Column) Len() int {
	return len(c.Values)
}

// MissingCount returns how many values are missing.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Untyped reports whether the column is still in its initial all-text form.
// A categorical text column counts as typed.
func (c *Column) Untyped() bool {
	return c.Kind == KindText && !c.Categorical
}

// withValues returns a copy of c carrying the given kind and values.
// The categorical overlay is dropped; callers set it explicitly.
func (c *Column) withValues(kind Kind, loc *time.Location, values []Value) *Column {
	return &Column{
		Name:     c.Name,
		Kind:     kind,
		Location: loc,
		Values:   values,
	}
}

// Table is an ordered sequence of equally long named columns.
type Table struct {
	Columns []*Column
}

// NewTable builds a table from columns in order.
func NewTable(columns ...*Column) *Table {
	return &Table{Columns: columns}
}

// Rows returns the row count shared by every column.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return nil, false
	}
	return t.Columns[i], true
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// shallowCopy returns a new table sharing the column pointers of t.
func (t *Table) shallowCopy() *Table {
	cols := make([]*Column, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols}
}
