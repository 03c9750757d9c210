package dataset

import (
	"fmt"
	"time"
)

// Kind is the declared type of a column. Rules and the analyser branch on it
// by equality; there is no value sniffing past dataset construction.
type Kind string

const (
	Numeric  Kind = "numeric"
	Textual  Kind = "textual"
	Temporal Kind = "temporal"
	Generic  Kind = "generic"
)

// Column is one named value sequence. A nil entry is a null. Non-null entries
// hold float64 (or any integer type) for numeric columns, string for textual,
// time.Time for temporal. Generic columns may hold anything.
type Column struct {
	name   string
	kind   Kind
	values []any
}

func NewColumn(name string, kind Kind, values []any) Column {
	return Column{name: name, kind: kind, values: values}
}

// FloatColumn builds a numeric column with no nulls.
func FloatColumn(name string, values []float64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewColumn(name, Numeric, cells)
}

// StringColumn builds a textual column with no nulls.
func StringColumn(name string, values []string) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewColumn(name, Textual, cells)
}

// TimeColumn builds a temporal column with no nulls.
func TimeColumn(name string, values []time.Time) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewColumn(name, Temporal, cells)
}

func (c Column) Name() string { return c.name }
func (c Column) Kind() Kind   { return c.kind }
func (c Column) Len() int     { return len(c.values) }

func (c Column) IsNull(i int) bool { return c.values[i] == nil }

func (c Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v == nil {
			n++
		}
	}
	return n
}

// DistinctCount returns the number of distinct non-null values.
func (c Column) DistinctCount() int {
	seen := make(map[string]struct{}, len(c.values))
	for _, v := range c.values {
		if v == nil {
			continue
		}
		seen[canonical(v)] = struct{}{}
	}
	return len(seen)
}

// Floats returns the non-null values of a numeric column as float64.
// Integer-typed cells are widened.
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if f, ok := asFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Strings returns the non-null values coerced to strings.
func (c Column) Strings() []string {
	out := make([]string, 0, len(c.values))
	for _, v := range c.values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// Times returns the non-null time.Time values.
func (c Column) Times() []time.Time {
	out := make([]time.Time, 0, len(c.values))
	for _, v := range c.values {
		if t, ok := v.(time.Time); ok {
			out = append(out, t)
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func canonical(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case time.Time:
		return n.Format(time.RFC3339Nano)
	default:
		if f, ok := asFloat(v); ok {
			return fmt.Sprintf("%g", f)
		}
		return fmt.Sprint(n)
	}
}

// Dataset is an ordered, immutable collection of columns of equal length.
type Dataset struct {
	columns []Column
}

// New validates that column names are unique and lengths match.
func New(columns ...Column) (*Dataset, error) {
	names := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col.name == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if _, dup := names[col.name]; dup {
			return nil, fmt.Errorf("duplicate column name: %s", col.name)
		}
		names[col.name] = struct{}{}
		if col.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %s has %d rows, expected %d",
				col.name, col.Len(), columns[0].Len())
		}
	}
	return &Dataset{columns: columns}, nil
}

// Columns returns the columns in declaration order.
func (d *Dataset) Columns() []Column { return d.columns }

func (d *Dataset) Width() int { return len(d.columns) }

func (d *Dataset) Rows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.columns[0].Len()
}
