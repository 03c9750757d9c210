package analyser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/datacanary/datacanary/internal/dataset"
)

// Record holds the computed statistics for one column.
type Record struct {
	Type  dataset.Kind `json:"type"`
	Stats Stats        `json:"stats"`
}

// Stats carries the base statistics computed for every column plus at most
// one kind-specific extension block. The extension is nil when the column
// has no non-null values.
type Stats struct {
	Count          int     `json:"count"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
	UniqueCount    int     `json:"unique_count"`
	// UniquePercentage divides the distinct non-null count by the total row
	// count, nulls included. That is how the pipeline has always computed it;
	// do not change the denominator without product sign-off.
	UniquePercentage float64 `json:"unique_percentage"`
	// HasDuplicates is true when any value occurs more than once. Repeated
	// nulls count as duplicates of each other.
	HasDuplicates bool `json:"has_duplicates"`

	*NumericStats
	*TextStats
	*TemporalStats
}

type NumericStats struct {
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	StdDev          float64 `json:"std_dev"`
	ZerosCount      int     `json:"zeros_count"`
	ZerosPercentage float64 `json:"zeros_percentage"`
	NegativeCount   int     `json:"negative_count"`
}

type TextStats struct {
	MinLength             int     `json:"min_length"`
	MaxLength             int     `json:"max_length"`
	MeanLength            float64 `json:"mean_length"`
	EmptyStringCount      int     `json:"empty_string_count"`
	EmptyStringPercentage float64 `json:"empty_string_percentage"`
}

type TemporalStats struct {
	MinDate   string `json:"min_date"`
	MaxDate   string `json:"max_date"`
	RangeDays int    `json:"range_days"`
}

// Pair is one rendered statistic.
type Pair struct {
	Key   string
	Value string
}

// Pairs lists every statistic in its stored order, base fields first and the
// extension block after, for the text report.
func (s Stats) Pairs() []Pair {
	pairs := []Pair{
		{"count", strconv.Itoa(s.Count)},
		{"null_count", strconv.Itoa(s.NullCount)},
		{"null_percentage", formatFloat(s.NullPercentage)},
		{"unique_count", strconv.Itoa(s.UniqueCount)},
		{"unique_percentage", formatFloat(s.UniquePercentage)},
		{"has_duplicates", strconv.FormatBool(s.HasDuplicates)},
	}
	switch {
	case s.NumericStats != nil:
		n := s.NumericStats
		pairs = append(pairs,
			Pair{"min", formatFloat(n.Min)},
			Pair{"max", formatFloat(n.Max)},
			Pair{"mean", formatFloat(n.Mean)},
			Pair{"median", formatFloat(n.Median)},
			Pair{"std_dev", formatFloat(n.StdDev)},
			Pair{"zeros_count", strconv.Itoa(n.ZerosCount)},
			Pair{"zeros_percentage", formatFloat(n.ZerosPercentage)},
			Pair{"negative_count", strconv.Itoa(n.NegativeCount)},
		)
	case s.TextStats != nil:
		t := s.TextStats
		pairs = append(pairs,
			Pair{"min_length", strconv.Itoa(t.MinLength)},
			Pair{"max_length", strconv.Itoa(t.MaxLength)},
			Pair{"mean_length", formatFloat(t.MeanLength)},
			Pair{"empty_string_count", strconv.Itoa(t.EmptyStringCount)},
			Pair{"empty_string_percentage", formatFloat(t.EmptyStringPercentage)},
		)
	case s.TemporalStats != nil:
		t := s.TemporalStats
		pairs = append(pairs,
			Pair{"min_date", t.MinDate},
			Pair{"max_date", t.MaxDate},
			Pair{"range_days", strconv.Itoa(t.RangeDays)},
		)
	}
	return pairs
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Results maps column names to their records while preserving the dataset's
// column order, which the rule engine and report renderer depend on.
type Results struct {
	names   []string
	records map[string]Record
}

func newResults() *Results {
	return &Results{records: make(map[string]Record)}
}

// NewResults returns an empty, ordered result set. Most callers get their
// Results from Engine.Analyse; this is for assembling one by hand.
func NewResults() *Results { return newResults() }

// Add appends a column record, keeping insertion order.
func (r *Results) Add(name string, rec Record) {
	r.names = append(r.names, name)
	r.records[name] = rec
}

// Columns returns the column names in dataset order.
func (r *Results) Columns() []string { return r.names }

func (r *Results) Get(name string) (Record, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

func (r *Results) Len() int { return len(r.names) }

// MarshalJSON writes the records as an object keyed by column name, in
// dataset column order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.records[name])
		if err != nil {
			return nil, fmt.Errorf("marshal column %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
