package analyser

import (
	"errors"
	"math"
	"runtime"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/datacanary/datacanary/internal/dataset"
	"github.com/datacanary/datacanary/internal/logging"
)

// ErrInvalidDataset is returned when Analyse is handed something that is not
// a usable dataset.
var ErrInvalidDataset = errors.New("input must be a dataset")

const dateLayout = "2006-01-02 15:04:05"

// Engine computes per-column statistics for a dataset.
type Engine struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default
	}
	return &Engine{log: log}
}

// Analyse computes a Record for every column, preserving column order.
// A dataset with zero rows or zero columns yields empty Results. Columns are
// independent, so they are analysed concurrently and reassembled in order.
func (e *Engine) Analyse(ds *dataset.Dataset) (*Results, error) {
	if ds == nil {
		e.log.Error("analyse called without a dataset")
		return nil, ErrInvalidDataset
	}

	results := newResults()
	if ds.Rows() == 0 || ds.Width() == 0 {
		e.log.Warn("empty dataset provided for analysis")
		return results, nil
	}

	e.log.Info("analysing dataset with %d rows and %d columns", ds.Rows(), ds.Width())

	cols := ds.Columns()
	records := make([]Record, len(cols))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i := range cols {
		i := i
		g.Go(func() error {
			records[i] = analyseColumn(cols[i])
			return nil
		})
	}
	g.Wait()

	for i, col := range cols {
		results.Add(col.Name(), records[i])
	}
	e.log.Info("completed analysis of %d columns", results.Len())
	return results, nil
}

func analyseColumn(col dataset.Column) Record {
	count := col.Len()
	nullCount := col.NullCount()
	uniqueCount := col.DistinctCount()

	// One distinct slot for the null value, if present.
	distinctRows := uniqueCount
	if nullCount > 0 {
		distinctRows++
	}

	s := Stats{
		Count:            count,
		NullCount:        nullCount,
		NullPercentage:   round2(float64(nullCount) / float64(count) * 100),
		UniqueCount:      uniqueCount,
		UniquePercentage: round2(float64(uniqueCount) / float64(count) * 100),
		HasDuplicates:    count > distinctRows,
	}

	switch col.Kind() {
	case dataset.Numeric:
		s.NumericStats = numericStats(col)
	case dataset.Textual, dataset.Generic:
		s.TextStats = textStats(col)
	case dataset.Temporal:
		s.TemporalStats = temporalStats(col)
	}

	return Record{Type: col.Kind(), Stats: s}
}

func numericStats(col dataset.Column) *NumericStats {
	values := col.Floats()
	if len(values) == 0 {
		return nil
	}

	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)

	// Sample standard deviation; a single observation has none.
	stdDev := 0.0
	if len(values) > 1 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}

	zeros, negatives := 0, 0
	for _, v := range values {
		if v == 0 {
			zeros++
		}
		if v < 0 {
			negatives++
		}
	}

	return &NumericStats{
		Min:             min,
		Max:             max,
		Mean:            mean,
		Median:          median,
		StdDev:          stdDev,
		ZerosCount:      zeros,
		ZerosPercentage: round2(float64(zeros) / float64(len(values)) * 100),
		NegativeCount:   negatives,
	}
}

func textStats(col dataset.Column) *TextStats {
	values := col.Strings()
	if len(values) == 0 {
		return nil
	}

	// Lengths are in characters, not bytes.
	minLen, maxLen := utf8.RuneCountInString(values[0]), utf8.RuneCountInString(values[0])
	totalLen, empty := 0, 0
	for _, v := range values {
		n := utf8.RuneCountInString(v)
		if n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
		totalLen += n
		if v == "" {
			empty++
		}
	}

	return &TextStats{
		MinLength:             minLen,
		MaxLength:             maxLen,
		MeanLength:            float64(totalLen) / float64(len(values)),
		EmptyStringCount:      empty,
		EmptyStringPercentage: round2(float64(empty) / float64(len(values)) * 100),
	}
}

func temporalStats(col dataset.Column) *TemporalStats {
	values := col.Times()
	if len(values) == 0 {
		return nil
	}

	earliest, latest := values[0], values[0]
	for _, t := range values[1:] {
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	return &TemporalStats{
		MinDate: earliest.Format(dateLayout),
		MaxDate: latest.Format(dateLayout),
		// Unix-second arithmetic, not Sub: a time.Duration caps at roughly
		// 292 years and would clamp wider ranges.
		RangeDays: int((latest.Unix() - earliest.Unix()) / 86400),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
