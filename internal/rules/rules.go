package rules

import (
	"fmt"
	"strings"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
)

// Result is the outcome of evaluating one rule against one column.
type Result struct {
	Passed      bool     `json:"passed"`
	Actual      *float64 `json:"actual,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	ActualMin   *float64 `json:"actual_min,omitempty"`
	ActualMax   *float64 `json:"actual_max,omitempty"`
	ExpectedMin *float64 `json:"expected_min,omitempty"`
	ExpectedMax *float64 `json:"expected_max,omitempty"`
	Message     string   `json:"message,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Details     string   `json:"details,omitempty"`
}

// Rule is a data quality predicate over one column's statistics record.
type Rule interface {
	Name() string
	Description() string
	// ApplicableKinds lists the column kinds the rule evaluates.
	// A nil slice means the rule applies to every kind.
	ApplicableKinds() []dataset.Kind
	Evaluate(rec analyser.Record) (Result, error)
}

// MissingStatisticsError reports that a rule's prerequisite statistics are
// absent from the record. The engine converts it into a failing result; it
// never aborts evaluation.
type MissingStatisticsError struct {
	Stats []string
}

func (e *MissingStatisticsError) Error() string {
	return "missing statistics: " + strings.Join(e.Stats, ", ")
}

func floatPtr(v float64) *float64 { return &v }

// NullPercentageRule checks that a column's null percentage does not exceed
// a threshold. Applies to every column kind.
type NullPercentageRule struct {
	Threshold float64
}

func NewNullPercentageRule(threshold float64) *NullPercentageRule {
	return &NullPercentageRule{Threshold: threshold}
}

func (r *NullPercentageRule) Name() string { return "null_percentage_check" }

func (r *NullPercentageRule) Description() string {
	return fmt.Sprintf("Check if null percentage is below %g%%", r.Threshold)
}

func (r *NullPercentageRule) ApplicableKinds() []dataset.Kind { return nil }

func (r *NullPercentageRule) Evaluate(rec analyser.Record) (Result, error) {
	actual := rec.Stats.NullPercentage
	return Result{
		Passed:    actual <= r.Threshold,
		Actual:    floatPtr(actual),
		Threshold: floatPtr(r.Threshold),
		Message:   fmt.Sprintf("Column has %.2f%% nulls (threshold: %g%%)", actual, r.Threshold),
	}, nil
}

// UniqueValueRule checks that a column's unique value percentage meets a
// minimum threshold. Applies to every column kind.
type UniqueValueRule struct {
	Threshold float64
}

func NewUniqueValueRule(threshold float64) *UniqueValueRule {
	return &UniqueValueRule{Threshold: threshold}
}

func (r *UniqueValueRule) Name() string { return "unique_value_check" }

func (r *UniqueValueRule) Description() string {
	return fmt.Sprintf("Check if unique value percentage is at least %g%%", r.Threshold)
}

func (r *UniqueValueRule) ApplicableKinds() []dataset.Kind { return nil }

func (r *UniqueValueRule) Evaluate(rec analyser.Record) (Result, error) {
	actual := rec.Stats.UniquePercentage
	return Result{
		Passed:    actual >= r.Threshold,
		Actual:    floatPtr(actual),
		Threshold: floatPtr(r.Threshold),
		Message:   fmt.Sprintf("Column has %.2f%% unique values (threshold: %g%%)", actual, r.Threshold),
	}, nil
}

// ValueRangeRule checks that a numeric column's observed minimum and maximum
// stay within configured bounds. Either bound may be left unset.
type ValueRangeRule struct {
	MinValue *float64
	MaxValue *float64
}

func NewValueRangeRule(minValue, maxValue *float64) *ValueRangeRule {
	return &ValueRangeRule{MinValue: minValue, MaxValue: maxValue}
}

func (r *ValueRangeRule) Name() string { return "value_range_check" }

func (r *ValueRangeRule) Description() string {
	switch {
	case r.MinValue != nil && r.MaxValue != nil:
		return fmt.Sprintf("Check if values are between %g and %g", *r.MinValue, *r.MaxValue)
	case r.MinValue != nil:
		return fmt.Sprintf("Check if values are at least %g", *r.MinValue)
	case r.MaxValue != nil:
		return fmt.Sprintf("Check if values are at most %g", *r.MaxValue)
	default:
		return "Check if values are within range"
	}
}

func (r *ValueRangeRule) ApplicableKinds() []dataset.Kind {
	return []dataset.Kind{dataset.Numeric}
}

func (r *ValueRangeRule) Evaluate(rec analyser.Record) (Result, error) {
	ns := rec.Stats.NumericStats
	if ns == nil {
		return Result{}, &MissingStatisticsError{Stats: []string{"min", "max"}}
	}

	passed := true
	if r.MinValue != nil && ns.Min < *r.MinValue {
		passed = false
	}
	if r.MaxValue != nil && ns.Max > *r.MaxValue {
		passed = false
	}

	var message string
	switch {
	case r.MinValue != nil && r.MaxValue != nil:
		message = fmt.Sprintf("Values range from %g to %g (expected: %g to %g)",
			ns.Min, ns.Max, *r.MinValue, *r.MaxValue)
	case r.MinValue != nil:
		message = fmt.Sprintf("Minimum value is %g (expected at least %g)", ns.Min, *r.MinValue)
	case r.MaxValue != nil:
		message = fmt.Sprintf("Maximum value is %g (expected at most %g)", ns.Max, *r.MaxValue)
	default:
		message = fmt.Sprintf("Values range from %g to %g", ns.Min, ns.Max)
	}

	return Result{
		Passed:      passed,
		ActualMin:   floatPtr(ns.Min),
		ActualMax:   floatPtr(ns.Max),
		ExpectedMin: r.MinValue,
		ExpectedMax: r.MaxValue,
		Message:     message,
	}, nil
}

// PatternMatchRule checks string values against a pattern. It needs a
// sample_values statistic that the analyser does not collect, so evaluation
// always reports the statistic as missing.
type PatternMatchRule struct {
	Pattern string
}

func NewPatternMatchRule(pattern string) *PatternMatchRule {
	return &PatternMatchRule{Pattern: pattern}
}

func (r *PatternMatchRule) Name() string { return "pattern_match_check" }

func (r *PatternMatchRule) Description() string {
	return fmt.Sprintf("Check if values match pattern '%s'", r.Pattern)
}

func (r *PatternMatchRule) ApplicableKinds() []dataset.Kind {
	return []dataset.Kind{dataset.Textual, dataset.Generic}
}

func (r *PatternMatchRule) Evaluate(analyser.Record) (Result, error) {
	return Result{}, &MissingStatisticsError{Stats: []string{"sample_values"}}
}
