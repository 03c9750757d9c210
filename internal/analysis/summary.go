// Package analysis aggregates per-column statistics and rule outcomes into
// dataset-level summaries, a weighted health score, and heuristic insights.
package analysis

import (
	"math"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
	"github.com/datacanary/datacanary/internal/logging"
	"github.com/datacanary/datacanary/internal/rules"
)

// KindCount is one bucket of the column-type histogram.
type KindCount struct {
	Kind  dataset.Kind `json:"kind"`
	Count int          `json:"count"`
}

// NotableColumn names a column together with the percentage that made it
// notable.
type NotableColumn struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// Summary describes a whole dataset's quality profile.
type Summary struct {
	TotalColumns               int           `json:"total_columns"`
	ColumnTypes                []KindCount   `json:"column_types"`
	ColumnsWithNulls           int           `json:"columns_with_nulls"`
	ColumnsWithNullsPercentage float64       `json:"columns_with_nulls_percentage"`
	AvgNullPercentage          float64       `json:"avg_null_percentage"`
	AvgUniquePercentage        float64       `json:"avg_unique_percentage"`
	Completeness               float64       `json:"completeness"`
	Uniqueness                 float64       `json:"uniqueness"`
	HighestNullColumn          NotableColumn `json:"highest_null_column"`
	LowestUniqueColumn         NotableColumn `json:"lowest_unique_column"`
}

// HealthScore is the weighted composite of rule compliance and completeness.
type HealthScore struct {
	Score          float64            `json:"health_score"`
	Status         string             `json:"health_status"`
	RuleCompliance float64            `json:"rule_compliance"`
	Completeness   float64            `json:"completeness"`
	ColumnScores   map[string]float64 `json:"column_scores"`
}

// Aggregator computes dataset-level metrics from analysis results.
type Aggregator struct {
	log *logging.Logger
}

func NewAggregator(log *logging.Logger) *Aggregator {
	if log == nil {
		log = logging.Default
	}
	return &Aggregator{log: log}
}

// CalculateSummary builds the dataset summary. Ties for the highest null
// percentage keep the first column seen; the lowest-unique slot is only ever
// taken by a strictly positive unique percentage.
func (a *Aggregator) CalculateSummary(res *analyser.Results) Summary {
	a.log.Info("calculating dataset summary statistics")

	if res == nil || res.Len() == 0 {
		a.log.Warn("no analysis results provided for summary calculation")
		return Summary{LowestUniqueColumn: NotableColumn{Percentage: 100}}
	}

	total := res.Len()
	var kindOrder []dataset.Kind
	kindCounts := make(map[dataset.Kind]int)
	var totalNull, totalUnique float64
	columnsWithNulls := 0
	highestNull := NotableColumn{}
	lowestUnique := NotableColumn{Percentage: 100}

	for _, name := range res.Columns() {
		rec, _ := res.Get(name)

		if _, seen := kindCounts[rec.Type]; !seen {
			kindOrder = append(kindOrder, rec.Type)
		}
		kindCounts[rec.Type]++

		nullPct := rec.Stats.NullPercentage
		totalNull += nullPct
		if nullPct > 0 {
			columnsWithNulls++
		}
		if nullPct > highestNull.Percentage {
			highestNull = NotableColumn{Name: name, Percentage: nullPct}
		}

		uniquePct := rec.Stats.UniquePercentage
		totalUnique += uniquePct
		if uniquePct > 0 && uniquePct < lowestUnique.Percentage {
			lowestUnique = NotableColumn{Name: name, Percentage: uniquePct}
		}
	}

	histogram := make([]KindCount, 0, len(kindOrder))
	for _, k := range kindOrder {
		histogram = append(histogram, KindCount{Kind: k, Count: kindCounts[k]})
	}

	avgNull := totalNull / float64(total)
	avgUnique := totalUnique / float64(total)

	return Summary{
		TotalColumns:               total,
		ColumnTypes:                histogram,
		ColumnsWithNulls:           columnsWithNulls,
		ColumnsWithNullsPercentage: round2(float64(columnsWithNulls) / float64(total) * 100),
		AvgNullPercentage:          round2(avgNull),
		AvgUniquePercentage:        round2(avgUnique),
		Completeness:               round2(100 - avgNull),
		Uniqueness:                 round2(avgUnique),
		HighestNullColumn:          highestNull,
		LowestUniqueColumn:         lowestUnique,
	}
}

// CalculateHealthScore combines rule compliance (70%) and completeness (30%).
func (a *Aggregator) CalculateHealthScore(res *analyser.Results, eval *rules.Evaluation) HealthScore {
	a.log.Info("calculating dataset health score")

	summary := a.CalculateSummary(res)

	totalRules, passedRules := 0, 0
	columnScores := make(map[string]float64)
	if eval != nil {
		for _, column := range eval.Columns() {
			outcomes := eval.Get(column)
			passed := 0
			for _, o := range outcomes {
				if o.Result.Passed {
					passed++
				}
			}
			totalRules += len(outcomes)
			passedRules += passed
			if len(outcomes) > 0 {
				columnScores[column] = round2(float64(passed) / float64(len(outcomes)) * 100)
			}
		}
	}

	ruleCompliance := 0.0
	if totalRules > 0 {
		ruleCompliance = round2(float64(passedRules) / float64(totalRules) * 100)
	}

	completeness := summary.Completeness
	score := round2(ruleCompliance*0.7 + completeness*0.3)

	status := "Poor"
	switch {
	case score >= 90:
		status = "Excellent"
	case score >= 75:
		status = "Good"
	case score >= 60:
		status = "Fair"
	}

	a.log.Info("health score calculation complete: %g (%s)", score, status)
	return HealthScore{
		Score:          score,
		Status:         status,
		RuleCompliance: ruleCompliance,
		Completeness:   completeness,
		ColumnScores:   columnScores,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
