package analysis

import (
	"fmt"
	"math"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
)

// Near-zero guard for divisions.
const epsilon = 1e-10

// Outlier flags one side of a numeric column whose extreme sits more than
// three standard deviations from the mean.
type Outlier struct {
	Value  float64 `json:"value"`
	ZScore float64 `json:"z_score"`
	Side   string  `json:"type"` // "minimum" or "maximum"
}

// Skew describes an asymmetric numeric distribution.
type Skew struct {
	Direction            string  `json:"direction"` // "right-skewed" or "left-skewed"
	Strength             string  `json:"strength"`  // "mild", "moderate" or "strong"
	Mean                 float64 `json:"mean"`
	Median               float64 `json:"median"`
	DifferencePercentage float64 `json:"difference_percentage"`
}

// Insights bundles the heuristic findings with narrative sentences for the
// report.
type Insights struct {
	Outliers         map[string][]Outlier `json:"outliers"`
	Skewness         map[string]Skew      `json:"skewness"`
	HighNullColumns  map[string]float64   `json:"high_null_columns"`
	LowUniqueColumns map[string]float64   `json:"low_unique_columns"`
	Summary          []string             `json:"summary"`
	Recommendations  []string             `json:"recommendations"`
}

// DetectOutliers inspects the minimum and maximum of every numeric column.
// Columns without numeric statistics or with a near-zero standard deviation
// are skipped.
func (a *Aggregator) DetectOutliers(res *analyser.Results) map[string][]Outlier {
	a.log.Info("detecting outliers in dataset")

	outliers := make(map[string][]Outlier)
	for _, name := range res.Columns() {
		rec, _ := res.Get(name)
		if rec.Type != dataset.Numeric || rec.Stats.NumericStats == nil {
			continue
		}

		ns := rec.Stats.NumericStats
		if ns.StdDev < epsilon {
			continue
		}

		var flagged []Outlier
		if z := math.Abs(ns.Min-ns.Mean) / ns.StdDev; z > 3 {
			flagged = append(flagged, Outlier{Value: ns.Min, ZScore: round2(z), Side: "minimum"})
		}
		if z := math.Abs(ns.Max-ns.Mean) / ns.StdDev; z > 3 {
			flagged = append(flagged, Outlier{Value: ns.Max, ZScore: round2(z), Side: "maximum"})
		}
		if len(flagged) > 0 {
			outliers[name] = flagged
		}
	}

	a.log.Info("found outliers in %d columns", len(outliers))
	return outliers
}

// DetectDistributionSkewness estimates skew from the gap between mean and
// median. Symmetric columns are omitted.
func (a *Aggregator) DetectDistributionSkewness(res *analyser.Results) map[string]Skew {
	skewness := make(map[string]Skew)
	for _, name := range res.Columns() {
		rec, _ := res.Get(name)
		if rec.Type != dataset.Numeric || rec.Stats.NumericStats == nil {
			continue
		}

		ns := rec.Stats.NumericStats
		if math.Abs(ns.Mean-ns.Median) < epsilon {
			continue
		}

		direction := "left-skewed"
		if ns.Mean > ns.Median {
			direction = "right-skewed"
		}

		diffPct := math.Abs(ns.Mean-ns.Median) /
			math.Max(math.Max(math.Abs(ns.Mean), math.Abs(ns.Median)), epsilon) * 100

		strength := "strong"
		switch {
		case diffPct < 5:
			strength = "mild"
		case diffPct < 15:
			strength = "moderate"
		}

		skewness[name] = Skew{
			Direction:            direction,
			Strength:             strength,
			Mean:                 ns.Mean,
			Median:               ns.Median,
			DifferencePercentage: round2(diffPct),
		}
	}
	return skewness
}

// DataInsights combines outliers, skewness, high-null and low-unique columns
// and renders one summary sentence and one recommendation per non-empty
// category.
func (a *Aggregator) DataInsights(res *analyser.Results) Insights {
	a.log.Info("generating data insights")

	insights := Insights{
		Outliers:         a.DetectOutliers(res),
		Skewness:         a.DetectDistributionSkewness(res),
		HighNullColumns:  make(map[string]float64),
		LowUniqueColumns: make(map[string]float64),
	}

	for _, name := range res.Columns() {
		rec, _ := res.Get(name)
		if rec.Stats.NullPercentage > 10 {
			insights.HighNullColumns[name] = rec.Stats.NullPercentage
		}
		// Uniqueness below 1% only matters once there are enough rows for
		// the ratio to mean anything.
		if rec.Stats.Count >= 100 && rec.Stats.UniquePercentage < 1 {
			insights.LowUniqueColumns[name] = rec.Stats.UniquePercentage
		}
	}

	if len(insights.Outliers) > 0 {
		insights.Summary = append(insights.Summary,
			fmt.Sprintf("Found potential outliers in %d columns.", len(insights.Outliers)))
		insights.Recommendations = append(insights.Recommendations,
			"Consider investigating outlier values for data entry errors.")
	}

	if len(insights.Skewness) > 0 {
		skewed := 0
		for _, s := range insights.Skewness {
			if s.Strength == "moderate" || s.Strength == "strong" {
				skewed++
			}
		}
		if skewed > 0 {
			insights.Summary = append(insights.Summary,
				fmt.Sprintf("Found %d columns with significant skewness.", skewed))
			insights.Recommendations = append(insights.Recommendations,
				"Consider transformations (e.g., log) for strongly skewed numeric columns.")
		}
	}

	if len(insights.HighNullColumns) > 0 {
		insights.Summary = append(insights.Summary,
			fmt.Sprintf("Found %d columns with high null percentages.", len(insights.HighNullColumns)))
		insights.Recommendations = append(insights.Recommendations,
			"Review data collection process for columns with many nulls.")
	}

	if len(insights.LowUniqueColumns) > 0 {
		insights.Summary = append(insights.Summary,
			fmt.Sprintf("Found %d columns with very low uniqueness.", len(insights.LowUniqueColumns)))
		insights.Recommendations = append(insights.Recommendations,
			"Check if low-uniqueness columns should be categorical rather than continuous.")
	}

	a.log.Info("data insights generation complete")
	return insights
}
