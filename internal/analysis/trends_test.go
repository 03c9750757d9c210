package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
)

func recordWithNumerics(ns analyser.NumericStats, base analyser.Stats) analyser.Record {
	base.NumericStats = &ns
	return analyser.Record{Type: dataset.Numeric, Stats: base}
}

func TestDetectOutliers(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("v", recordWithNumerics(analyser.NumericStats{
		Min: -5, Max: 2, Mean: 0, Median: 0, StdDev: 1,
	}, analyser.Stats{Count: 100}))

	outliers := agg.DetectOutliers(res)
	require.Contains(t, outliers, "v")
	require.Len(t, outliers["v"], 1, "max at z=2 must not be flagged")

	flagged := outliers["v"][0]
	assert.Equal(t, -5.0, flagged.Value)
	assert.Equal(t, 5.0, flagged.ZScore)
	assert.Equal(t, "minimum", flagged.Side)
}

func TestDetectOutliersBothSides(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("v", recordWithNumerics(analyser.NumericStats{
		Min: -40, Max: 35, Mean: 0, Median: 0, StdDev: 10,
	}, analyser.Stats{Count: 100}))

	outliers := agg.DetectOutliers(res)
	require.Len(t, outliers["v"], 2)
	assert.Equal(t, "minimum", outliers["v"][0].Side)
	assert.Equal(t, 4.0, outliers["v"][0].ZScore)
	assert.Equal(t, "maximum", outliers["v"][1].Side)
	assert.Equal(t, 3.5, outliers["v"][1].ZScore)
}

func TestDetectOutliersSkipsConstantColumns(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("constant", recordWithNumerics(analyser.NumericStats{
		Min: 7, Max: 7, Mean: 7, Median: 7, StdDev: 0,
	}, analyser.Stats{Count: 100}))
	res.Add("label", analyser.Record{Type: dataset.Textual, Stats: analyser.Stats{Count: 100}})

	assert.Empty(t, agg.DetectOutliers(res))
}

func TestDetectDistributionSkewness(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	// diff 10 over max(110,100) -> 9.09%: right-skewed, moderate.
	res.Add("income", recordWithNumerics(analyser.NumericStats{
		Mean: 110, Median: 100, StdDev: 5,
	}, analyser.Stats{Count: 100}))
	// diff 2 over 100 -> 2%: left-skewed, mild.
	res.Add("age", recordWithNumerics(analyser.NumericStats{
		Mean: 98, Median: 100, StdDev: 5,
	}, analyser.Stats{Count: 100}))
	// diff 50 over 100 -> 50%: strong.
	res.Add("debt", recordWithNumerics(analyser.NumericStats{
		Mean: 150, Median: 100, StdDev: 5,
	}, analyser.Stats{Count: 100}))
	// Symmetric columns are omitted entirely.
	res.Add("flat", recordWithNumerics(analyser.NumericStats{
		Mean: 50, Median: 50, StdDev: 5,
	}, analyser.Stats{Count: 100}))

	skewness := agg.DetectDistributionSkewness(res)
	require.Len(t, skewness, 3)
	assert.NotContains(t, skewness, "flat")

	assert.Equal(t, "right-skewed", skewness["income"].Direction)
	assert.Equal(t, "moderate", skewness["income"].Strength)
	assert.Equal(t, 9.09, skewness["income"].DifferencePercentage)

	assert.Equal(t, "left-skewed", skewness["age"].Direction)
	assert.Equal(t, "mild", skewness["age"].Strength)

	assert.Equal(t, "strong", skewness["debt"].Strength)
}

func TestDataInsights(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	// Outlier on the maximum side.
	res.Add("amount", recordWithNumerics(analyser.NumericStats{
		Min: 0, Max: 100, Mean: 10, Median: 10, StdDev: 5,
	}, analyser.Stats{Count: 200, UniquePercentage: 50}))
	// Strong skew.
	res.Add("delay", recordWithNumerics(analyser.NumericStats{
		Min: 0, Max: 10, Mean: 8, Median: 4, StdDev: 3,
	}, analyser.Stats{Count: 200, UniquePercentage: 5}))
	// High nulls.
	res.Add("notes", analyser.Record{Type: dataset.Textual, Stats: analyser.Stats{
		Count: 200, NullCount: 50, NullPercentage: 25, UniquePercentage: 60,
	}})
	// Low uniqueness with enough rows to matter.
	res.Add("status", analyser.Record{Type: dataset.Textual, Stats: analyser.Stats{
		Count: 200, UniqueCount: 1, UniquePercentage: 0.5,
	}})

	insights := agg.DataInsights(res)

	assert.Contains(t, insights.Outliers, "amount")
	assert.Contains(t, insights.Skewness, "delay")
	assert.Equal(t, map[string]float64{"notes": 25}, insights.HighNullColumns)
	assert.Equal(t, map[string]float64{"status": 0.5}, insights.LowUniqueColumns)

	assert.Equal(t, []string{
		"Found potential outliers in 1 columns.",
		"Found 1 columns with significant skewness.",
		"Found 1 columns with high null percentages.",
		"Found 1 columns with very low uniqueness.",
	}, insights.Summary)
	assert.Equal(t, []string{
		"Consider investigating outlier values for data entry errors.",
		"Consider transformations (e.g., log) for strongly skewed numeric columns.",
		"Review data collection process for columns with many nulls.",
		"Check if low-uniqueness columns should be categorical rather than continuous.",
	}, insights.Recommendations)
}

func TestDataInsightsThresholdEdges(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	// Exactly 10% nulls never counts as high.
	res.Add("a", analyser.Record{Type: dataset.Textual, Stats: analyser.Stats{
		Count: 200, NullPercentage: 10, UniquePercentage: 50,
	}})
	// Low uniqueness in a small column is ignored.
	res.Add("b", analyser.Record{Type: dataset.Textual, Stats: analyser.Stats{
		Count: 99, UniquePercentage: 0.5,
	}})
	// Mild skew alone produces no skewness sentence.
	res.Add("c", recordWithNumerics(analyser.NumericStats{
		Min: 95, Max: 107, Mean: 101, Median: 100, StdDev: 5,
	}, analyser.Stats{Count: 200, UniquePercentage: 50}))

	insights := agg.DataInsights(res)
	assert.Empty(t, insights.HighNullColumns)
	assert.Empty(t, insights.LowUniqueColumns)
	assert.Len(t, insights.Skewness, 1)
	assert.Empty(t, insights.Summary)
	assert.Empty(t, insights.Recommendations)
}
