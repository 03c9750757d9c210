package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
	"github.com/datacanary/datacanary/internal/logging"
	"github.com/datacanary/datacanary/internal/rules"
)

func testAggregator() *Aggregator {
	return NewAggregator(logging.New(logging.LevelError))
}

func numericRecord(stats analyser.Stats) analyser.Record {
	return analyser.Record{Type: dataset.Numeric, Stats: stats}
}

func textRecord(stats analyser.Stats) analyser.Record {
	return analyser.Record{Type: dataset.Textual, Stats: stats}
}

func TestCalculateSummaryEmpty(t *testing.T) {
	agg := testAggregator()

	for _, res := range []*analyser.Results{nil, analyser.NewResults()} {
		summary := agg.CalculateSummary(res)
		assert.Equal(t, 0, summary.TotalColumns)
		assert.Equal(t, 100.0, summary.LowestUniqueColumn.Percentage)
		assert.Empty(t, summary.LowestUniqueColumn.Name)
	}
}

func TestCalculateSummary(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("id", numericRecord(analyser.Stats{
		Count: 10, NullPercentage: 0, UniquePercentage: 100,
	}))
	res.Add("score", numericRecord(analyser.Stats{
		Count: 10, NullCount: 2, NullPercentage: 20, UniquePercentage: 80,
	}))
	res.Add("tag", textRecord(analyser.Stats{
		Count: 10, NullCount: 1, NullPercentage: 10, UniquePercentage: 30,
	}))

	summary := agg.CalculateSummary(res)

	assert.Equal(t, 3, summary.TotalColumns)
	require.Len(t, summary.ColumnTypes, 2)
	assert.Equal(t, KindCount{Kind: dataset.Numeric, Count: 2}, summary.ColumnTypes[0])
	assert.Equal(t, KindCount{Kind: dataset.Textual, Count: 1}, summary.ColumnTypes[1])

	assert.Equal(t, 2, summary.ColumnsWithNulls)
	assert.Equal(t, 66.67, summary.ColumnsWithNullsPercentage)
	assert.Equal(t, 10.0, summary.AvgNullPercentage)
	assert.Equal(t, 70.0, summary.AvgUniquePercentage)
	assert.Equal(t, 90.0, summary.Completeness)
	assert.Equal(t, 70.0, summary.Uniqueness)

	assert.Equal(t, NotableColumn{Name: "score", Percentage: 20}, summary.HighestNullColumn)
	assert.Equal(t, NotableColumn{Name: "tag", Percentage: 30}, summary.LowestUniqueColumn)
}

func TestCalculateSummaryZeroUniqueNeverLowest(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("empty", numericRecord(analyser.Stats{Count: 5, UniquePercentage: 0}))
	res.Add("full", numericRecord(analyser.Stats{Count: 5, UniquePercentage: 40}))

	summary := agg.CalculateSummary(res)
	assert.Equal(t, "full", summary.LowestUniqueColumn.Name)
	assert.Equal(t, 40.0, summary.LowestUniqueColumn.Percentage)
}

func TestCalculateSummaryHighestNullTieKeepsFirst(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("a", numericRecord(analyser.Stats{Count: 5, NullPercentage: 20, UniquePercentage: 50}))
	res.Add("b", numericRecord(analyser.Stats{Count: 5, NullPercentage: 20, UniquePercentage: 50}))

	summary := agg.CalculateSummary(res)
	assert.Equal(t, "a", summary.HighestNullColumn.Name)
}

func evaluationFor(t *testing.T, res *analyser.Results, rs ...rules.Rule) *rules.Evaluation {
	t.Helper()
	engine := rules.NewEngine(logging.New(logging.LevelError))
	for _, r := range rs {
		engine.AddRule(r)
	}
	return engine.EvaluateAll(res)
}

func TestCalculateHealthScorePerfect(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("id", numericRecord(analyser.Stats{
		Count: 5, NullPercentage: 0, UniqueCount: 5, UniquePercentage: 100,
	}))

	eval := evaluationFor(t, res,
		rules.NewNullPercentageRule(5.0),
		rules.NewUniqueValueRule(90.0),
	)

	health := agg.CalculateHealthScore(res, eval)
	assert.Equal(t, 100.0, health.Score)
	assert.Equal(t, "Excellent", health.Status)
	assert.Equal(t, 100.0, health.RuleCompliance)
	assert.Equal(t, 100.0, health.Completeness)
	assert.Equal(t, map[string]float64{"id": 100.0}, health.ColumnScores)
}

func TestCalculateHealthScoreMixed(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("id", numericRecord(analyser.Stats{
		Count: 10, NullCount: 2, NullPercentage: 20, UniquePercentage: 40,
	}))

	eval := evaluationFor(t, res,
		rules.NewNullPercentageRule(5.0), // fails: 20 > 5
		rules.NewUniqueValueRule(30.0),   // passes: 40 >= 30
	)

	health := agg.CalculateHealthScore(res, eval)
	// compliance 50, completeness 80 -> 50*0.7 + 80*0.3 = 59
	assert.Equal(t, 59.0, health.Score)
	assert.Equal(t, "Poor", health.Status)
	assert.Equal(t, 50.0, health.RuleCompliance)
	assert.Equal(t, 80.0, health.Completeness)
	assert.Equal(t, map[string]float64{"id": 50.0}, health.ColumnScores)
}

func TestHealthStatusTiers(t *testing.T) {
	agg := testAggregator()
	res := analyser.NewResults()
	res.Add("id", numericRecord(analyser.Stats{Count: 5, NullPercentage: 0, UniquePercentage: 100}))

	tiers := []struct {
		passed, total int
		want          string
	}{
		{10, 10, "Excellent"}, // score 100
		{8, 10, "Good"},       // 80*0.7 + 30 = 86
		{5, 10, "Fair"},       // 35 + 30 = 65
		{2, 10, "Poor"},       // 14 + 30 = 44
	}
	for _, tc := range tiers {
		engine := rules.NewEngine(logging.New(logging.LevelError))
		for i := 0; i < tc.passed; i++ {
			engine.AddRule(rules.NewNullPercentageRule(5.0)) // passes
		}
		for i := 0; i < tc.total-tc.passed; i++ {
			engine.AddRule(rules.NewUniqueValueRule(101.0)) // cannot pass
		}
		health := agg.CalculateHealthScore(res, engine.EvaluateAll(res))
		assert.Equal(t, tc.want, health.Status, "with %d/%d rules passing", tc.passed, tc.total)
	}
}

func TestHealthScoreNoRules(t *testing.T) {
	agg := testAggregator()

	res := analyser.NewResults()
	res.Add("id", numericRecord(analyser.Stats{Count: 5, NullPercentage: 0, UniquePercentage: 100}))

	health := agg.CalculateHealthScore(res, nil)
	assert.Equal(t, 0.0, health.RuleCompliance)
	assert.Equal(t, 30.0, health.Score) // 0*0.7 + 100*0.3
	assert.Equal(t, "Poor", health.Status)
	assert.Empty(t, health.ColumnScores)
}
