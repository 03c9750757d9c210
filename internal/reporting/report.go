// Package reporting renders analysis and rule results into the canonical
// text report and the JSON export shape. It never touches the filesystem;
// writing reports anywhere is the caller's job.
package reporting

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/analysis"
	"github.com/datacanary/datacanary/internal/logging"
	"github.com/datacanary/datacanary/internal/rules"
)

const timestampLayout = "2006-01-02 15:04:05"

// Renderer produces text reports. The output is a pure function of the
// inputs and the injected clock.
type Renderer struct {
	agg *analysis.Aggregator
	log *logging.Logger
	now func() time.Time
}

func NewRenderer(log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.Default
	}
	return &Renderer{
		agg: analysis.NewAggregator(log),
		log: log,
		now: time.Now,
	}
}

// WithClock overrides the generation timestamp source.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// GenerateTextReport renders the full quality report for one dataset.
func (r *Renderer) GenerateTextReport(datasetID string, res *analyser.Results, eval *rules.Evaluation) string {
	r.log.Info("generating text report for dataset: %s", datasetID)

	summary := r.agg.CalculateSummary(res)
	health := r.agg.CalculateHealthScore(res, eval)
	insights := r.agg.DataInsights(res)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("= DataCanary Quality Report =")
	line("Dataset: %s", datasetID)
	line("Generated: %s", r.now().Format(timestampLayout))
	line("Total columns: %d", res.Len())
	line("Health Score: %g (%s)", health.Score, health.Status)
	line("")

	line("== Dataset Summary ==")
	line("Total columns: %d", summary.TotalColumns)
	kinds := make([]string, 0, len(summary.ColumnTypes))
	for _, kc := range summary.ColumnTypes {
		kinds = append(kinds, fmt.Sprintf("%s: %d", kc.Kind, kc.Count))
	}
	line("Column types: %s", strings.Join(kinds, ", "))
	line("Columns with nulls: %d (%g%%)", summary.ColumnsWithNulls, summary.ColumnsWithNullsPercentage)
	line("Average null percentage: %g%%", summary.AvgNullPercentage)
	line("Average unique percentage: %g%%", summary.AvgUniquePercentage)
	line("")

	if len(insights.Summary) > 0 {
		line("== Data Insights ==")
		for _, s := range insights.Summary {
			line("- %s", s)
		}
		line("")
	}

	if len(insights.Recommendations) > 0 {
		line("== Recommendations ==")
		for _, rec := range insights.Recommendations {
			line("- %s", rec)
		}
		line("")
	}

	totalRules, passedRules := 0, 0
	for _, column := range eval.Columns() {
		outcomes := eval.Get(column)
		rec, _ := res.Get(column)

		passed := 0
		for _, o := range outcomes {
			if o.Result.Passed {
				passed++
			}
		}
		totalRules += len(outcomes)
		passedRules += passed

		line("== Column: %s [%s] ==", column, glyph(passed == len(outcomes)))
		line("Type: %s", rec.Type)
		line("Rules: %d/%d passed", passed, len(outcomes))

		line("Statistics:")
		for _, pair := range rec.Stats.Pairs() {
			line("  %s: %s", pair.Key, pair.Value)
		}

		line("Rule Results:")
		for _, o := range outcomes {
			message := o.Result.Message
			if message == "" {
				message = "No details"
			}
			line("  [%s] %s: %s", glyph(o.Result.Passed), o.RuleName, message)
		}
		line("")
	}

	passRate := 0.0
	if totalRules > 0 {
		passRate = float64(passedRules) / float64(totalRules) * 100
	}
	overall := "FAILED"
	if passRate == 100.0 {
		overall = "PASSED"
	}

	line("== Summary ==")
	line("Total rules evaluated: %d", totalRules)
	line("Rules passed: %d (%.1f%%)", passedRules, passRate)
	b.WriteString(fmt.Sprintf("Overall status: %s", overall))

	return b.String()
}

func glyph(passed bool) string {
	if passed {
		return "✓"
	}
	return "✗"
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-_]`)

// ReportFilename builds the conventional report filename for a dataset id,
// stripping path and extension and replacing awkward characters.
func ReportFilename(datasetID string, at time.Time) string {
	name := filepath.Base(datasetID)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return fmt.Sprintf("datacanary_report_%s_%s.txt", name, at.Format("20060102_150405"))
}
