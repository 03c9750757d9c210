package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/dataset"
	"github.com/datacanary/datacanary/internal/logging"
)

// Outcome records one rule evaluation for one column.
type Outcome struct {
	RuleName    string `json:"rule_name"`
	Description string `json:"description"`
	Result      Result `json:"result"`
}

// Evaluation maps column names to their rule outcomes, preserving the
// analysis column order.
type Evaluation struct {
	columns  []string
	outcomes map[string][]Outcome
}

func newEvaluation() *Evaluation {
	return &Evaluation{outcomes: make(map[string][]Outcome)}
}

func (e *Evaluation) add(column string, outcomes []Outcome) {
	e.columns = append(e.columns, column)
	e.outcomes[column] = outcomes
}

// Columns returns the evaluated column names in analysis order.
func (e *Evaluation) Columns() []string { return e.columns }

// Get returns the outcomes for a column in rule-insertion order.
func (e *Evaluation) Get(column string) []Outcome { return e.outcomes[column] }

// MarshalJSON writes an object keyed by column name in analysis order.
func (e *Evaluation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range e.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.outcomes[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Engine evaluates an ordered rule set against analysis results. Add every
// rule before the first evaluate call; the rule list must not change while
// an evaluation is running.
type Engine struct {
	rules []Rule
	log   *logging.Logger
}

func NewEngine(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default
	}
	return &Engine{log: log}
}

// AddRule appends a rule. Rules are evaluated in insertion order.
func (e *Engine) AddRule(r Rule) {
	e.rules = append(e.rules, r)
	e.log.Info("added rule: %s - %s", r.Name(), r.Description())
}

// RuleCount returns the number of configured rules.
func (e *Engine) RuleCount() int { return len(e.rules) }

// EvaluateColumn runs every applicable rule against one column's record.
// A rule failure never stops evaluation of the remaining rules.
func (e *Engine) EvaluateColumn(column string, rec analyser.Record) []Outcome {
	e.log.Debug("evaluating %d rules for column: %s", len(e.rules), column)

	var outcomes []Outcome
	for _, rule := range e.rules {
		if !applicable(rule, rec.Type) {
			e.log.Debug("skipping rule %s - not applicable to column %s of kind %s",
				rule.Name(), column, rec.Type)
			continue
		}

		result := e.evaluate(rule, rec, column)
		outcomes = append(outcomes, Outcome{
			RuleName:    rule.Name(),
			Description: rule.Description(),
			Result:      result,
		})
	}

	passed := 0
	for _, o := range outcomes {
		if o.Result.Passed {
			passed++
		}
	}
	e.log.Debug("column %s: %d rules passed, %d rules failed",
		column, passed, len(outcomes)-passed)
	return outcomes
}

// EvaluateAll evaluates every column of the analysis results in order.
func (e *Engine) EvaluateAll(res *analyser.Results) *Evaluation {
	e.log.Info("evaluating rules for %d columns", res.Len())
	eval := newEvaluation()
	for _, name := range res.Columns() {
		rec, _ := res.Get(name)
		eval.add(name, e.EvaluateColumn(name, rec))
	}
	return eval
}

// evaluate contains one rule's failure modes: a missing-statistics error
// becomes the standard unavailable-statistics result, any other error or
// panic becomes an evaluation-error result.
func (e *Engine) evaluate(rule Rule, rec analyser.Record, column string) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			e.log.Error("panic evaluating rule %s for column %s: %v", rule.Name(), column, p)
			result = Result{
				Passed:  false,
				Reason:  "Evaluation error",
				Details: fmt.Sprint(p),
			}
		}
	}()

	result, err := rule.Evaluate(rec)
	if err == nil {
		return result
	}

	var missing *MissingStatisticsError
	if errors.As(err, &missing) {
		e.log.Warn("cannot evaluate %s for column %s: required statistics not found",
			rule.Name(), column)
		return Result{
			Passed:  false,
			Reason:  "Required statistics not available",
			Details: missingDetails(missing.Stats),
		}
	}

	e.log.Error("error evaluating rule %s for column %s: %v", rule.Name(), column, err)
	return Result{
		Passed:  false,
		Reason:  "Evaluation error",
		Details: err.Error(),
	}
}

func applicable(rule Rule, kind dataset.Kind) bool {
	kinds := rule.ApplicableKinds()
	if kinds == nil {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func missingDetails(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("Missing %s statistic", quoted[0])
	}
	return fmt.Sprintf("Missing %s statistics", strings.Join(quoted, " or "))
}
