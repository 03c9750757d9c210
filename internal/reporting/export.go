package reporting

import (
	"encoding/json"
	"time"

	"github.com/datacanary/datacanary/internal/analyser"
	"github.com/datacanary/datacanary/internal/rules"
)

// Export is the JSON document the CLI writes next to a check run.
type Export struct {
	Dataset     string            `json:"dataset"`
	Timestamp   string            `json:"timestamp"`
	Analysis    *analyser.Results `json:"analysis"`
	RuleResults *rules.Evaluation `json:"rule_results"`
}

// NewExport stamps an export with the current time in ISO-8601.
func NewExport(datasetID string, res *analyser.Results, eval *rules.Evaluation) Export {
	return Export{
		Dataset:     datasetID,
		Timestamp:   time.Now().Format(time.RFC3339),
		Analysis:    res,
		RuleResults: eval,
	}
}

// JSON renders the export indented for humans.
func (e Export) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
