package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datacanary/datacanary/internal/logging"
)

// ruleSpec is one rule entry in a configuration file. Unused fields are
// simply ignored by the factory for that type.
type ruleSpec struct {
	Type      string   `json:"type" yaml:"type"`
	Threshold *float64 `json:"threshold" yaml:"threshold"`
	MinValue  *float64 `json:"min_value" yaml:"min_value"`
	MaxValue  *float64 `json:"max_value" yaml:"max_value"`
	Pattern   string   `json:"pattern" yaml:"pattern"`
}

type ruleFile struct {
	// Pointer so an absent 'rules' key is distinguishable from an empty list.
	Rules *[]ruleSpec `json:"rules" yaml:"rules"`
}

// ruleFactories maps a configuration type tag to its constructor.
// PatternMatchRule is deliberately absent: it cannot pass against the
// statistics this pipeline produces.
var ruleFactories = map[string]func(ruleSpec) Rule{
	"null_percentage": func(s ruleSpec) Rule {
		threshold := 5.0
		if s.Threshold != nil {
			threshold = *s.Threshold
		}
		return NewNullPercentageRule(threshold)
	},
	"unique_value": func(s ruleSpec) Rule {
		threshold := 90.0
		if s.Threshold != nil {
			threshold = *s.Threshold
		}
		return NewUniqueValueRule(threshold)
	},
	"value_range": func(s ruleSpec) Rule {
		return NewValueRangeRule(s.MinValue, s.MaxValue)
	},
}

// LoadRules reads rule definitions from a YAML or JSON file. Entries with a
// missing or unknown type are skipped with a warning; anything that makes
// the file itself unusable is a fatal error to the caller.
func LoadRules(path string, log *logging.Logger) ([]Rule, error) {
	if log == nil {
		log = logging.Default
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule configuration %s: %w", path, err)
	}

	var file ruleFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse rule configuration %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse rule configuration %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported rule file extension %q: use .yaml, .yml, or .json", ext)
	}

	if file.Rules == nil {
		return nil, fmt.Errorf("invalid configuration format: missing 'rules' key")
	}

	var loaded []Rule
	for _, spec := range *file.Rules {
		if spec.Type == "" {
			log.Warn("rule configuration missing 'type' key, skipping")
			continue
		}
		factory, ok := ruleFactories[spec.Type]
		if !ok {
			log.Warn("unknown rule type: %s", spec.Type)
			continue
		}
		loaded = append(loaded, factory(spec))
	}

	log.Info("loaded %d rules from %s", len(loaded), path)
	return loaded, nil
}

// ApplyRules loads a rule file and adds every rule to the engine.
func ApplyRules(engine *Engine, path string, log *logging.Logger) error {
	loaded, err := LoadRules(path, log)
	if err != nil {
		return err
	}
	for _, r := range loaded {
		engine.AddRule(r)
	}
	return nil
}
