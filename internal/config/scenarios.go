package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/rentcomp/internal/pipeline"
)

// Scenario is a named set of overrides applied on top of the base calc
// settings. Nil fields keep the base value.
type Scenario struct {
	Name                   string   `yaml:"name"`
	DownpayPercent         *float64 `yaml:"downpay_percent,omitempty"`
	InterestRate           *float64 `yaml:"interest_rate,omitempty"`
	MortgagePeriod         *float64 `yaml:"mortgage_period,omitempty"`
	AppreciationRate       *float64 `yaml:"appreciation_rate,omitempty"`
	AdjustedSQFT           *float64 `yaml:"adjusted_sqft,omitempty"`
	DepreciationMultiplier *float64 `yaml:"depreciation_multiplier,omitempty"`
}

var scenarioName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// LoadScenarios reads a scenarios file:
//
//	scenarios:
//	  - name: high-rate
//	    interest_rate: 7
//	  - name: cash
//	    downpay_percent: 100
//
// Names must be unique and usable in a file name.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read scenarios %s", path)
	}

	var wrapper struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "config: parse scenarios")
	}
	if len(wrapper.Scenarios) == 0 {
		return nil, eris.Errorf("config: no scenarios in %s", path)
	}

	seen := make(map[string]bool, len(wrapper.Scenarios))
	for i, s := range wrapper.Scenarios {
		if !scenarioName.MatchString(s.Name) {
			return nil, eris.Errorf("config: scenario %d has invalid name %q", i, s.Name)
		}
		if seen[s.Name] {
			return nil, eris.Errorf("config: duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
	}

	return wrapper.Scenarios, nil
}

// Apply returns base with the scenario's overrides set.
func (s Scenario) Apply(base pipeline.Configuration) pipeline.Configuration {
	cfg := base
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.DownpayPercent, s.DownpayPercent)
	set(&cfg.InterestRate, s.InterestRate)
	set(&cfg.MortgagePeriod, s.MortgagePeriod)
	set(&cfg.AppreciationRate, s.AppreciationRate)
	set(&cfg.AdjustedSQFT, s.AdjustedSQFT)
	set(&cfg.DepreciationMultiplier, s.DepreciationMultiplier)
	return cfg
}

// ScenarioOutputPath inserts the scenario name before the extension:
// out/results.csv becomes out/results-high-rate.csv.
func ScenarioOutputPath(output, name string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "-" + name + ext
}
