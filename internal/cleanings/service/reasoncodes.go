package service

import (
	"fmt"
	"os"

	"stayclean_backend/internal/cleanings/transport"

	"gopkg.in/yaml.v3"
)

// ReasonCategory splits persisted attention codes into configuration
// problems (a team/property setup gap) and execution problems (a gap in who
// actually does the work). The category drives the suppression rules in the
// attention engine: configuration codes are silenced when the property does
// have available teams, because the real finding then is the more specific
// "nobody assigned" symptom.
type ReasonCategory string

const (
	CategoryConfiguration ReasonCategory = "configuration"
	CategoryExecution     ReasonCategory = "execution"
)

// ReasonDefinition maps a persisted attention code to its rendered form.
type ReasonDefinition struct {
	Code              string             `yaml:"code"`
	Title             string             `yaml:"title"`
	Detail            string             `yaml:"detail"`
	Severity          transport.Severity `yaml:"severity"`
	Category          ReasonCategory     `yaml:"category"`
	RemediationLabel  string             `yaml:"remediationLabel"`
	RemediationTarget string             `yaml:"remediationTarget"`
}

// ReasonTable translates codes the write path persisted on a job into
// human-readable reasons. The table is data, not logic: new codes can be
// added (built in or via a YAML file) without touching evaluation order.
type ReasonTable struct {
	defs map[string]ReasonDefinition
}

// fallbackDefinition covers codes the write path introduced before this
// table learned about them. Unknown codes must render, never error.
var fallbackDefinition = ReasonDefinition{
	Code:     transport.CodeManualReviewRequired,
	Title:    "Cleaning flagged for manual review",
	Detail:   "The job was flagged for attention with an unrecognized reason code.",
	Severity: transport.SeverityCritical,
	Category: CategoryExecution,
}

var builtinDefinitions = []ReasonDefinition{
	{
		Code:              "missing_team_configuration",
		Title:             "No cleaning team configured for this property",
		Severity:          transport.SeverityCritical,
		Category:          CategoryConfiguration,
		RemediationLabel:  "Configure teams",
		RemediationTarget: "property-teams",
	},
	{
		Code:              "property_setup_incomplete",
		Title:             "Property setup is incomplete",
		Severity:          transport.SeverityWarning,
		Category:          CategoryConfiguration,
		RemediationLabel:  "Finish property setup",
		RemediationTarget: "property-settings",
	},
	{
		Code:     "no_eligible_member_found",
		Title:    "No eligible member was found at scheduling time",
		Severity: transport.SeverityCritical,
		Category: CategoryExecution,
	},
	{
		Code:     "member_schedule_conflict",
		Title:    "Assigned member had a schedule conflict",
		Severity: transport.SeverityCritical,
		Category: CategoryExecution,
	},
	{
		Code:     "checkout_rescheduled",
		Title:    "Checkout moved after the cleaning was planned",
		Severity: transport.SeverityWarning,
		Category: CategoryExecution,
	},
}

// DefaultReasonTable returns the table with only the built-in definitions.
func DefaultReasonTable() *ReasonTable {
	table := &ReasonTable{defs: make(map[string]ReasonDefinition, len(builtinDefinitions))}
	for _, def := range builtinDefinitions {
		table.defs[def.Code] = def
	}
	return table
}

// LoadReasonTable returns the built-in table merged with definitions from a
// YAML file. File entries win over built-ins with the same code, so
// operators can both extend and re-word the table. An empty path returns the
// defaults.
func LoadReasonTable(path string) (*ReasonTable, error) {
	table := DefaultReasonTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reason table: %w", err)
	}

	var extra []ReasonDefinition
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse reason table: %w", err)
	}

	for _, def := range extra {
		if def.Code == "" {
			return nil, fmt.Errorf("reason table entry missing code")
		}
		if def.Severity == "" {
			def.Severity = transport.SeverityCritical
		}
		if def.Category == "" {
			def.Category = CategoryExecution
		}
		table.defs[def.Code] = def
	}

	return table, nil
}

// Resolve maps a persisted code to its definition. Nil or unknown codes fall
// back to the generic manual-review definition.
func (t *ReasonTable) Resolve(code *string) ReasonDefinition {
	if code == nil {
		return fallbackDefinition
	}
	if def, ok := t.defs[*code]; ok {
		return def
	}
	return fallbackDefinition
}

// Reason renders a definition as a transport reason.
func (d ReasonDefinition) Reason() transport.Reason {
	reason := transport.Reason{
		Code:     d.Code,
		Title:    d.Title,
		Detail:   d.Detail,
		Severity: d.Severity,
	}
	if d.RemediationLabel != "" {
		reason.Remediation = &transport.Remediation{
			Label:  d.RemediationLabel,
			Target: d.RemediationTarget,
		}
	}
	return reason
}
