// Package diagnosis defines the output types of a diagnostic run.
package diagnosis

import (
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/header"
	"github.com/clusterops/runbook/pkg/rule"
)

// Match is one remediation surfaced for a matched rule.
type Match struct {
	// RuleID identifies the rule that matched.
	RuleID string `json:"ruleId" yaml:"ruleId"`

	// Priority is the matched rule's priority, echoed for callers that
	// want to re-rank or group results.
	Priority int `json:"priority" yaml:"priority"`

	// Message is the operator-facing remediation text.
	Message string `json:"message" yaml:"message"`

	// SuggestedAction is the optional machine-readable action identifier.
	SuggestedAction string `json:"suggestedAction,omitempty" yaml:"suggestedAction,omitempty"`
}

// Diagnosis is the ordered set of remediations produced for one fact bundle.
// It is created per invocation and never persisted. All matching rules are
// surfaced, in ascending priority order, because multiple causes can
// co-occur on one resource.
type Diagnosis struct {
	header.Header `json:",inline" yaml:",inline"`

	// ResourceKind is the kind that was diagnosed.
	ResourceKind rule.Kind `json:"resourceKind" yaml:"resourceKind"`

	// Resource optionally names the inspected resource (namespace/name).
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`

	// Facts optionally echoes the bundle the diagnosis was computed from.
	Facts fact.Bundle `json:"facts,omitempty" yaml:"facts,omitempty"`

	// Matches is the ordered list of surfaced remediations. Empty when
	// no rule condition held, which is a healthy result, not an error.
	Matches []Match `json:"matches" yaml:"matches"`
}

// Healthy reports whether the diagnosis surfaced no remediation.
func (d *Diagnosis) Healthy() bool {
	return len(d.Matches) == 0
}
