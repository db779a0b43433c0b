// Package engine evaluates candidate rules against a fact bundle.
package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/clusterops/runbook/pkg/diagnosis"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/rule"
)

// Evaluate runs every rule's condition against the fact bundle and collects
// all matches in ascending priority order; declaration order breaks ties.
//
// Evaluate is a pure function over (rules, facts): it performs no I/O, never
// mutates its inputs, and produces identical ordered output for identical
// inputs across runs. Missing fact keys are non-matches, never errors, so
// evaluation itself cannot fail.
func Evaluate(rules []rule.Rule, facts fact.Bundle) diagnosis.Diagnosis {
	start := time.Now()

	ordered := make([]rule.Rule, len(rules))
	copy(ordered, rules)

	// Stable sort keeps declaration order within one priority, which is
	// what makes the output reproducible across runs.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	var matches []diagnosis.Match
	for i := range ordered {
		r := &ordered[i]
		if !r.Matches(facts) {
			continue
		}
		matches = append(matches, diagnosis.Match{
			RuleID:          r.ID,
			Priority:        r.Priority,
			Message:         r.Remediation.Message,
			SuggestedAction: r.Remediation.Action,
		})
	}

	evaluateDuration.Observe(time.Since(start).Seconds())
	evaluateTotal.Inc()
	matchedRules.Observe(float64(len(matches)))

	slog.Debug("rule evaluation complete",
		slog.Int("rules", len(ordered)),
		slog.Int("matched", len(matches)),
	)

	if matches == nil {
		// An empty diagnosis is a healthy result; keep it an empty
		// list rather than null in serialized form.
		matches = []diagnosis.Match{}
	}

	return diagnosis.Diagnosis{Matches: matches}
}
