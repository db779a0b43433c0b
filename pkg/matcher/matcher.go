// Package matcher selects the candidate rule set for an observed resource.
package matcher

import (
	"log/slog"

	rberrors "github.com/clusterops/runbook/pkg/errors"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/rule"
)

// SelectRules filters the store's rule set to the rules declared for kind.
// The fact bundle is accepted for symmetry with evaluation but does not
// influence selection; filtering is by kind only and has no side effects.
//
// An unknown kind is rejected with an UNKNOWN_KIND structured error. When a
// supported kind is close by edit distance, the error message suggests it.
func SelectRules(store *rule.Store, kind rule.Kind, facts fact.Bundle) ([]rule.Rule, error) {
	if !kind.IsValid() {
		if nearest, ok := rule.NearestKind(kind.String()); ok {
			return nil, rberrors.New(rberrors.ErrCodeUnknownKind,
				"unknown resource kind %q (did you mean %q?)", kind, nearest)
		}
		return nil, rberrors.New(rberrors.ErrCodeUnknownKind,
			"unknown resource kind %q, supported kinds: %v", kind, rule.SupportedKinds())
	}

	rules := store.RulesFor(kind)

	slog.Debug("selected candidate rules",
		slog.String("kind", kind.String()),
		slog.Int("rules", len(rules)),
		slog.Int("facts", len(facts)),
	)

	return rules, nil
}
