package rule

import (
	"log/slog"
	"strings"

	"github.com/clusterops/runbook/pkg/fact"
)

// Matches reports whether the rule's condition holds for the given fact
// bundle. The condition is the conjunction of all structured clauses plus
// the compiled expression, when present.
//
// Matches is pure: it never mutates the rule or the bundle and performs
// no I/O, so identical inputs always produce identical results.
func (r *Rule) Matches(facts fact.Bundle) bool {
	for _, c := range r.When {
		if !c.Matches(facts) {
			return false
		}
	}

	if r.program != nil {
		ok, err := r.program.eval(facts)
		if err != nil {
			// A runtime evaluation error (typically a fact key the
			// expression references being absent) is a non-match,
			// never a failure of the diagnosis itself.
			slog.Debug("rule expression evaluation failed",
				slog.String("rule", r.ID),
				slog.Any("error", err),
			)
			return false
		}
		if !ok {
			return false
		}
	}

	return true
}

// Matches reports whether the clause holds for the given fact bundle.
// A missing fact key makes "exists" false and every other comparison a
// non-match; it is never an error.
func (c Clause) Matches(facts fact.Bundle) bool {
	v, present := facts.Get(c.Key)

	if c.Op == OpExists {
		return present
	}
	if !present {
		return false
	}

	switch c.Op {
	case OpEqual:
		return scalarEqual(v, c.Value)
	case OpNotEqual:
		return !scalarEqual(v, c.Value)
	case OpContains:
		return strings.Contains(v.StringValue(), c.Value.StringValue())
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return orderedCompare(c.Op, v, c.Value)
	}

	return false
}

// scalarEqual compares two scalars, numerically when both sides are numeric
// so that "2" and 2.0 observed from different sources still compare equal.
func scalarEqual(a, b fact.Value) bool {
	if an, ok := a.NumberValue(); ok {
		if bn, ok := b.NumberValue(); ok {
			return an == bn
		}
	}
	return a.StringValue() == b.StringValue()
}

// orderedCompare applies an ordering operator. Non-numeric operands make
// the comparison undefined, which is a non-match.
func orderedCompare(op Op, a, b fact.Value) bool {
	an, ok := a.NumberValue()
	if !ok {
		return false
	}
	bn, ok := b.NumberValue()
	if !ok {
		return false
	}

	switch op {
	case OpLess:
		return an < bn
	case OpGreater:
		return an > bn
	case OpLessEqual:
		return an <= bn
	case OpGreaterEqual:
		return an >= bn
	}
	return false
}
