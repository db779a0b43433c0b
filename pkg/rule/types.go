package rule

import (
	"github.com/clusterops/runbook/pkg/fact"
)

const (
	// RuleAPIVersion is the current schema version for rule files.
	RuleAPIVersion = "v1"
)

// Op is a comparison operator usable in a structured condition clause.
type Op string

const (
	OpEqual        Op = "="
	OpNotEqual     Op = "!="
	OpLess         Op = "<"
	OpGreater      Op = ">"
	OpLessEqual    Op = "<="
	OpGreaterEqual Op = ">="
	OpExists       Op = "exists"
	OpContains     Op = "contains"
)

// IsValid reports whether the operator is one of the supported comparisons.
func (o Op) IsValid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual, OpExists, OpContains:
		return true
	}
	return false
}

// Clause is a single comparison of one fact against a literal.
// For the "exists" operator the value is ignored.
type Clause struct {
	Key   string     `json:"key" yaml:"key"`
	Op    Op         `json:"op" yaml:"op"`
	Value fact.Value `json:"value,omitempty" yaml:"value,omitempty"`
}

// Remediation is the human-facing output of a matched rule.
type Remediation struct {
	// Message is the operator-facing remediation text.
	Message string `json:"message" yaml:"message"`

	// Action is an optional machine-readable suggested action identifier.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Rule is one condition-to-remediation pair scoped to a single resource kind.
// A rule's condition is either a conjunction of structured clauses (When) or
// a CEL expression over the fact bundle (Expr); a rule may carry both, in
// which case every clause and the expression must hold.
//
// Rules are loaded once at startup and never mutated afterwards, so a loaded
// rule set is safe to share across concurrent diagnoses without locking.
type Rule struct {
	// ID uniquely identifies the rule across all kinds.
	ID string `json:"id" yaml:"id"`

	// Kind is the resource kind the rule applies to.
	Kind Kind `json:"kind" yaml:"kind"`

	// Priority orders evaluation; lower runs first. Declaration order
	// breaks ties between rules of equal priority.
	Priority int `json:"priority" yaml:"priority"`

	// When is the conjunction of structured comparison clauses.
	When []Clause `json:"when,omitempty" yaml:"when,omitempty"`

	// Expr is an optional CEL expression over the fact bundle, bound to
	// the variable "facts". Compiled once at load time.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`

	// Remediation is returned to the caller when the rule matches.
	Remediation Remediation `json:"remediation" yaml:"remediation"`

	// program is the compiled form of Expr, populated by the store at
	// load time. Nil when Expr is empty.
	program compiledExpr
}

// File is the top-level schema of one rule definition file. Each file
// declares rules for exactly one resource kind.
type File struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	Rules      []Rule `json:"rules" yaml:"rules"`
}
