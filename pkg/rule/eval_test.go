package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clusterops/runbook/pkg/fact"
)

func TestClause_Equality(t *testing.T) {
	facts := fact.Bundle{
		"pod.phase":        fact.String("Pending"),
		"pod.restartCount": fact.Number(3),
		"pod.ready":        fact.Bool(false),
	}

	assert.True(t, Clause{Key: "pod.phase", Op: OpEqual, Value: fact.String("Pending")}.Matches(facts))
	assert.False(t, Clause{Key: "pod.phase", Op: OpEqual, Value: fact.String("Running")}.Matches(facts))
	assert.True(t, Clause{Key: "pod.phase", Op: OpNotEqual, Value: fact.String("Running")}.Matches(facts))

	// Numeric equality crosses representations.
	assert.True(t, Clause{Key: "pod.restartCount", Op: OpEqual, Value: fact.String("3")}.Matches(facts))

	// Boolean facts compare against their canonical text.
	assert.True(t, Clause{Key: "pod.ready", Op: OpEqual, Value: fact.Bool(false)}.Matches(facts))
	assert.False(t, Clause{Key: "pod.ready", Op: OpEqual, Value: fact.Bool(true)}.Matches(facts))
}

func TestClause_Ordering(t *testing.T) {
	facts := fact.Bundle{
		"node.taintCount": fact.Number(2),
		"node.name":       fact.String("worker-1"),
	}

	assert.True(t, Clause{Key: "node.taintCount", Op: OpLess, Value: fact.Number(3)}.Matches(facts))
	assert.True(t, Clause{Key: "node.taintCount", Op: OpLessEqual, Value: fact.Number(2)}.Matches(facts))
	assert.False(t, Clause{Key: "node.taintCount", Op: OpGreater, Value: fact.Number(2)}.Matches(facts))
	assert.True(t, Clause{Key: "node.taintCount", Op: OpGreaterEqual, Value: fact.Number(2)}.Matches(facts))

	// Ordering against a non-numeric operand is undefined, which is a
	// non-match rather than an error.
	assert.False(t, Clause{Key: "node.name", Op: OpGreater, Value: fact.Number(1)}.Matches(facts))
}

func TestClause_MissingKey(t *testing.T) {
	facts := fact.Bundle{"pod.phase": fact.String("Running")}

	// exists is false for a missing key; every other operator is a
	// non-match, never an error.
	assert.False(t, Clause{Key: "pod.gone", Op: OpExists}.Matches(facts))
	assert.False(t, Clause{Key: "pod.gone", Op: OpEqual, Value: fact.String("x")}.Matches(facts))
	assert.False(t, Clause{Key: "pod.gone", Op: OpNotEqual, Value: fact.String("x")}.Matches(facts))
	assert.False(t, Clause{Key: "pod.gone", Op: OpLess, Value: fact.Number(1)}.Matches(facts))
	assert.False(t, Clause{Key: "pod.gone", Op: OpContains, Value: fact.String("x")}.Matches(facts))

	assert.True(t, Clause{Key: "pod.phase", Op: OpExists}.Matches(facts))
}

func TestClause_Contains(t *testing.T) {
	facts := fact.Bundle{"pod.events": fact.String("0/3 nodes are available: Insufficient cpu")}

	assert.True(t, Clause{Key: "pod.events", Op: OpContains, Value: fact.String("Insufficient")}.Matches(facts))
	assert.False(t, Clause{Key: "pod.events", Op: OpContains, Value: fact.String("taint")}.Matches(facts))
}

func TestRule_ConjunctionAndExpr(t *testing.T) {
	facts := fact.Bundle{
		"pod.phase":  fact.String("Pending"),
		"pod.events": fact.String("Insufficient memory"),
	}

	r := Rule{
		ID:   "test",
		Kind: KindPod,
		When: []Clause{
			{Key: "pod.phase", Op: OpEqual, Value: fact.String("Pending")},
			{Key: "pod.events", Op: OpContains, Value: fact.String("Insufficient")},
		},
	}
	assert.True(t, r.Matches(facts))

	r.When = append(r.When, Clause{Key: "pod.ready", Op: OpExists})
	assert.False(t, r.Matches(facts))
}

func TestRule_ExprEvaluation(t *testing.T) {
	prg, err := compileExpr(`facts["deploy.availableReplicas"] < facts["deploy.desiredReplicas"]`)
	assert.NoError(t, err)

	r := Rule{ID: "expr-test", Kind: KindDeployment, program: prg}

	assert.True(t, r.Matches(fact.Bundle{
		"deploy.availableReplicas": fact.Number(1),
		"deploy.desiredReplicas":   fact.Number(3),
	}))
	assert.False(t, r.Matches(fact.Bundle{
		"deploy.availableReplicas": fact.Number(3),
		"deploy.desiredReplicas":   fact.Number(3),
	}))

	// An expression referencing an absent fact is a non-match, not an error.
	assert.False(t, r.Matches(fact.Bundle{}))
}

func TestCompileExpr_Invalid(t *testing.T) {
	_, err := compileExpr(`facts[`)
	assert.Error(t, err)
}
