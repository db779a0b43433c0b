package collector

import (
	"github.com/clusterops/runbook/pkg/rule"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	ForKind(kind rule.Kind) (Collector, error)
}
