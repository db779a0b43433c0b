package collector

import (
	"context"
	"fmt"

	"github.com/clusterops/runbook/pkg/fact"
)

// Ref identifies one resource instance to collect evidence about.
// Namespace is empty for cluster-scoped resources such as nodes.
type Ref struct {
	Namespace string
	Name      string
}

// String renders the reference as namespace/name.
func (r Ref) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return fmt.Sprintf("%s/%s", r.Namespace, r.Name)
}

// Collector gathers the observable facts about one resource instance.
// Implementations wrap the Kubernetes API and must honor context
// cancellation; a cancelled collection returns before any evaluation
// happens, so partial bundles are never diagnosed.
//
// Collection failures surface as COLLECTION_FAILED structured errors. The
// engine never retries a failed collection; retry policy belongs to the
// caller.
type Collector interface {
	Collect(ctx context.Context, ref Ref) (fact.Bundle, error)
}
