package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// NamespaceCollector gathers the observed attributes of one namespace.
type NamespaceCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the namespace and flattens its phase and finalizers into
// ns.* facts.
func (c *NamespaceCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	ns, err := cs.CoreV1().Namespaces().Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get namespace %s", ref.Name)
	}

	return fact.Bundle{
		"ns.phase":          fact.String(string(ns.Status.Phase)),
		"ns.finalizerCount": fact.Number(float64(len(ns.Spec.Finalizers) + len(ns.Finalizers))),
	}, nil
}
