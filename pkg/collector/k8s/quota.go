package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// ResourceQuotaCollector gathers quota usage for one namespace.
// The Ref names the namespace; all quotas in it are aggregated.
type ResourceQuotaCollector struct {
	Clientset kubernetes.Interface
}

// Collect lists the namespace's quotas and reports the worst used/hard
// ratio across all constrained resources, flattened into quota.* facts.
func (c *ResourceQuotaCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	namespace := ref.Namespace
	if namespace == "" {
		namespace = ref.Name
	}

	quotas, err := cs.CoreV1().ResourceQuotas(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to list resourcequotas in %q", namespace)
	}

	facts := fact.Bundle{
		"quota.count": fact.Number(float64(len(quotas.Items))),
	}
	if len(quotas.Items) == 0 {
		return facts, nil
	}

	worstRatio := 0.0
	exceeded := false
	limitsRequired := false

	for _, q := range quotas.Items {
		for name, hard := range q.Status.Hard {
			if name == "limits.cpu" || name == "limits.memory" {
				limitsRequired = true
			}

			used, ok := q.Status.Used[name]
			if !ok || hard.IsZero() {
				continue
			}

			ratio := float64(used.MilliValue()) / float64(hard.MilliValue())
			if ratio > worstRatio {
				worstRatio = ratio
			}
			if used.Cmp(hard) >= 0 {
				exceeded = true
			}
		}
	}

	facts["quota.usedRatio"] = fact.Number(worstRatio)
	facts["quota.exceeded"] = fact.Bool(exceeded)
	facts["quota.limitsRequired"] = fact.Bool(limitsRequired)

	return facts, nil
}
