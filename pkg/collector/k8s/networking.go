package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// NetworkingCollector gathers the network policy posture around one pod.
type NetworkingCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the pod and the NetworkPolicies in its namespace and
// reports whether any policy selects (isolates) it, flattened into net.*
// facts. Connectivity facts such as net.dnsResolves come from active probes
// outside the API and are supplied by the caller when available.
func (c *NetworkingCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	pod, err := cs.CoreV1().Pods(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get pod %s", ref)
	}

	policies, err := cs.NetworkingV1().NetworkPolicies(ref.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to list networkpolicies in %q", ref.Namespace)
	}

	isolated := false
	for _, policy := range policies.Items {
		selector, err := metav1.LabelSelectorAsSelector(&policy.Spec.PodSelector)
		if err != nil {
			continue
		}
		if selector.Matches(labels.Set(pod.Labels)) {
			isolated = true
			break
		}
	}

	return fact.Bundle{
		"net.policyCount": fact.Number(float64(len(policies.Items))),
		"net.podIsolated": fact.Bool(isolated),
	}, nil
}
