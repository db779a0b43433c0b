package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// ServiceCollector gathers the observed attributes of one service.
type ServiceCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the service, its endpoints, and the pods its selector
// matches, flattened into svc.* facts.
func (c *ServiceCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	svc, err := cs.CoreV1().Services(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get service %s", ref)
	}

	facts := fact.Bundle{
		"svc.type": fact.String(string(svc.Spec.Type)),
	}

	endpoints, err := cs.CoreV1().Endpoints(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get endpoints for service %s", ref)
	}

	ready := 0
	for _, subset := range endpoints.Subsets {
		ready += len(subset.Addresses)
	}
	facts["svc.endpointCount"] = fact.Number(float64(ready))

	// A headless or selector-less service legitimately matches no pods;
	// only report selector coverage when a selector is present.
	if len(svc.Spec.Selector) > 0 {
		pods, err := cs.CoreV1().Pods(ref.Namespace).List(ctx, metav1.ListOptions{
			LabelSelector: labels.Set(svc.Spec.Selector).String(),
		})
		if err != nil {
			return nil, collectFailed(err, "failed to list pods for service %s", ref)
		}
		facts["svc.selectorMatchesPods"] = fact.Bool(len(pods.Items) > 0)
	}

	if svc.Spec.Type == corev1.ServiceTypeLoadBalancer {
		facts["svc.externalIPPending"] = fact.Bool(len(svc.Status.LoadBalancer.Ingress) == 0)
	}

	return facts, nil
}
