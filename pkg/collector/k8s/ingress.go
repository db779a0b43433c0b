package k8s

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// IngressCollector gathers the observed attributes of one ingress.
type IngressCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the ingress and verifies that every referenced backend
// service and TLS secret exists, flattened into ingress.* facts.
func (c *IngressCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	ing, err := cs.NetworkingV1().Ingresses(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get ingress %s", ref)
	}

	className := ""
	if ing.Spec.IngressClassName != nil {
		className = *ing.Spec.IngressClassName
	}

	address := ""
	for _, lb := range ing.Status.LoadBalancer.Ingress {
		if lb.IP != "" {
			address = lb.IP
			break
		}
		if lb.Hostname != "" {
			address = lb.Hostname
			break
		}
	}

	facts := fact.Bundle{
		"ingress.className": fact.String(className),
		"ingress.address":   fact.String(address),
	}

	backendsExist := true
	for _, ruleSpec := range ing.Spec.Rules {
		if ruleSpec.HTTP == nil {
			continue
		}
		for _, path := range ruleSpec.HTTP.Paths {
			if path.Backend.Service == nil {
				continue
			}
			_, err := cs.CoreV1().Services(ref.Namespace).Get(ctx, path.Backend.Service.Name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				backendsExist = false
				continue
			}
			if err != nil {
				return nil, collectFailed(err, "failed to check backend service %q for ingress %s",
					path.Backend.Service.Name, ref)
			}
		}
	}
	facts["ingress.backendExists"] = fact.Bool(backendsExist)

	facts["ingress.tlsConfigured"] = fact.Bool(len(ing.Spec.TLS) > 0)
	if len(ing.Spec.TLS) > 0 {
		secretsExist := true
		for _, tls := range ing.Spec.TLS {
			if tls.SecretName == "" {
				continue
			}
			_, err := cs.CoreV1().Secrets(ref.Namespace).Get(ctx, tls.SecretName, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				secretsExist = false
				continue
			}
			if err != nil {
				return nil, collectFailed(err, "failed to check TLS secret %q for ingress %s",
					tls.SecretName, ref)
			}
		}
		facts["ingress.tlsSecretExists"] = fact.Bool(secretsExist)
	}

	return facts, nil
}
