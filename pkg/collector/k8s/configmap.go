package k8s

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// ConfigMapCollector gathers the existence and shape of one ConfigMap.
type ConfigMapCollector struct {
	Clientset kubernetes.Interface
}

// Collect checks the ConfigMap exists and records its key count, flattened
// into cm.* facts. Reference-level facts (which pod consumes which key) are
// supplied by the caller, which knows the consuming workload.
func (c *ConfigMapCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	cm, err := cs.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return fact.Bundle{
			"cm.exists": fact.Bool(false),
		}, nil
	}
	if err != nil {
		return nil, collectFailed(err, "failed to get configmap %s", ref)
	}

	return fact.Bundle{
		"cm.exists":   fact.Bool(true),
		"cm.keyCount": fact.Number(float64(len(cm.Data) + len(cm.BinaryData))),
	}, nil
}
