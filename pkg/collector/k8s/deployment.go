package k8s

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// DeploymentCollector gathers the observed attributes of one deployment.
type DeploymentCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the deployment and flattens its replica counters and
// rollout conditions into deploy.* facts.
func (c *DeploymentCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	deploy, err := cs.AppsV1().Deployments(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get deployment %s", ref)
	}

	desired := int32(1)
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}

	facts := fact.Bundle{
		"deploy.desiredReplicas":   fact.Number(float64(desired)),
		"deploy.availableReplicas": fact.Number(float64(deploy.Status.AvailableReplicas)),
		"deploy.updatedReplicas":   fact.Number(float64(deploy.Status.UpdatedReplicas)),
		"deploy.readyReplicas":     fact.Number(float64(deploy.Status.ReadyReplicas)),
		"deploy.paused":            fact.Bool(deploy.Spec.Paused),
	}

	for _, cond := range deploy.Status.Conditions {
		if cond.Type == appsv1.DeploymentProgressing {
			facts["deploy.conditionReason"] = fact.String(cond.Reason)
		}
	}

	return facts, nil
}
