package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// NodeCollector gathers the observed attributes of one node.
type NodeCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the node and flattens its conditions, taints, and
// schedulability into node.* facts.
func (c *NodeCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	node, err := cs.CoreV1().Nodes().Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get node %s", ref.Name)
	}

	facts := fact.Bundle{
		"node.unschedulable": fact.Bool(node.Spec.Unschedulable),
		"node.taintCount":    fact.Number(float64(len(node.Spec.Taints))),
	}

	// Absent conditions default to healthy; the Ready condition defaults
	// to not ready since a node without it is not schedulable anyway.
	ready := false
	memoryPressure := false
	diskPressure := false
	pidPressure := false
	for _, cond := range node.Status.Conditions {
		isTrue := cond.Status == corev1.ConditionTrue
		switch cond.Type {
		case corev1.NodeReady:
			ready = isTrue
		case corev1.NodeMemoryPressure:
			memoryPressure = isTrue
		case corev1.NodeDiskPressure:
			diskPressure = isTrue
		case corev1.NodePIDPressure:
			pidPressure = isTrue
		}
	}
	facts["node.ready"] = fact.Bool(ready)
	facts["node.memoryPressure"] = fact.Bool(memoryPressure)
	facts["node.diskPressure"] = fact.Bool(diskPressure)
	facts["node.pidPressure"] = fact.Bool(pidPressure)

	return facts, nil
}
