package k8s

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// StorageCollector gathers the binding state of one PersistentVolumeClaim.
type StorageCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the claim, its storage class, the bound volume, and the
// claim's events, flattened into pvc.* and pv.* facts.
func (c *StorageCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	pvc, err := cs.CoreV1().PersistentVolumeClaims(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to get pvc %s", ref)
	}

	facts := fact.Bundle{
		"pvc.phase": fact.String(string(pvc.Status.Phase)),
	}

	if pvc.Spec.StorageClassName != nil && *pvc.Spec.StorageClassName != "" {
		_, err := cs.StorageV1().StorageClasses().Get(ctx, *pvc.Spec.StorageClassName, metav1.GetOptions{})
		switch {
		case apierrors.IsNotFound(err):
			facts["pvc.storageClassExists"] = fact.Bool(false)
		case err != nil:
			return nil, collectFailed(err, "failed to check storage class %q", *pvc.Spec.StorageClassName)
		default:
			facts["pvc.storageClassExists"] = fact.Bool(true)
		}
	}

	if pvc.Spec.VolumeName != "" {
		pv, err := cs.CoreV1().PersistentVolumes().Get(ctx, pvc.Spec.VolumeName, metav1.GetOptions{})
		if err != nil && !apierrors.IsNotFound(err) {
			return nil, collectFailed(err, "failed to get pv %q", pvc.Spec.VolumeName)
		}
		if err == nil {
			facts["pv.phase"] = fact.String(string(pv.Status.Phase))
		}
	}

	events, err := eventMessages(ctx, cs, ref.Namespace, "PersistentVolumeClaim", ref.Name)
	if err != nil {
		return nil, collectFailed(err, "failed to list events for pvc %s", ref)
	}
	facts["pvc.events"] = fact.String(events)

	return facts, nil
}
