package k8s

import (
	"context"
	"log/slog"
	"time"

	"github.com/distribution/reference"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// PodCollector gathers the observed attributes of one pod.
type PodCollector struct {
	Clientset kubernetes.Interface
}

// Collect fetches the pod, its container statuses, and its events, and
// flattens them into pod.* facts.
func (c *PodCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
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

	facts := fact.Bundle{
		"pod.phase":           fact.String(string(pod.Status.Phase)),
		"pod.ready":           fact.Bool(podIsReady(pod)),
		"pod.node":            fact.String(pod.Spec.NodeName),
		"pod.deletionPending": fact.Bool(pod.DeletionTimestamp != nil),
	}

	if pod.DeletionTimestamp != nil {
		facts["pod.terminationSeconds"] = fact.Number(time.Since(pod.DeletionTimestamp.Time).Seconds())
	}

	var restarts int32
	for _, cst := range pod.Status.ContainerStatuses {
		restarts += cst.RestartCount
		if cst.State.Waiting != nil {
			facts["pod.waitingReason"] = fact.String(cst.State.Waiting.Reason)
		}
		if cst.LastTerminationState.Terminated != nil {
			facts["pod.terminatedReason"] = fact.String(cst.LastTerminationState.Terminated.Reason)
		}
	}
	facts["pod.restartCount"] = fact.Number(float64(restarts))

	// Break the first container's image reference into registry,
	// repository, and tag so rules can match on each part.
	if len(pod.Spec.Containers) > 0 {
		addImageFacts(facts, pod.Spec.Containers[0].Image)
	}

	events, err := eventMessages(ctx, cs, ref.Namespace, "Pod", ref.Name)
	if err != nil {
		return nil, collectFailed(err, "failed to list events for pod %s", ref)
	}
	facts["pod.events"] = fact.String(events)

	slog.Debug("collected pod facts",
		slog.String("pod", ref.String()),
		slog.Int("facts", len(facts)),
	)

	return facts, nil
}

// addImageFacts parses a container image reference. An unparseable reference
// is recorded verbatim under pod.image so rules can still inspect it.
func addImageFacts(facts fact.Bundle, image string) {
	facts["pod.image"] = fact.String(image)

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return
	}

	facts["pod.image.registry"] = fact.String(reference.Domain(named))
	facts["pod.image.repository"] = fact.String(reference.Path(named))

	if tagged, ok := named.(reference.Tagged); ok {
		facts["pod.image.tag"] = fact.String(tagged.Tag())
	}
}
