// Package k8s implements evidence collectors over the Kubernetes API.
//
// Each collector gathers the observed attributes one resource kind's rules
// evaluate, flattened into namespaced fact keys such as "pod.phase" or
// "node.taintCount". Collectors are read-only: they never mutate cluster
// state.
package k8s

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	rberrors "github.com/clusterops/runbook/pkg/errors"
)

// ensureClient returns the injected clientset or discovers one from the
// environment on first use.
func ensureClient(cs kubernetes.Interface) (kubernetes.Interface, error) {
	if cs != nil {
		return cs, nil
	}
	client, err := GetKubeClient()
	if err != nil {
		return nil, rberrors.Wrap(err, rberrors.ErrCodeCollectionFailed,
			"failed to get kubernetes client")
	}
	return client, nil
}

// collectFailed wraps a transport or API failure as a COLLECTION_FAILED
// structured error.
func collectFailed(err error, format string, args ...any) error {
	return rberrors.Wrap(err, rberrors.ErrCodeCollectionFailed, format, args...)
}

// eventMessages returns the concatenated messages of the events attached to
// the named object, most recent last. Warning events carry the scheduling
// and probe failures the rules match on.
func eventMessages(ctx context.Context, cs kubernetes.Interface, namespace, kind, name string) (string, error) {
	selector := fmt.Sprintf("involvedObject.kind=%s,involvedObject.name=%s", kind, name)
	events, err := cs.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: selector,
	})
	if err != nil {
		return "", err
	}

	var messages []string
	for _, ev := range events.Items {
		if ev.Message == "" {
			continue
		}
		messages = append(messages, ev.Message)
	}
	return strings.Join(messages, "; "), nil
}

// podIsReady reports whether the pod's Ready condition is true.
func podIsReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
