package diagnoser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/clusterops/runbook/pkg/collector"
	k8scollector "github.com/clusterops/runbook/pkg/collector/k8s"
	rberrors "github.com/clusterops/runbook/pkg/errors"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/header"
	"github.com/clusterops/runbook/pkg/rule"
)

func pendingPod(name string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "ns"},
		Status:     corev1.PodStatus{Phase: corev1.PodPending},
	}
}

func TestService_Diagnose(t *testing.T) {
	svc := New(WithVersion("test"))

	facts := fact.Bundle{
		"pod.phase":  fact.String("Pending"),
		"pod.events": fact.String("0/3 nodes are available: 3 Insufficient memory."),
	}

	d, err := svc.Diagnose(context.Background(), rule.KindPod, facts)
	require.NoError(t, err)

	assert.Equal(t, header.KindDiagnosis, d.Kind)
	assert.Equal(t, rule.KindPod, d.ResourceKind)
	require.NotEmpty(t, d.Matches)
	assert.Equal(t, "pod-pending-insufficient-resources", d.Matches[0].RuleID)
}

func TestService_DiagnoseHealthy(t *testing.T) {
	svc := New()

	d, err := svc.Diagnose(context.Background(), rule.KindPod, fact.Bundle{
		"pod.phase": fact.String("Running"),
		"pod.ready": fact.Bool(true),
	})
	require.NoError(t, err)
	assert.True(t, d.Healthy())
	assert.NotNil(t, d.Matches)
}

func TestService_DiagnoseUnknownKind(t *testing.T) {
	svc := New()

	d, err := svc.Diagnose(context.Background(), rule.Kind("Widget"), nil)
	assert.Nil(t, d)
	require.Error(t, err)
	assert.Equal(t, rberrors.ErrCodeUnknownKind, rberrors.CodeOf(err))
}

func TestService_DiagnoseWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	svc := New()
	d, err := svc.Diagnose(ctx, rule.KindPod, nil)

	assert.Nil(t, d)
	assert.Equal(t, context.Canceled, err)
}

func TestService_DiagnoseResource(t *testing.T) {
	fakeClient := fake.NewClientset(pendingPod("web-0"))
	svc := New(
		WithFactory(&k8scollector.DefaultFactory{Clientset: fakeClient}),
	)

	d, err := svc.DiagnoseResource(context.Background(), rule.KindPod,
		collector.Ref{Namespace: "ns", Name: "web-0"})
	require.NoError(t, err)

	assert.Equal(t, "ns/web-0", d.Resource)
	assert.Equal(t, rule.KindPod, d.ResourceKind)
	require.NotEmpty(t, d.Facts)
	assert.Equal(t, "Pending", d.Facts["pod.phase"].StringValue())
}

func TestService_DiagnoseResourceUnknownKindSkipsCollection(t *testing.T) {
	// No clientset is wired: reaching collection would fail loudly, so a
	// clean UNKNOWN_KIND proves validation happened first.
	svc := New(WithFactory(&k8scollector.DefaultFactory{}))

	d, err := svc.DiagnoseResource(context.Background(), rule.Kind("Widget"),
		collector.Ref{Namespace: "ns", Name: "web-0"})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.Equal(t, rberrors.ErrCodeUnknownKind, rberrors.CodeOf(err))
}

func TestService_DiagnoseResourceCollectionFailure(t *testing.T) {
	svc := New(
		WithFactory(&k8scollector.DefaultFactory{Clientset: fake.NewClientset()}),
	)

	d, err := svc.DiagnoseResource(context.Background(), rule.KindPod,
		collector.Ref{Namespace: "ns", Name: "missing"})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.Equal(t, rberrors.ErrCodeCollectionFailed, rberrors.CodeOf(err))
}

func TestService_SweepPods(t *testing.T) {
	fakeClient := fake.NewClientset(
		pendingPod("web-2"),
		pendingPod("web-0"),
		pendingPod("web-1"),
	)
	svc := New(
		WithClientset(fakeClient),
		WithFactory(&k8scollector.DefaultFactory{Clientset: fakeClient}),
	)

	results, err := svc.SweepPods(context.Background(), "ns")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "ns/web-0", results[0].Resource)
	assert.Equal(t, "ns/web-1", results[1].Resource)
	assert.Equal(t, "ns/web-2", results[2].Resource)
}

func TestService_SweepPodsEmptyNamespace(t *testing.T) {
	fakeClient := fake.NewClientset()
	svc := New(
		WithClientset(fakeClient),
		WithFactory(&k8scollector.DefaultFactory{Clientset: fakeClient}),
	)

	results, err := svc.SweepPods(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, results)
}
