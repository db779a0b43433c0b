package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/utils/ptr"

	"github.com/clusterops/runbook/pkg/collector"
)

func TestDeploymentCollector_Collect(t *testing.T) {
	fakeClient := fake.NewClientset(
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
			Spec: appsv1.DeploymentSpec{
				Replicas: ptr.To(int32(3)),
			},
			Status: appsv1.DeploymentStatus{
				AvailableReplicas: 1,
				UpdatedReplicas:   2,
				ReadyReplicas:     1,
				Conditions: []appsv1.DeploymentCondition{
					{
						Type:   appsv1.DeploymentProgressing,
						Reason: "ProgressDeadlineExceeded",
					},
				},
			},
		},
	)

	c := &DeploymentCollector{Clientset: fakeClient}
	facts, err := c.Collect(context.Background(), collector.Ref{Namespace: "ns", Name: "web"})
	require.NoError(t, err)

	desired, _ := facts["deploy.desiredReplicas"].NumberValue()
	assert.Equal(t, float64(3), desired)

	available, _ := facts["deploy.availableReplicas"].NumberValue()
	assert.Equal(t, float64(1), available)

	assert.Equal(t, "ProgressDeadlineExceeded", facts["deploy.conditionReason"].StringValue())

	paused, _ := facts["deploy.paused"].BoolValue()
	assert.False(t, paused)
}

func TestDeploymentCollector_CollectDefaultsDesiredToOne(t *testing.T) {
	fakeClient := fake.NewClientset(
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
		},
	)

	c := &DeploymentCollector{Clientset: fakeClient}
	facts, err := c.Collect(context.Background(), collector.Ref{Namespace: "ns", Name: "web"})
	require.NoError(t, err)

	desired, _ := facts["deploy.desiredReplicas"].NumberValue()
	assert.Equal(t, float64(1), desired)
}
