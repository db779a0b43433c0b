package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/clusterops/runbook/pkg/collector"
)

func TestServiceCollector_Collect(t *testing.T) {
	fakeClient := fake.NewClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
			Spec: corev1.ServiceSpec{
				Type:     corev1.ServiceTypeClusterIP,
				Selector: map[string]string{"app": "web"},
			},
		},
		&corev1.Endpoints{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
			Subsets: []corev1.EndpointSubset{
				{Addresses: []corev1.EndpointAddress{{IP: "10.0.0.1"}, {IP: "10.0.0.2"}}},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "web-0",
				Namespace: "ns",
				Labels:    map[string]string{"app": "web"},
			},
		},
	)

	c := &ServiceCollector{Clientset: fakeClient}
	facts, err := c.Collect(context.Background(), collector.Ref{Namespace: "ns", Name: "web"})
	require.NoError(t, err)

	assert.Equal(t, "ClusterIP", facts["svc.type"].StringValue())

	endpoints, _ := facts["svc.endpointCount"].NumberValue()
	assert.Equal(t, float64(2), endpoints)

	matches, _ := facts["svc.selectorMatchesPods"].BoolValue()
	assert.True(t, matches)

	_, hasLB := facts["svc.externalIPPending"]
	assert.False(t, hasLB, "externalIPPending only reported for LoadBalancer services")
}

func TestServiceCollector_CollectSelectorMismatch(t *testing.T) {
	fakeClient := fake.NewClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
			Spec: corev1.ServiceSpec{
				Selector: map[string]string{"app": "web"},
			},
		},
		&corev1.Endpoints{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "api-0",
				Namespace: "ns",
				Labels:    map[string]string{"app": "api"},
			},
		},
	)

	c := &ServiceCollector{Clientset: fakeClient}
	facts, err := c.Collect(context.Background(), collector.Ref{Namespace: "ns", Name: "web"})
	require.NoError(t, err)

	matches, _ := facts["svc.selectorMatchesPods"].BoolValue()
	assert.False(t, matches)

	endpoints, _ := facts["svc.endpointCount"].NumberValue()
	assert.Equal(t, float64(0), endpoints)
}

func TestServiceCollector_CollectLoadBalancerPending(t *testing.T) {
	fakeClient := fake.NewClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
			Spec: corev1.ServiceSpec{
				Type: corev1.ServiceTypeLoadBalancer,
			},
		},
		&corev1.Endpoints{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "ns"},
		},
	)

	c := &ServiceCollector{Clientset: fakeClient}
	facts, err := c.Collect(context.Background(), collector.Ref{Namespace: "ns", Name: "web"})
	require.NoError(t, err)

	pending, _ := facts["svc.externalIPPending"].BoolValue()
	assert.True(t, pending)
}
