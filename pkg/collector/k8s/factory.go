package k8s

import (
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	rberrors "github.com/clusterops/runbook/pkg/errors"
	"github.com/clusterops/runbook/pkg/rule"
)

// DefaultFactory creates collectors backed by a shared Kubernetes client.
// A nil Clientset makes each collector discover its own client from the
// environment on first use.
type DefaultFactory struct {
	Clientset kubernetes.Interface
}

// NewDefaultFactory creates a factory using environment-discovered clients.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{}
}

// ForKind returns the evidence collector for the given resource kind.
func (f *DefaultFactory) ForKind(kind rule.Kind) (collector.Collector, error) {
	switch kind {
	case rule.KindPod:
		return &PodCollector{Clientset: f.Clientset}, nil
	case rule.KindDeployment:
		return &DeploymentCollector{Clientset: f.Clientset}, nil
	case rule.KindService:
		return &ServiceCollector{Clientset: f.Clientset}, nil
	case rule.KindIngress:
		return &IngressCollector{Clientset: f.Clientset}, nil
	case rule.KindNode:
		return &NodeCollector{Clientset: f.Clientset}, nil
	case rule.KindNamespace:
		return &NamespaceCollector{Clientset: f.Clientset}, nil
	case rule.KindRBAC:
		return &RBACCollector{Clientset: f.Clientset}, nil
	case rule.KindStorage:
		return &StorageCollector{Clientset: f.Clientset}, nil
	case rule.KindNetworking:
		return &NetworkingCollector{Clientset: f.Clientset}, nil
	case rule.KindConfigMap:
		return &ConfigMapCollector{Clientset: f.Clientset}, nil
	case rule.KindResourceQuota:
		return &ResourceQuotaCollector{Clientset: f.Clientset}, nil
	}

	return nil, rberrors.New(rberrors.ErrCodeUnknownKind,
		"no collector for resource kind %q", kind)
}
