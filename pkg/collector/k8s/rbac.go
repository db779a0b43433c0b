package k8s

import (
	"context"

	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/fact"
)

// RBACCollector gathers the binding state of one ServiceAccount subject.
type RBACCollector struct {
	Clientset kubernetes.Interface
}

// Collect verifies the ServiceAccount exists, finds the bindings that grant
// it roles, and checks those roles resolve, flattened into rbac.* facts.
func (c *RBACCollector) Collect(ctx context.Context, ref collector.Ref) (fact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs, err := ensureClient(c.Clientset)
	if err != nil {
		return nil, err
	}

	facts := fact.Bundle{}

	_, err = cs.CoreV1().ServiceAccounts(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	switch {
	case apierrors.IsNotFound(err):
		facts["rbac.serviceAccountExists"] = fact.Bool(false)
	case err != nil:
		return nil, collectFailed(err, "failed to get serviceaccount %s", ref)
	default:
		facts["rbac.serviceAccountExists"] = fact.Bool(true)
	}

	bindings, err := cs.RbacV1().RoleBindings(ref.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to list rolebindings in %q", ref.Namespace)
	}
	clusterBindings, err := cs.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, collectFailed(err, "failed to list clusterrolebindings")
	}

	bound := false
	rolesResolve := true

	for _, rb := range bindings.Items {
		if !bindsSubject(rb.Subjects, ref) {
			continue
		}
		bound = true
		if !roleExists(ctx, cs, ref.Namespace, rb.RoleRef) {
			rolesResolve = false
		}
	}
	for _, crb := range clusterBindings.Items {
		if !bindsSubject(crb.Subjects, ref) {
			continue
		}
		bound = true
		if !roleExists(ctx, cs, "", crb.RoleRef) {
			rolesResolve = false
		}
	}

	facts["rbac.subjectBound"] = fact.Bool(bound)
	if bound {
		facts["rbac.roleExists"] = fact.Bool(rolesResolve)
	}

	return facts, nil
}

func bindsSubject(subjects []rbacv1.Subject, ref collector.Ref) bool {
	for _, s := range subjects {
		if s.Kind == rbacv1.ServiceAccountKind && s.Name == ref.Name && s.Namespace == ref.Namespace {
			return true
		}
	}
	return false
}

func roleExists(ctx context.Context, cs kubernetes.Interface, namespace string, roleRef rbacv1.RoleRef) bool {
	var err error
	switch roleRef.Kind {
	case "ClusterRole":
		_, err = cs.RbacV1().ClusterRoles().Get(ctx, roleRef.Name, metav1.GetOptions{})
	case "Role":
		_, err = cs.RbacV1().Roles(namespace).Get(ctx, roleRef.Name, metav1.GetOptions{})
	default:
		return false
	}
	return err == nil
}
