package k8s

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/kubernetes/fake"

	rberrors "github.com/clusterops/runbook/pkg/errors"
	"github.com/clusterops/runbook/pkg/rule"
)

func TestDefaultFactory_ForKind(t *testing.T) {
	factory := &DefaultFactory{Clientset: fake.NewClientset()}

	for _, kind := range rule.SupportedKinds() {
		c, err := factory.ForKind(kind)
		require.NoError(t, err, "kind %s", kind)
		assert.NotNil(t, c, "kind %s", kind)
	}
}

func TestDefaultFactory_ForKindUnknown(t *testing.T) {
	factory := NewDefaultFactory()

	c, err := factory.ForKind(rule.Kind("Widget"))
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Equal(t, rberrors.ErrCodeUnknownKind, rberrors.CodeOf(err))
}
