package rulepack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rberrors "github.com/clusterops/runbook/pkg/errors"
)

func writeRuleFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestClient_PushRefusesInvalidPack(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "pod.yaml", `apiVersion: v1
kind: Pod
rules:
  - id: bad-op
    when:
      - key: pod.phase
        op: "~="
        value: Pending
    remediation:
      message: x
`)

	client := &Client{}
	digest, err := client.Push(context.Background(), dir, "registry.invalid/runbook/rules", "v1")

	assert.Empty(t, digest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to push")

	var se *rberrors.StructuredError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, rberrors.ErrCodeMalformedRule, se.Code)
}

func TestClient_PushRefusesEmptyDirectory(t *testing.T) {
	client := &Client{}
	digest, err := client.Push(context.Background(), t.TempDir(), "registry.invalid/runbook/rules", "v1")

	assert.Empty(t, digest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rule files")
}

func TestClient_PushRejectsInvalidReference(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "pod.yaml", `apiVersion: v1
kind: Pod
rules:
  - id: valid-rule
    when:
      - key: pod.phase
        op: "="
        value: Pending
    remediation:
      message: x
`)

	client := &Client{}
	digest, err := client.Push(context.Background(), dir, "NOT A VALID REF!!", "v1")

	assert.Empty(t, digest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid registry reference")
}

func TestClient_PullRejectsInvalidReference(t *testing.T) {
	client := &Client{}
	store, err := client.Pull(context.Background(), "NOT A VALID REF!!", "v1", t.TempDir())

	assert.Nil(t, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid registry reference")
}
