// Package rulepack distributes rule sets as OCI artifacts, so curated rule
// definitions can be versioned and pulled from a registry like any other
// deployment artifact.
package rulepack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/clusterops/runbook/pkg/rule"
)

const (
	// ArtifactType identifies a rule pack manifest in a registry.
	ArtifactType = "application/vnd.clusterops.runbook.rulepack.v1"

	// LayerMediaType identifies one rule file layer.
	LayerMediaType = "application/vnd.clusterops.runbook.rules.v1+yaml"
)

// Client pushes and pulls rule packs against an OCI registry.
type Client struct {
	// PlainHTTP disables TLS for local or in-cluster registries.
	PlainHTTP bool

	// Credential supplies registry auth; nil means anonymous access.
	Credential auth.CredentialFunc
}

// Push validates the rule files in dir and publishes them to the registry
// reference (e.g. "registry.example.com/runbook/rules:v3"). Validation runs
// before any network traffic: a malformed rule set never leaves the machine.
func (c *Client) Push(ctx context.Context, dir, ref, tag string) (string, error) {
	if _, err := rule.LoadDir(dir); err != nil {
		return "", fmt.Errorf("refusing to push invalid rule pack: %w", err)
	}

	store, err := file.New(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open rule directory %q: %w", dir, err)
	}
	defer store.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read rule directory %q: %w", dir, err)
	}

	var layers []v1.Descriptor
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		desc, err := store.Add(ctx, entry.Name(), LayerMediaType, "")
		if err != nil {
			return "", fmt.Errorf("failed to add rule file %q: %w", entry.Name(), err)
		}
		layers = append(layers, desc)
	}
	if len(layers) == 0 {
		return "", fmt.Errorf("no rule files found in %q", dir)
	}

	manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{Layers: layers})
	if err != nil {
		return "", fmt.Errorf("failed to pack rule manifest: %w", err)
	}
	if err := store.Tag(ctx, manifest, tag); err != nil {
		return "", fmt.Errorf("failed to tag rule manifest: %w", err)
	}

	repo, err := c.repository(ref)
	if err != nil {
		return "", err
	}

	desc, err := oras.Copy(ctx, store, tag, repo, tag, oras.DefaultCopyOptions)
	if err != nil {
		return "", fmt.Errorf("failed to push rule pack to %q: %w", ref, err)
	}

	slog.Info("pushed rule pack",
		"ref", ref,
		"tag", tag,
		"digest", desc.Digest.String(),
		"layers", len(layers),
	)

	return desc.Digest.String(), nil
}

// Pull fetches a rule pack from the registry into destDir and loads it,
// returning the validated store. A pack that fails validation is rejected
// after download; the embedded rules stay in effect.
func (c *Client) Pull(ctx context.Context, ref, tag, destDir string) (*rule.Store, error) {
	store, err := file.New(destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination %q: %w", destDir, err)
	}
	defer store.Close()

	repo, err := c.repository(ref)
	if err != nil {
		return nil, err
	}

	desc, err := oras.Copy(ctx, repo, tag, store, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to pull rule pack %q: %w", ref, err)
	}

	loaded, err := rule.LoadDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("pulled rule pack is invalid: %w", err)
	}

	slog.Info("pulled rule pack",
		"ref", ref,
		"tag", tag,
		"digest", desc.Digest.String(),
		"rules", loaded.Len(),
	)

	return loaded, nil
}

func (c *Client) repository(ref string) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid registry reference %q: %w", ref, err)
	}

	repo.PlainHTTP = c.PlainHTTP
	repo.Client = &auth.Client{
		Client:     retry.DefaultClient,
		Cache:      auth.NewCache(),
		Credential: c.Credential,
	}

	return repo, nil
}
