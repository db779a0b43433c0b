package rule

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind identifies the category of orchestrated object being diagnosed.
// The set of kinds is closed; anything outside it is rejected up front.
type Kind string

const (
	KindPod           Kind = "Pod"
	KindDeployment    Kind = "Deployment"
	KindService       Kind = "Service"
	KindIngress       Kind = "Ingress"
	KindNode          Kind = "Node"
	KindNamespace     Kind = "Namespace"
	KindRBAC          Kind = "RBAC"
	KindStorage       Kind = "Storage"
	KindNetworking    Kind = "Networking"
	KindConfigMap     Kind = "ConfigMap"
	KindResourceQuota Kind = "ResourceQuota"
)

var allKinds = []Kind{
	KindPod,
	KindDeployment,
	KindService,
	KindIngress,
	KindNode,
	KindNamespace,
	KindRBAC,
	KindStorage,
	KindNetworking,
	KindConfigMap,
	KindResourceQuota,
}

// IsValid reports whether the kind is in the closed set.
func (k Kind) IsValid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// String returns the kind as a string.
func (k Kind) String() string {
	return string(k)
}

// SupportedKinds returns the closed set of diagnosable kinds.
func SupportedKinds() []Kind {
	kinds := make([]Kind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// ParseKind normalizes s into a Kind, accepting any casing.
// Returns false if s is not in the closed set.
func ParseKind(s string) (Kind, bool) {
	for _, known := range allKinds {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return Kind(s), false
}

// NearestKind returns the supported kind closest to s by edit distance,
// for "did you mean" suggestions on unknown-kind errors. Returns false
// when nothing is reasonably close.
func NearestKind(s string) (Kind, bool) {
	const maxDistance = 5

	best := Kind("")
	bestDist := maxDistance + 1
	for _, known := range allKinds {
		d := levenshtein.ComputeDistance(strings.ToLower(s), strings.ToLower(string(known)))
		if d < bestDist {
			best = known
			bestDist = d
		}
	}
	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}
