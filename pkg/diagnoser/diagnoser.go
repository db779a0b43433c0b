// Package diagnoser ties evidence collection, rule selection, and rule
// evaluation into the per-request diagnosis pipeline.
package diagnoser

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterops/runbook/pkg/collector"
	k8scollector "github.com/clusterops/runbook/pkg/collector/k8s"
	"github.com/clusterops/runbook/pkg/diagnosis"
	"github.com/clusterops/runbook/pkg/engine"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/header"
	"github.com/clusterops/runbook/pkg/matcher"
	"github.com/clusterops/runbook/pkg/rule"
)

// sweepConcurrency bounds how many pods a namespace sweep diagnoses at once.
const sweepConcurrency = 8

// Diagnoser generates diagnoses for observed resource states.
type Diagnoser interface {
	Diagnose(ctx context.Context, kind rule.Kind, facts fact.Bundle) (*diagnosis.Diagnosis, error)
}

// Service is the default Diagnoser over the static rule store and the
// Kubernetes evidence collectors. The zero value uses the embedded rule
// store and environment-discovered clients.
type Service struct {
	// Version is stamped into diagnosis headers.
	Version string

	// Store is the rule store to evaluate against. Nil means the
	// embedded default store.
	Store *rule.Store

	// Factory provides evidence collectors per kind. Nil means the
	// default Kubernetes-backed factory.
	Factory collector.Factory

	// Clientset is used for namespace sweeps. Nil means environment
	// discovery via the factory's collectors.
	Clientset kubernetes.Interface
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithVersion sets the engine version stamped into diagnosis headers.
func WithVersion(version string) Option {
	return func(s *Service) { s.Version = version }
}

// WithStore sets the rule store to evaluate against.
func WithStore(store *rule.Store) Option {
	return func(s *Service) { s.Store = store }
}

// WithFactory sets the collector factory.
func WithFactory(f collector.Factory) Option {
	return func(s *Service) { s.Factory = f }
}

// WithClientset sets the Kubernetes client used for namespace sweeps.
func WithClientset(cs kubernetes.Interface) Option {
	return func(s *Service) { s.Clientset = cs }
}

// New creates a Service with the provided options.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diagnose evaluates the rules for kind against an already collected fact
// bundle and returns the ordered diagnosis. An empty diagnosis means the
// facts satisfied no rule, which is the healthy outcome, not an error.
func (s *Service) Diagnose(ctx context.Context, kind rule.Kind, facts fact.Bundle) (*diagnosis.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		diagnoseDuration.Observe(time.Since(start).Seconds())
	}()

	store, err := s.ruleStore(ctx)
	if err != nil {
		diagnoseTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	rules, err := matcher.SelectRules(store, kind, facts)
	if err != nil {
		diagnoseTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	d := engine.Evaluate(rules, facts)
	d.ResourceKind = kind
	d.Init(header.KindDiagnosis, s.Version)

	diagnoseTotal.WithLabelValues("success").Inc()

	slog.Debug("diagnosis complete",
		slog.String("kind", kind.String()),
		slog.Int("matches", len(d.Matches)),
	)

	return &d, nil
}

// DiagnoseResource collects evidence about the referenced resource and
// diagnoses it. Collection is the only blocking step; a context cancelled
// during collection short-circuits before any rule evaluation, so partial
// bundles are never evaluated.
func (s *Service) DiagnoseResource(ctx context.Context, kind rule.Kind, ref collector.Ref) (*diagnosis.Diagnosis, error) {
	store, err := s.ruleStore(ctx)
	if err != nil {
		return nil, err
	}

	// Validate the kind before paying for collection.
	if _, err := matcher.SelectRules(store, kind, nil); err != nil {
		return nil, err
	}

	col, err := s.collectorFactory().ForKind(kind)
	if err != nil {
		return nil, err
	}

	facts, err := col.Collect(ctx, ref)
	if err != nil {
		collectTotal.WithLabelValues(kind.String(), "error").Inc()
		return nil, err
	}
	collectTotal.WithLabelValues(kind.String(), "success").Inc()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := s.Diagnose(ctx, kind, facts)
	if err != nil {
		return nil, err
	}
	d.Resource = ref.String()
	d.Facts = facts
	return d, nil
}

// SweepPods diagnoses every pod in a namespace concurrently. Each pod's
// diagnosis is an independent, side-effect-free evaluation over the shared
// read-only rule set, so the sweeps fan out without locking anything but
// the result slice. Results are ordered by pod name for reproducibility.
func (s *Service) SweepPods(ctx context.Context, namespace string) ([]*diagnosis.Diagnosis, error) {
	cs := s.Clientset
	if cs == nil {
		var err error
		cs, err = defaultClientset()
		if err != nil {
			return nil, err
		}
	}

	pods, err := cs.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %q: %w", namespace, err)
	}

	var mu sync.Mutex
	results := make([]*diagnosis.Diagnosis, 0, len(pods.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, pod := range pods.Items {
		ref := collector.Ref{Namespace: namespace, Name: pod.Name}
		g.Go(func() error {
			d, err := s.DiagnoseResource(gctx, rule.KindPod, ref)
			if err != nil {
				return fmt.Errorf("pod %s: %w", ref, err)
			}
			mu.Lock()
			results = append(results, d)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Resource < results[j].Resource
	})

	slog.Debug("namespace sweep complete",
		slog.String("namespace", namespace),
		slog.Int("pods", len(results)),
	)

	return results, nil
}

func (s *Service) ruleStore(ctx context.Context) (*rule.Store, error) {
	if s.Store != nil {
		return s.Store, nil
	}
	return rule.DefaultStore(ctx)
}

func (s *Service) collectorFactory() collector.Factory {
	if s.Factory != nil {
		return s.Factory
	}
	return k8scollector.NewDefaultFactory()
}

func defaultClientset() (kubernetes.Interface, error) {
	return k8scollector.GetKubeClient()
}
