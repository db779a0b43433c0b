package rule

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	rberrors "github.com/clusterops/runbook/pkg/errors"
)

//go:embed data/*.yaml
var ruleData embed.FS

var (
	storeOnce   sync.Once
	cachedStore *Store
	cachedErr   error
)

// Store holds the loaded rule set, partitioned by resource kind.
// A Store is immutable after construction and safe for concurrent use.
type Store struct {
	byKind map[Kind][]Rule
}

// DefaultStore loads and caches the built-in rule set from embedded data.
// Because the data is embedded at build time, it is safe (and simpler) to
// parse it once and reuse the in-memory representation for the lifetime of
// the process. A malformed built-in rule file is fatal: the cached error is
// returned on every subsequent call.
func DefaultStore(_ context.Context) (*Store, error) {
	storeOnce.Do(func() {
		cachedStore, cachedErr = LoadFS(ruleData, "data")
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedStore == nil {
		return nil, rberrors.New(rberrors.ErrCodeInternal, "rule store not initialized")
	}
	return cachedStore, nil
}

// LoadFS loads every *.yaml rule file under dir in fsys into a Store.
// Any parse, validation, or expression-compile failure is surfaced as a
// MALFORMED_RULE structured error naming the offending file.
func LoadFS(fsys fs.FS, dir string) (*Store, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, rberrors.Wrap(err, rberrors.ErrCodeMalformedRule, "failed to read rule directory %q", dir)
	}

	store := &Store{byKind: make(map[Kind][]Rule)}
	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, rberrors.Wrap(err, rberrors.ErrCodeMalformedRule, "failed to read rule file %q", name)
		}

		if err := store.addFile(data, name, seen); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// LoadDir loads every *.yaml rule file in an on-disk directory, for rule
// sets distributed outside the binary (e.g. pulled rule packs).
func LoadDir(dir string) (*Store, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// addFile parses and validates one rule file and merges it into the store.
func (s *Store) addFile(data []byte, path string, seen map[string]string) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return rberrors.Wrap(err, rberrors.ErrCodeMalformedRule, "failed to parse rule file %q", path)
	}

	if file.APIVersion != RuleAPIVersion {
		return rberrors.New(rberrors.ErrCodeMalformedRule,
			"rule file %q: unsupported apiVersion %q, expected %q", path, file.APIVersion, RuleAPIVersion)
	}
	if !file.Kind.IsValid() {
		return rberrors.New(rberrors.ErrCodeMalformedRule,
			"rule file %q: unknown kind %q", path, file.Kind)
	}

	for i := range file.Rules {
		r := file.Rules[i]

		if r.ID == "" {
			return rberrors.New(rberrors.ErrCodeMalformedRule,
				"rule file %q: rule %d has no id", path, i)
		}
		if prev, dup := seen[r.ID]; dup {
			return rberrors.New(rberrors.ErrCodeMalformedRule,
				"rule file %q: duplicate rule id %q (first declared in %q)", path, r.ID, prev)
		}
		seen[r.ID] = path

		// Rules inherit the file's kind; an explicit kind must agree.
		if r.Kind == "" {
			r.Kind = file.Kind
		} else if r.Kind != file.Kind {
			return rberrors.New(rberrors.ErrCodeMalformedRule,
				"rule file %q: rule %q declares kind %q in a %q file", path, r.ID, r.Kind, file.Kind)
		}

		if len(r.When) == 0 && r.Expr == "" {
			return rberrors.New(rberrors.ErrCodeMalformedRule,
				"rule file %q: rule %q has no condition", path, r.ID)
		}
		for _, c := range r.When {
			if c.Key == "" {
				return rberrors.New(rberrors.ErrCodeMalformedRule,
					"rule file %q: rule %q has a clause with no key", path, r.ID)
			}
			if !c.Op.IsValid() {
				return rberrors.New(rberrors.ErrCodeMalformedRule,
					"rule file %q: rule %q uses unknown operator %q", path, r.ID, c.Op)
			}
		}
		if r.Remediation.Message == "" {
			return rberrors.New(rberrors.ErrCodeMalformedRule,
				"rule file %q: rule %q has no remediation message", path, r.ID)
		}

		if r.Expr != "" {
			prg, err := compileExpr(r.Expr)
			if err != nil {
				return rberrors.Wrap(err, rberrors.ErrCodeMalformedRule,
					"rule file %q: rule %q", path, r.ID)
			}
			r.program = prg
		}

		s.byKind[r.Kind] = append(s.byKind[r.Kind], r)
	}

	return nil
}

// RulesFor returns the rules declared for kind, in declaration order.
// The returned slice is a copy; callers may reorder it freely.
func (s *Store) RulesFor(kind Kind) []Rule {
	rules := s.byKind[kind]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Kinds returns the kinds that have at least one rule, sorted by name.
func (s *Store) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.byKind))
	for k := range s.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the total number of rules in the store.
func (s *Store) Len() int {
	n := 0
	for _, rules := range s.byKind {
		n += len(rules)
	}
	return n
}

// String summarizes the store for logging.
func (s *Store) String() string {
	return fmt.Sprintf("rule store: %d rules across %d kinds", s.Len(), len(s.byKind))
}
