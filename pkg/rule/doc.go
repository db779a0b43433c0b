// Package rule defines the diagnostic rule model and the static rule store.
//
// A rule pairs a condition with a remediation and is scoped to exactly one
// resource kind. Conditions come in two forms: a conjunction of structured
// comparison clauses ("when"), and a CEL expression over the fact bundle
// ("expr"). Both forms are compiled and validated when the store loads;
// a malformed definition refuses to load rather than failing at evaluation
// time.
//
// The built-in rule set is embedded in the binary, one YAML file per
// resource kind, and loaded exactly once per process. Loaded rules are
// immutable, so the store is shared by reference across concurrent
// diagnoses without synchronization.
package rule
