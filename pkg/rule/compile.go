package rule

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/clusterops/runbook/pkg/fact"
)

// compiledExpr is the evaluatable form of a rule's Expr, produced at load time.
type compiledExpr interface {
	eval(facts fact.Bundle) (bool, error)
}

var (
	celEnvOnce sync.Once
	celEnv     *cel.Env
	celEnvErr  error
)

// celEnvironment returns the shared CEL environment used to compile rule
// expressions. Rule expressions see a single variable, "facts", the fact
// bundle as a map of namespaced keys to scalars.
func celEnvironment() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("facts", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

type celProgram struct {
	prg cel.Program
}

func (p *celProgram) eval(facts fact.Bundle) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"facts": facts.ToMap(),
	})
	if err != nil {
		return false, err
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("expression must return a boolean, got %T", out.Value())
	}
	return ok, nil
}

// compileExpr compiles a CEL rule expression. Compilation failures are
// reported to the caller, which surfaces them as malformed-rule errors.
func compileExpr(expr string) (compiledExpr, error) {
	env, err := celEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("expression compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("expression program error: %w", err)
	}

	return &celProgram{prg: prg}, nil
}
