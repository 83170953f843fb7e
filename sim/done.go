package sim

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DoneEnv is the environment episode termination expressions are evaluated
// against, e.g. "flowers_left == 0 || nectar > 1.5".
type DoneEnv struct {
	Step         int     `expr:"step"`
	MaxSteps     int     `expr:"max_steps"`
	Nectar       float64 `expr:"nectar"`
	Reward       float64 `expr:"reward"`
	FlowersLeft  int     `expr:"flowers_left"`
	Sips         int     `expr:"sips"`
	BoundaryHits int     `expr:"boundary_hits"`
}

// DoneCondition ends an episode early when its expression holds.
// A nil *DoneCondition never fires.
type DoneCondition struct {
	source  string
	program *vm.Program
}

// CompileDone compiles a termination expression. An empty source yields nil.
func CompileDone(source string) (*DoneCondition, error) {
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.Env(DoneEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling done_when %q: %w", source, err)
	}
	return &DoneCondition{source: source, program: program}, nil
}

// Eval reports whether the episode described by env is over.
func (d *DoneCondition) Eval(env DoneEnv) (bool, error) {
	if d == nil {
		return false, nil
	}
	out, err := expr.Run(d.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating done_when %q: %w", d.source, err)
	}
	done, _ := out.(bool)
	return done, nil
}

// String returns the expression source.
func (d *DoneCondition) String() string {
	if d == nil {
		return ""
	}
	return d.source
}
