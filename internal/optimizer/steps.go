package optimizer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"codeberg.org/saruga/yulopt/internal/ast"
	"codeberg.org/saruga/yulopt/internal/dce"
	"codeberg.org/saruga/yulopt/internal/declprop"
	"codeberg.org/saruga/yulopt/internal/disambiguator"
)

// Step names accepted in Options.Steps.
const (
	StepDisambiguator        = "disambiguator"
	StepVarDeclPropagator    = "varDeclPropagator"
	StepUnusedFunctionPruner = "unusedFunctionPruner"
)

// step is one optimiser pass over the whole tree.
type step struct {
	name string

	// Steps that must appear earlier in the sequence
	requires []string

	run func(o *Optimizer, root *ast.Block, stats *Stats)
}

var steps = map[string]*step{
	StepDisambiguator: {
		name: StepDisambiguator,
		run: func(o *Optimizer, root *ast.Block, stats *Stats) {
			stats.Renamed += disambiguator.Run(root, o.options.KeepNames)
		},
	},
	StepVarDeclPropagator: {
		name:     StepVarDeclPropagator,
		requires: []string{StepDisambiguator},
		run: func(o *Optimizer, root *ast.Block, stats *Stats) {
			s := declprop.Run(root)
			stats.Fused += s.Fused
			stats.Removed += s.Removed
		},
	},
	StepUnusedFunctionPruner: {
		name:     StepUnusedFunctionPruner,
		requires: []string{StepDisambiguator},
		run: func(o *Optimizer, root *ast.Block, stats *Stats) {
			stats.FunctionsPruned += dce.Prune(root)
		},
	},
}

// DefaultSteps returns the default step sequence.
func DefaultSteps() []string {
	return []string{StepDisambiguator, StepVarDeclPropagator}
}

// StepNames returns every known step name in sorted order.
func StepNames() []string {
	names := make([]string, 0, len(steps))
	for name := range steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSteps splits a comma-separated step list, dropping empty entries.
func ParseSteps(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ValidateSteps checks that every name is a known step and that each step's
// requirements run before it.
func ValidateSteps(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		s, ok := steps[name]
		if !ok {
			if suggestion := suggestStep(name); suggestion != "" {
				return errors.Errorf("unknown step %q (did you mean %q?)", name, suggestion)
			}
			return errors.Errorf("unknown step %q (known steps: %s)", name, strings.Join(StepNames(), ", "))
		}
		for _, req := range s.requires {
			if !seen[req] {
				return errors.Errorf("step %q requires %q to run before it", name, req)
			}
		}
		seen[name] = true
	}
	return nil
}

// suggestStep returns the known step closest to name, or "".
func suggestStep(name string) string {
	ranks := fuzzy.RankFindFold(name, StepNames())
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
