// Package optimizer provides the main optimisation API.
//
// It coordinates parsing, the configured sequence of optimiser steps, and
// printing to produce optimised Yul output.
package optimizer

import (
	"io"
	"log/slog"
	"time"

	"codeberg.org/saruga/yulopt/internal/assert"
	"codeberg.org/saruga/yulopt/internal/ast"
	"codeberg.org/saruga/yulopt/internal/diagnostic"
	"codeberg.org/saruga/yulopt/internal/parser"
	"codeberg.org/saruga/yulopt/internal/printer"
)

// Options controls optimisation behavior.
type Options struct {
	// Steps is the sequence of step names to run, in order
	Steps []string

	// MinifyWhitespace removes unnecessary whitespace and newlines
	MinifyWhitespace bool

	// KeepNames are never produced by the disambiguator
	KeepNames []string

	// Logger receives progress records; nil discards them
	Logger *slog.Logger
}

// DefaultOptions returns options running the default steps with pretty output.
func DefaultOptions() Options {
	return Options{Steps: DefaultSteps()}
}

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("steps", o.Steps),
		slog.Bool("minifyWhitespace", o.MinifyWhitespace),
		slog.Any("keepNames", o.KeepNames),
	)
}

// Result contains the optimisation output.
type Result struct {
	// Optimised Yul code, or the input unchanged when Errors is not empty
	Code string

	// Errors encountered during optimisation
	Errors []Error

	// Statistics about the optimisation
	Stats Stats
}

// Error represents an optimisation error.
type Error struct {
	Code    diagnostic.Code
	Message string
	Line    int
	Column  int

	// Byte range in the source; both zero for errors without a location
	Pos int
	End int
}

// Stats provides optimisation statistics.
type Stats struct {
	OriginalSize  int
	OptimizedSize int

	StepsRun        []string
	Renamed         int // Declarations renamed by the disambiguator
	Fused           int // Assignments turned into declarations
	Removed         int // Empty declarations deleted
	FunctionsPruned int // Unreachable function definitions deleted
}

// LogValue implements [slog.LogValuer].
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("originalSize", s.OriginalSize),
		slog.Int("optimizedSize", s.OptimizedSize),
		slog.Any("stepsRun", s.StepsRun),
		slog.Int("renamed", s.Renamed),
		slog.Int("fused", s.Fused),
		slog.Int("removed", s.Removed),
		slog.Int("functionsPruned", s.FunctionsPruned),
	)
}

// Optimizer runs optimiser steps over Yul code.
type Optimizer struct {
	options Options
	logger  *slog.Logger
}

// New creates a new optimizer with the given options.
func New(options Options) *Optimizer {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Optimizer{options: options, logger: logger}
}

// Optimize optimises the given Yul source code.
func (o *Optimizer) Optimize(source string) Result {
	result := Result{
		Code:  source,
		Stats: Stats{OriginalSize: len(source), OptimizedSize: len(source)},
	}

	if err := ValidateSteps(o.options.Steps); err != nil {
		result.Errors = append(result.Errors, Error{Code: diagnostic.CodeInvalidStep, Message: err.Error()})
		return result
	}

	// 1. Parse into AST
	block, errs := parser.New(source).Parse()

	// 2. Report parse errors
	if len(errs) > 0 {
		for _, err := range errs {
			result.Errors = append(result.Errors, Error{
				Code:    err.Code,
				Message: err.Message,
				Line:    err.Line,
				Column:  err.Column,
				Pos:     err.Pos,
				End:     err.End,
			})
		}
		o.logger.Debug("parse failed", slog.Int("errors", len(errs)))
		return result
	}

	// 3. Run the steps; the tree is unusable after an internal error
	stats, err := o.OptimizeBlock(block)
	stats.OriginalSize = len(source)
	if err != nil {
		result.Errors = append(result.Errors, Error{Code: diagnostic.CodeInternal, Message: err.Error()})
		stats.OptimizedSize = len(source)
		result.Stats = stats
		return result
	}

	// 4. Print
	result.Code = printer.Print(block, printer.Options{MinifyWhitespace: o.options.MinifyWhitespace})
	stats.OptimizedSize = len(result.Code)
	result.Stats = stats

	o.logger.Info("optimized", slog.Any("stats", stats))
	return result
}

// OptimizeBlock runs the configured steps over a parsed tree in place.
func (o *Optimizer) OptimizeBlock(root *ast.Block) (Stats, error) {
	var stats Stats
	if err := ValidateSteps(o.options.Steps); err != nil {
		return stats, err
	}

	o.logger.Debug("optimizing", slog.Any("options", o.options))
	for _, name := range o.options.Steps {
		if err := o.runStep(steps[name], root, &stats); err != nil {
			o.logger.Error("step failed", slog.String("step", name), slog.Any("error", err))
			return stats, err
		}
		stats.StepsRun = append(stats.StepsRun, name)
	}
	return stats, nil
}

func (o *Optimizer) runStep(s *step, root *ast.Block, stats *Stats) (err error) {
	defer func() {
		if err != nil {
			err = assert.Wrap(err, s.name)
		}
	}()
	defer assert.Recover(&err)

	start := time.Now()
	s.run(o, root, stats)
	o.logger.Debug("step finished", slog.String("step", s.name), slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Optimize optimises source with the given options.
func Optimize(source string, options Options) Result {
	return New(options).Optimize(source)
}
