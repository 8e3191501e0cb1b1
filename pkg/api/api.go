// Package api provides the public API for the Yul optimiser.
//
// This package is intended for programmatic use of the optimiser.
// For CLI usage, see cmd/yulopt.
package api

import (
	"codeberg.org/saruga/yulopt/internal/optimizer"
)

// Options controls optimisation behavior.
type Options struct {
	// Steps is the ordered list of optimiser steps to run.
	// Nil selects the default sequence; an empty list runs nothing.
	Steps []string `json:"steps,omitempty"`

	// MinifyWhitespace removes unnecessary whitespace and newlines.
	MinifyWhitespace bool `json:"minifyWhitespace"`

	// KeepNames specifies identifier names the disambiguator must not
	// introduce.
	KeepNames []string `json:"keepNames,omitempty"`
}

// Error describes a problem found while optimising.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// 1-based position in the source; zero when the error has no location
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// Result contains the optimisation output.
type Result struct {
	// Code is the optimised Yul source code.
	// If Errors is non-empty, Code is the unchanged input.
	Code string `json:"code"`

	// Errors contains any errors encountered during optimisation.
	Errors []Error `json:"errors,omitempty"`

	// OriginalSize is the size of the input in bytes.
	OriginalSize int `json:"originalSize"`

	// OptimizedSize is the size of the output in bytes.
	OptimizedSize int `json:"optimizedSize"`

	StepsRun        []string `json:"stepsRun,omitempty"`
	Renamed         int      `json:"renamed"`
	Fused           int      `json:"fused"`
	Removed         int      `json:"removed"`
	FunctionsPruned int      `json:"functionsPruned"`
}

// Optimize optimises Yul source code with the default steps and pretty
// printed output.
func Optimize(source string) Result {
	return OptimizeWithOptions(source, Options{})
}

// OptimizeWithOptions optimises Yul source code with custom options.
func OptimizeWithOptions(source string, opts Options) Result {
	options := optimizer.DefaultOptions()
	if opts.Steps != nil {
		options.Steps = opts.Steps
	}
	options.MinifyWhitespace = opts.MinifyWhitespace
	options.KeepNames = opts.KeepNames

	result := optimizer.New(options).Optimize(source)

	// Convert errors
	var errors []Error
	for _, e := range result.Errors {
		errors = append(errors, Error{
			Code:    string(e.Code),
			Message: e.Message,
			Line:    e.Line,
			Column:  e.Column,
		})
	}

	return Result{
		Code:            result.Code,
		Errors:          errors,
		OriginalSize:    result.Stats.OriginalSize,
		OptimizedSize:   result.Stats.OptimizedSize,
		StepsRun:        result.Stats.StepsRun,
		Renamed:         result.Stats.Renamed,
		Fused:           result.Stats.Fused,
		Removed:         result.Stats.Removed,
		FunctionsPruned: result.Stats.FunctionsPruned,
	}
}

// StepNames returns the names of every available optimiser step.
func StepNames() []string {
	return optimizer.StepNames()
}

// DefaultSteps returns the step sequence used when Options.Steps is nil.
func DefaultSteps() []string {
	return optimizer.DefaultSteps()
}
