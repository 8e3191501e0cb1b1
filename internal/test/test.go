// Package test provides testing utilities for the Yul optimiser.
//
// This follows esbuild's testing patterns with helper functions
// for assertions, diffs, and golden files.
package test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// AssertEqual checks if two values are equal and reports a test error if not.
func AssertEqual[T comparable](t *testing.T, actual, expected T) {
	t.Helper()
	if actual != expected {
		t.Errorf("\nexpected: %v\nactual:   %v", expected, actual)
	}
}

// AssertEqualWithDiff checks if two strings are equal and shows a diff if not.
func AssertEqualWithDiff(t *testing.T, actual, expected string) {
	t.Helper()
	if actual != expected {
		t.Errorf("\n%s", Diff(expected, actual))
	}
}

// Diff produces a line-by-line diff between two strings with -/+ prefixes.
func Diff(expected, actual string) string {
	return "--- expected\n+++ actual\n" + cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n"))
}

// Golden is one txtar fixture.
type Golden struct {
	Name    string
	Comment string
	Input   string
	Output  string
}

// LoadGolden reads the fixtures matching pattern. Each archive holds an
// "input.yul" file and the expected "output.yul".
func LoadGolden(t *testing.T, pattern string) []Golden {
	t.Helper()
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("bad golden pattern %q: %v", pattern, err)
	}
	if len(paths) == 0 {
		t.Fatalf("no golden files match %q", pattern)
	}

	var goldens []Golden
	for _, path := range paths {
		ar, err := txtar.ParseFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		g := Golden{
			Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Comment: strings.TrimSpace(string(ar.Comment)),
		}
		found := 0
		for _, f := range ar.Files {
			switch f.Name {
			case "input.yul":
				g.Input = string(f.Data)
				found++
			case "output.yul":
				g.Output = string(f.Data)
				found++
			}
		}
		if found != 2 {
			t.Fatalf("%s: expected input.yul and output.yul sections", path)
		}
		goldens = append(goldens, g)
	}
	return goldens
}

// RunGolden runs transform over every fixture matching pattern and compares
// the result with the fixture's expected output.
func RunGolden(t *testing.T, pattern string, transform func(t *testing.T, input string) string) {
	t.Helper()
	for _, g := range LoadGolden(t, pattern) {
		t.Run(g.Name, func(t *testing.T) {
			actual := transform(t, g.Input)
			if actual != g.Output {
				t.Errorf("%s\n%s", g.Comment, Diff(g.Output, actual))
			}
		})
	}
}
