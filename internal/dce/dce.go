// Package dce removes function definitions that can never be called.
//
// DCE works by:
// 1. Collecting every function definition in the tree by name
// 2. Building a call graph from the calls inside each function body
// 3. Marking all functions reachable from code outside function bodies
// 4. Deleting the definitions that were not marked
//
// Functions are matched by name, so the disambiguator must run first.
package dce

import (
	"codeberg.org/saruga/yulopt/internal/ast"
)

// Prune removes unreachable function definitions from root and returns how
// many were removed.
func Prune(root *ast.Block) int {
	if root == nil {
		return 0
	}

	g := buildCallGraph(root)
	if len(g.functions) == 0 {
		return 0
	}

	live := make(map[string]bool)
	for _, name := range g.roots {
		markLive(name, g.calls, live)
	}

	r := &remover{live: live}
	ast.Walk(r, root)
	return r.removed
}

// ----------------------------------------------------------------------------
// Call Graph
// ----------------------------------------------------------------------------

type callGraph struct {
	functions map[string]*ast.FunctionDefinition

	// Functions called from a function's body, by caller name
	calls map[string][]string

	// Functions called outside any function body
	roots []string
}

func buildCallGraph(root *ast.Block) *callGraph {
	g := &callGraph{
		functions: make(map[string]*ast.FunctionDefinition),
		calls:     make(map[string][]string),
	}
	c := &callCollector{graph: g}
	ast.Walk(c, root)

	// Drop calls to builtins and undefined names.
	g.roots = g.defined(g.roots)
	for caller, callees := range g.calls {
		g.calls[caller] = g.defined(callees)
	}
	return g
}

func (g *callGraph) defined(names []string) []string {
	kept := names[:0]
	for _, name := range names {
		if g.functions[name] != nil {
			kept = append(kept, name)
		}
	}
	return kept
}

// callCollector records calls, attributing each to the innermost enclosing
// function definition.
type callCollector struct {
	graph   *callGraph
	current string // Empty outside function bodies
}

func (c *callCollector) VisitStmt(s ast.Stmt) {
	fn, ok := s.(*ast.FunctionDefinition)
	if !ok {
		ast.WalkStmt(c, s)
		return
	}

	c.graph.functions[fn.Name] = fn
	outer := c.current
	c.current = fn.Name
	ast.WalkStmt(c, fn)
	c.current = outer
}

func (c *callCollector) VisitExpr(e ast.Expr) {
	if call, ok := e.(*ast.FunctionCall); ok {
		name := call.FunctionName.Name
		if c.current == "" {
			c.graph.roots = append(c.graph.roots, name)
		} else {
			c.graph.calls[c.current] = append(c.graph.calls[c.current], name)
		}
	}
	ast.WalkExpr(c, e)
}

func markLive(name string, calls map[string][]string, live map[string]bool) {
	if live[name] {
		return
	}
	live[name] = true
	for _, callee := range calls[name] {
		markLive(callee, calls, live)
	}
}

// ----------------------------------------------------------------------------
// Removal
// ----------------------------------------------------------------------------

type remover struct {
	live    map[string]bool
	removed int
}

func (r *remover) VisitStmt(s ast.Stmt) {
	if b, ok := s.(*ast.Block); ok {
		kept := b.Statements[:0]
		for _, stmt := range b.Statements {
			if fn, ok := stmt.(*ast.FunctionDefinition); ok && !r.live[fn.Name] {
				r.removed++
				continue
			}
			kept = append(kept, stmt)
		}
		clear(b.Statements[len(kept):])
		b.Statements = kept
	}
	ast.WalkStmt(r, s)
}

func (r *remover) VisitExpr(e ast.Expr) {}
