package disambiguator

import (
	"strconv"

	"codeberg.org/saruga/yulopt/internal/ast"
)

// ----------------------------------------------------------------------------
// Name Generation
// ----------------------------------------------------------------------------

// NameDispenser hands out fresh identifiers of the form base_N that do not
// collide with any name it has been told about or has already handed out.
type NameDispenser struct {
	used     map[string]bool
	counters map[string]int
}

// NewNameDispenser creates a dispenser that avoids every name in used.
// The map is copied.
func NewNameDispenser(used map[string]bool) *NameDispenser {
	d := &NameDispenser{
		used:     make(map[string]bool, len(used)),
		counters: make(map[string]int),
	}
	for name := range used {
		d.used[name] = true
	}
	return d
}

// NewName returns an unused name derived from base and marks it as taken.
// The sequence for "x" is x_1, x_2, ... skipping taken names.
func (d *NameDispenser) NewName(base string) string {
	for {
		d.counters[base]++
		name := base + "_" + strconv.Itoa(d.counters[base])
		if !d.used[name] {
			d.used[name] = true
			return name
		}
	}
}

// ----------------------------------------------------------------------------
// Name Collection
// ----------------------------------------------------------------------------

// CollectNames returns every identifier spelled anywhere in root: declared
// names, references and called function names.
func CollectNames(root *ast.Block) map[string]bool {
	c := &nameCollector{names: make(map[string]bool)}
	ast.Walk(c, root)
	return c.names
}

type nameCollector struct {
	names map[string]bool
}

func (c *nameCollector) addTyped(names []ast.TypedName) {
	for _, n := range names {
		c.names[n.Name] = true
	}
}

func (c *nameCollector) VisitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VariableDeclaration:
		c.addTyped(s.Variables)
	case *ast.FunctionDefinition:
		c.names[s.Name] = true
		c.addTyped(s.Parameters)
		c.addTyped(s.ReturnVariables)
	}
	ast.WalkStmt(c, s)
}

func (c *nameCollector) VisitExpr(e ast.Expr) {
	if id, ok := e.(*ast.Identifier); ok {
		c.names[id.Name] = true
	}
	ast.WalkExpr(c, e)
}
