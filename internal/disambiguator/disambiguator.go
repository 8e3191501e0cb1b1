// Package disambiguator renames declarations so that every declared name is
// unique across the whole tree.
//
// The first declaration of a name keeps its spelling; later declarations of
// the same name get a fresh base_N name and every reference is rewritten to
// follow lexical scoping:
//   - A function is visible in the whole block that defines it.
//   - A variable is visible from its declaration to the end of its block.
//     The declaration's value is resolved before its names are declared.
//   - The scope of a for loop's initializer covers the condition, the post
//     block and the body.
//
// Identifiers that resolve to no declaration, such as builtins, are left
// untouched.
package disambiguator

import (
	"codeberg.org/saruga/yulopt/internal/ast"
	"codeberg.org/saruga/yulopt/internal/builtins"
)

// Disambiguator renames declarations in one tree.
type Disambiguator struct {
	dispenser *NameDispenser

	// Names already given to a declaration
	declared map[string]bool

	// Innermost scope last; maps source names to their new names
	scopes []map[string]string

	renamed int
}

// New creates a disambiguator for root. Generated names avoid every name in
// root, keywords, builtins and keepNames.
func New(root *ast.Block, keepNames []string) *Disambiguator {
	used := builtins.ReservedNames()
	for name := range CollectNames(root) {
		used[name] = true
	}
	for _, name := range keepNames {
		used[name] = true
	}
	return &Disambiguator{
		dispenser: NewNameDispenser(used),
		declared:  make(map[string]bool),
	}
}

// Run renames declarations in root in place and returns how many were
// renamed.
func (d *Disambiguator) Run(root *ast.Block) int {
	ast.Walk(d, root)
	return d.renamed
}

// Run disambiguates root and returns the number of renamed declarations.
func Run(root *ast.Block, keepNames []string) int {
	return New(root, keepNames).Run(root)
}

// ----------------------------------------------------------------------------
// Scopes
// ----------------------------------------------------------------------------

func (d *Disambiguator) push() {
	d.scopes = append(d.scopes, make(map[string]string))
}

func (d *Disambiguator) pop() {
	d.scopes = d.scopes[:len(d.scopes)-1]
}

// declare binds name in the innermost scope and returns the name the
// declaration must use.
func (d *Disambiguator) declare(name string) string {
	newName := name
	if d.declared[name] {
		newName = d.dispenser.NewName(name)
		d.renamed++
	}
	d.declared[newName] = true
	d.scopes[len(d.scopes)-1][name] = newName
	return newName
}

func (d *Disambiguator) declareAll(names []ast.TypedName) {
	for i := range names {
		names[i].Name = d.declare(names[i].Name)
	}
}

func (d *Disambiguator) lookup(name string) (string, bool) {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if newName, ok := d.scopes[i][name]; ok {
			return newName, true
		}
	}
	return "", false
}

// hoist declares the functions defined directly in b.
func (d *Disambiguator) hoist(b *ast.Block) {
	for _, s := range b.Statements {
		if fn, ok := s.(*ast.FunctionDefinition); ok {
			fn.Name = d.declare(fn.Name)
		}
	}
}

// ----------------------------------------------------------------------------
// Dispatch
// ----------------------------------------------------------------------------

func (d *Disambiguator) VisitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		d.push()
		d.hoist(s)
		ast.WalkBlock(d, s)
		d.pop()

	case *ast.VariableDeclaration:
		if s.Value != nil {
			d.VisitExpr(s.Value)
		}
		d.declareAll(s.Variables)

	case *ast.FunctionDefinition:
		// The name was declared when the enclosing block was entered.
		d.push()
		d.declareAll(s.Parameters)
		d.declareAll(s.ReturnVariables)
		d.VisitStmt(s.Body)
		d.pop()

	case *ast.ForLoop:
		d.push()
		d.hoist(s.Pre)
		ast.WalkBlock(d, s.Pre)
		d.VisitExpr(s.Condition)
		d.VisitStmt(s.Post)
		d.VisitStmt(s.Body)
		d.pop()

	default:
		ast.WalkStmt(d, s)
	}
}

func (d *Disambiguator) VisitExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Identifier:
		if newName, ok := d.lookup(e.Name); ok {
			e.Name = newName
		}

	default:
		ast.WalkExpr(d, e)
	}
}
