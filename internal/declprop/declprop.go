// Package declprop fuses empty variable declarations into the assignment
// that first initializes them.
//
//	let x, y, z             let z, x, y := f()
//	z, x, y := f()    ->
//
//	let x, y                let x := 1
//	x := 1            ->    let y := 2
//	y := 2
//
//	let x                   let x, y := f()
//	let y             ->
//	x, y := f()
//
// An assignment is fused only when every one of its targets names an empty
// declaration of the block being visited. Declarations are matched by name
// alone, so the pass must run after the disambiguator has made every declared
// name unique. An original declaration is removed once any of its names has
// been fused, even if another of its names is never assigned.
package declprop

import (
	"codeberg.org/saruga/yulopt/internal/assert"
	"codeberg.org/saruga/yulopt/internal/ast"
)

// Stats counts the rewrites of one run.
type Stats struct {
	Fused   int // Assignments replaced by declarations
	Removed int // Empty declarations deleted
}

// frame is the state of the block currently being visited.
type frame struct {
	block *ast.Block

	// Empty declarations seen so far among the block's direct statements,
	// in encounter order.
	empty []*ast.VariableDeclaration

	// Declarations to delete when the block has been fully visited. They stay
	// in empty until then and can still be matched.
	pending map[*ast.VariableDeclaration]bool
}

// Propagator is the fusion pass. The zero value is not usable; call New.
type Propagator struct {
	frame *frame
	stats Stats
}

// New creates a Propagator.
func New() *Propagator {
	return &Propagator{}
}

// Run fuses declarations throughout root in place and returns the counts
// accumulated by this Propagator so far.
func (p *Propagator) Run(root *ast.Block) Stats {
	ast.Walk(p, root)
	return p.stats
}

// Stats returns the counts accumulated so far.
func (p *Propagator) Stats() Stats {
	return p.stats
}

// Run fuses declarations throughout root with a fresh Propagator.
func Run(root *ast.Block) Stats {
	return New().Run(root)
}

// ----------------------------------------------------------------------------
// Dispatch
// ----------------------------------------------------------------------------

func (p *Propagator) VisitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		p.visitBlock(s)

	case *ast.VariableDeclaration:
		if s.IsEmpty() {
			p.currentFrame().empty = append(p.currentFrame().empty, s)
		}

	case *ast.Assignment:
		p.visitAssignment(s)

	default:
		ast.WalkStmt(p, s)
	}
}

// Expressions hold no blocks, declarations or assignments.
func (p *Propagator) VisitExpr(e ast.Expr) {}

func (p *Propagator) currentFrame() *frame {
	assert.That(p.frame != nil, "called outside block")
	return p.frame
}

// ----------------------------------------------------------------------------
// Scope Frames
// ----------------------------------------------------------------------------

func (p *Propagator) visitBlock(b *ast.Block) {
	outer := p.frame
	p.frame = &frame{
		block:   b,
		pending: make(map[*ast.VariableDeclaration]bool),
	}
	defer func() { p.frame = outer }()

	ast.WalkBlock(p, b)
	p.removePending()
}

// removePending deletes the marked declarations from the current block,
// keeping the order of the remaining statements.
func (p *Propagator) removePending() {
	f := p.frame
	if len(f.pending) == 0 {
		return
	}

	kept := f.block.Statements[:0]
	removed := 0
	for _, s := range f.block.Statements {
		if decl, ok := s.(*ast.VariableDeclaration); ok && f.pending[decl] {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	assert.That(removed == len(f.pending), "%d declarations pending removal, %d found in block", len(f.pending), removed)

	// Drop references held past the new length.
	clear(f.block.Statements[len(kept):])
	f.block.Statements = kept
	p.stats.Removed += removed
}

// ----------------------------------------------------------------------------
// Fusion
// ----------------------------------------------------------------------------

func (p *Propagator) visitAssignment(a *ast.Assignment) {
	assert.That(len(a.VariableNames) > 0, "assignment without targets")
	f := p.currentFrame()

	for _, name := range a.VariableNames {
		if _, ok := f.lookup(name.Name); !ok {
			// Not every target is an empty declaration of this block.
			return
		}
	}

	// Names follow the assignment's order, not the declarations'.
	variables := make([]ast.TypedName, len(a.VariableNames))
	for i, name := range a.VariableNames {
		variables[i] = f.typedName(name.Name)
		f.mark(name.Name)
	}

	i := ast.IndexOf(f.block, a)
	assert.That(i >= 0, "assignment not found in current block")
	f.block.Statements[i] = &ast.VariableDeclaration{
		Loc:       a.Loc,
		Variables: variables,
		Value:     a.Value,
	}
	p.stats.Fused++
}

// lookup returns the first typed name called name among the frame's empty
// declarations.
func (f *frame) lookup(name string) (ast.TypedName, bool) {
	for _, decl := range f.empty {
		for _, v := range decl.Variables {
			if v.Name == name {
				return v, true
			}
		}
	}
	return ast.TypedName{}, false
}

func (f *frame) typedName(name string) ast.TypedName {
	v, ok := f.lookup(name)
	assert.That(ok, "%s unexpectedly not found", name)
	return v
}

// mark schedules every empty declaration introducing name for removal.
func (f *frame) mark(name string) {
	for _, decl := range f.empty {
		for _, v := range decl.Variables {
			if v.Name == name {
				f.pending[decl] = true
				break
			}
		}
	}
}
