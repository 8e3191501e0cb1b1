package ast

// ----------------------------------------------------------------------------
// Tree Walker
// ----------------------------------------------------------------------------

// Visitor is implemented by optimiser steps. An implementation handles the
// kinds it cares about and hands every other node back to WalkStmt or
// WalkExpr for the default structural recursion:
//
//	func (v *myStep) VisitStmt(s ast.Stmt) {
//		switch s := s.(type) {
//		case *ast.Block:
//			...
//		default:
//			ast.WalkStmt(v, s)
//		}
//	}
type Visitor interface {
	VisitStmt(s Stmt)
	VisitExpr(e Expr)
}

// Walk visits the root block with v.
func Walk(v Visitor, root *Block) {
	v.VisitStmt(root)
}

// WalkStmt visits the direct children of s without modifying anything.
func WalkStmt(v Visitor, s Stmt) {
	switch s := s.(type) {
	case *Block:
		WalkBlock(v, s)

	case *VariableDeclaration:
		if s.Value != nil {
			v.VisitExpr(s.Value)
		}

	case *Assignment:
		for _, name := range s.VariableNames {
			v.VisitExpr(name)
		}
		v.VisitExpr(s.Value)

	case *ExpressionStatement:
		v.VisitExpr(s.Expr)

	case *If:
		v.VisitExpr(s.Condition)
		v.VisitStmt(s.Body)

	case *Switch:
		v.VisitExpr(s.Expr)
		for _, c := range s.Cases {
			if c.Value != nil {
				v.VisitExpr(c.Value)
			}
			v.VisitStmt(c.Body)
		}

	case *ForLoop:
		v.VisitStmt(s.Pre)
		v.VisitExpr(s.Condition)
		v.VisitStmt(s.Post)
		v.VisitStmt(s.Body)

	case *FunctionDefinition:
		v.VisitStmt(s.Body)

	case *Break, *Continue, *Leave:
		// No children
	}
}

// WalkBlock visits the direct statements of b in order, exactly once each.
// The visitor may replace the statement it is visiting in place; iteration
// continues with the following statement and the replacement is not visited.
func WalkBlock(v Visitor, b *Block) {
	for i := 0; i < len(b.Statements); i++ {
		v.VisitStmt(b.Statements[i])
	}
}

// WalkExpr visits the direct children of e.
func WalkExpr(v Visitor, e Expr) {
	switch e := e.(type) {
	case *FunctionCall:
		v.VisitExpr(e.FunctionName)
		for _, arg := range e.Arguments {
			v.VisitExpr(arg)
		}

	case *Identifier, *Literal:
		// Leaves
	}
}
