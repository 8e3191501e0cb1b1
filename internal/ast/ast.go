// Package ast defines the Abstract Syntax Tree types for Yul.
//
// The AST is designed to be:
// - Complete: Represents every Yul statement and expression kind
// - Transformable: Optimiser steps rewrite blocks in place
// - Identity-preserving: Statements are pointers, so a statement can be
//   located in its block by identity rather than by value
package ast

import "codeberg.org/saruga/yulopt/internal/lexer"

// ----------------------------------------------------------------------------
// Source Location
// ----------------------------------------------------------------------------

// Loc represents a location in source code.
type Loc struct {
	Start int32 // Byte offset of start
}

// ----------------------------------------------------------------------------
// Names
// ----------------------------------------------------------------------------

// TypedName is a declared name with an optional type annotation. The order
// of typed names in a declaration determines positional binding.
type TypedName struct {
	Loc  Loc
	Name string
	Type string // Empty for the dialect's default type
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr represents an expression.
type Expr interface {
	isExpr()
}

// Identifier represents a name reference.
type Identifier struct {
	Loc  Loc
	Name string
}

func (*Identifier) isExpr() {}

// LiteralKind identifies the kind of a literal.
type LiteralKind uint8

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralHexString
	LiteralBool
)

// Literal represents a number, string, hex string or boolean literal.
type Literal struct {
	Loc   Loc
	Kind  LiteralKind
	Value string // Raw literal text (strings without quotes or hex prefix)
	Type  string // Optional ":type" suffix
}

func (*Literal) isExpr() {}

// LiteralKindFor maps a literal token to its literal kind.
func LiteralKindFor(kind lexer.TokenKind) LiteralKind {
	switch kind {
	case lexer.TokString:
		return LiteralString
	case lexer.TokHexString:
		return LiteralHexString
	case lexer.TokTrue, lexer.TokFalse:
		return LiteralBool
	default:
		return LiteralNumber
	}
}

// FunctionCall represents a call to a builtin or user-defined function.
type FunctionCall struct {
	Loc          Loc
	FunctionName *Identifier
	Arguments    []Expr
}

func (*FunctionCall) isExpr() {}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Stmt represents a statement.
type Stmt interface {
	isStmt()
}

// Block represents { statements }. A block owns its statements and opens a
// lexical scope.
type Block struct {
	Loc        Loc
	Statements []Stmt
}

func (*Block) isStmt() {}

// VariableDeclaration represents: let a, b:T [:= value]
// A declaration without a value is "empty".
type VariableDeclaration struct {
	Loc       Loc
	Variables []TypedName
	Value     Expr // nil for an empty declaration
}

func (*VariableDeclaration) isStmt() {}

// IsEmpty returns true if the declaration has no initializing expression.
func (d *VariableDeclaration) IsEmpty() bool {
	return d.Value == nil
}

// Assignment represents: a, b := value
// VariableNames is never empty.
type Assignment struct {
	Loc           Loc
	VariableNames []*Identifier
	Value         Expr
}

func (*Assignment) isStmt() {}

// ExpressionStatement represents a function call evaluated for its effects.
type ExpressionStatement struct {
	Loc  Loc
	Expr Expr
}

func (*ExpressionStatement) isStmt() {}

// If represents: if condition { body }
type If struct {
	Loc       Loc
	Condition Expr
	Body      *Block
}

func (*If) isStmt() {}

// Case represents a case clause of a switch. Value is nil for default.
type Case struct {
	Loc   Loc
	Value *Literal
	Body  *Block
}

// Switch represents: switch expr case ... default ...
type Switch struct {
	Loc   Loc
	Expr  Expr
	Cases []*Case
}

func (*Switch) isStmt() {}

// ForLoop represents: for { pre } condition { post } { body }
type ForLoop struct {
	Loc       Loc
	Pre       *Block
	Condition Expr
	Post      *Block
	Body      *Block
}

func (*ForLoop) isStmt() {}

// FunctionDefinition represents: function name(params) -> returns { body }
type FunctionDefinition struct {
	Loc             Loc
	Name            string
	Parameters      []TypedName
	ReturnVariables []TypedName
	Body            *Block
}

func (*FunctionDefinition) isStmt() {}

// Break represents: break
type Break struct {
	Loc Loc
}

func (*Break) isStmt() {}

// Continue represents: continue
type Continue struct {
	Loc Loc
}

func (*Continue) isStmt() {}

// Leave represents: leave
type Leave struct {
	Loc Loc
}

func (*Leave) isStmt() {}

// ----------------------------------------------------------------------------
// Statement Lookup
// ----------------------------------------------------------------------------

// IndexOf returns the position of stmt among the direct statements of block,
// or -1. Statements are compared by identity: same dynamic type and same
// node, never by value.
func IndexOf(block *Block, stmt Stmt) int {
	for i, s := range block.Statements {
		if s == stmt {
			return i
		}
	}
	return -1
}
