// Package printer outputs Yul code from an AST.
//
// The printer can operate in two modes:
// - Pretty: Human-readable output with indentation
// - Minified: Minimal whitespace output
//
// Pretty output of a parsed program reparses to the same tree, which is
// what the optimiser's tests and the CLI rely on.
package printer

import (
	"strings"

	"codeberg.org/saruga/yulopt/internal/ast"
)

// Options controls printer output.
type Options struct {
	// MinifyWhitespace removes unnecessary whitespace
	MinifyWhitespace bool
}

// Printer outputs Yul code.
type Printer struct {
	options Options

	buf    strings.Builder
	indent int

	// Last byte written, used to decide if two words need a separator
	last byte
}

// New creates a new printer.
func New(options Options) *Printer {
	return &Printer{options: options}
}

// Print outputs the block as a string. Pretty output ends with a newline.
func (p *Printer) Print(block *ast.Block) string {
	p.buf.Reset()
	p.indent = 0
	p.last = 0
	p.printBlock(block)
	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
	return p.buf.String()
}

// Print formats block with the given options.
func Print(block *ast.Block, options Options) string {
	return New(options).Print(block)
}

// ----------------------------------------------------------------------------
// Output Helpers
// ----------------------------------------------------------------------------

func (p *Printer) print(s string) {
	if s == "" {
		return
	}
	p.buf.WriteString(s)
	p.last = s[len(s)-1]
}

// printWord prints an identifier, keyword or number, separating it from a
// preceding word when whitespace is minified.
func (p *Printer) printWord(s string) {
	if p.options.MinifyWhitespace && isWordByte(p.last) && s != "" && isWordByte(s[0]) {
		p.buf.WriteByte(' ')
	}
	p.print(s)
}

func (p *Printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.print(" ")
	}
}

func (p *Printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte('\n')
		for i := 0; i < p.indent; i++ {
			p.buf.WriteString("    ")
		}
		p.last = '\n'
	}
}

func (p *Printer) printComma() {
	p.print(",")
	p.printSpace()
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '$' || c == '.'
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printBlock(b *ast.Block) {
	if len(b.Statements) == 0 {
		p.print("{")
		p.printSpace()
		p.print("}")
		return
	}

	p.print("{")
	p.indent++
	for _, s := range b.Statements {
		p.printNewline()
		p.printStmt(s)
	}
	p.indent--
	p.printNewline()
	p.print("}")
}

// printInlineBlock prints a for loop initializer or post block on one line
// when it holds at most one simple statement.
func (p *Printer) printInlineBlock(b *ast.Block) {
	if len(b.Statements) != 1 || p.options.MinifyWhitespace {
		p.printBlock(b)
		return
	}
	switch b.Statements[0].(type) {
	case *ast.VariableDeclaration, *ast.Assignment, *ast.ExpressionStatement:
		p.print("{ ")
		p.printStmt(b.Statements[0])
		p.print(" }")
	default:
		p.printBlock(b)
	}
}

func (p *Printer) printStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		p.printBlock(s)

	case *ast.VariableDeclaration:
		p.printWord("let")
		p.printSpace()
		p.printTypedNames(s.Variables)
		if s.Value != nil {
			p.printSpace()
			p.print(":=")
			p.printSpace()
			p.printExpr(s.Value)
		}

	case *ast.Assignment:
		for i, name := range s.VariableNames {
			if i > 0 {
				p.printComma()
			}
			p.printWord(name.Name)
		}
		p.printSpace()
		p.print(":=")
		p.printSpace()
		p.printExpr(s.Value)

	case *ast.ExpressionStatement:
		p.printExpr(s.Expr)

	case *ast.If:
		p.printWord("if")
		p.printSpace()
		p.printExpr(s.Condition)
		p.printSpace()
		p.printBlock(s.Body)

	case *ast.Switch:
		p.printSwitch(s)

	case *ast.ForLoop:
		p.printWord("for")
		p.printSpace()
		p.printInlineBlock(s.Pre)
		p.printSpace()
		p.printExpr(s.Condition)
		p.printSpace()
		p.printInlineBlock(s.Post)
		p.printSpace()
		p.printBlock(s.Body)

	case *ast.FunctionDefinition:
		p.printFunction(s)

	case *ast.Break:
		p.printWord("break")

	case *ast.Continue:
		p.printWord("continue")

	case *ast.Leave:
		p.printWord("leave")
	}
}

func (p *Printer) printSwitch(s *ast.Switch) {
	p.printWord("switch")
	p.printSpace()
	p.printExpr(s.Expr)
	for _, c := range s.Cases {
		p.printNewline()
		if c.Value != nil {
			p.printWord("case")
			p.printSpace()
			p.printLiteral(c.Value)
		} else {
			p.printWord("default")
		}
		p.printSpace()
		p.printBlock(c.Body)
	}
}

func (p *Printer) printFunction(f *ast.FunctionDefinition) {
	p.printWord("function")
	p.printSpace()
	p.printWord(f.Name)
	p.print("(")
	p.printTypedNames(f.Parameters)
	p.print(")")
	if len(f.ReturnVariables) > 0 {
		p.printSpace()
		p.print("->")
		p.printSpace()
		p.printTypedNames(f.ReturnVariables)
	}
	p.printSpace()
	p.printBlock(f.Body)
}

func (p *Printer) printTypedNames(names []ast.TypedName) {
	for i, n := range names {
		if i > 0 {
			p.printComma()
		}
		p.printWord(n.Name)
		if n.Type != "" {
			p.print(":")
			p.print(n.Type)
		}
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Printer) printExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Identifier:
		p.printWord(e.Name)

	case *ast.Literal:
		p.printLiteral(e)

	case *ast.FunctionCall:
		p.printWord(e.FunctionName.Name)
		p.print("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.printComma()
			}
			p.printExpr(arg)
		}
		p.print(")")
	}
}

func (p *Printer) printLiteral(lit *ast.Literal) {
	switch lit.Kind {
	case ast.LiteralString:
		p.print(`"` + lit.Value + `"`)
	case ast.LiteralHexString:
		p.printWord("hex")
		p.print(`"` + lit.Value + `"`)
	default:
		p.printWord(lit.Value)
	}
	if lit.Type != "" {
		p.print(":")
		p.print(lit.Type)
	}
}
