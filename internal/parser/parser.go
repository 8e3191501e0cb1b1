// Package parser provides Yul parsing into an AST.
//
// The parser is a recursive-descent parser over the token stream produced
// by the lexer. The input is a single block:
//
//	{
//	    let x, y
//	    x, y := f(1, 2)
//	}
//
// Errors are collected with line and column information; after an error the
// parser skips to the next statement boundary and continues, so one run
// reports every independent syntax error. Calls to builtins are checked
// against the builtin's argument and return counts.
package parser

import (
	"fmt"

	"codeberg.org/saruga/yulopt/internal/ast"
	"codeberg.org/saruga/yulopt/internal/builtins"
	"codeberg.org/saruga/yulopt/internal/diagnostic"
	"codeberg.org/saruga/yulopt/internal/lexer"
)

// Parser parses Yul source into an AST.
type Parser struct {
	source    string
	tokens    []lexer.Token
	pos       int
	lineIndex *diagnostic.LineIndex

	errors       []ParseError
	lastErrorPos int
}

// ParseError represents a parsing error.
type ParseError struct {
	Code    diagnostic.Code
	Message string
	Pos     int
	End     int
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// New creates a new parser for the given source.
func New(source string) *Parser {
	return &Parser{
		source:       source,
		tokens:       lexer.New(source).Tokenize(),
		lineIndex:    diagnostic.NewLineIndex(source),
		lastErrorPos: -1,
	}
}

// Parse parses the source and returns the root block.
// The block is non-nil even when errors are returned.
func (p *Parser) Parse() (*ast.Block, []ParseError) {
	block := p.parseBlock()
	if p.current().Kind != lexer.TokEOF {
		p.errorf(diagnostic.CodeSyntax, "expected end of input, got %s", p.current().Kind)
	}
	return block, p.errors
}

// Parse is a convenience wrapper around New(source).Parse().
func Parse(source string) (*ast.Block, []ParseError) {
	return New(source).Parse()
}

// ----------------------------------------------------------------------------
// Token Helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF, Start: len(p.source), End: len(p.source)}
	}
	return p.tokens[pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	// Never move past EOF or a lexer error; both end the token stream.
	if tok.Kind != lexer.TokEOF && tok.Kind != lexer.TokError {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.errorf(diagnostic.CodeSyntax, "expected %s, got %s", kind, tok.Kind)
		return tok, false
	}
	p.advance()
	return tok, true
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.current().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(code diagnostic.Code, format string, args ...any) {
	tok := p.current()
	msg := fmt.Sprintf(format, args...)
	switch tok.Kind {
	case lexer.TokError:
		code = diagnostic.CodeInvalidToken
		msg = tok.Value
	case lexer.TokEOF:
		code = diagnostic.CodeUnexpectedEOF
	}
	p.errorAt(code, tok.Start, tok.End, "%s", msg)
}

// errorAt reports an error for the byte range [start, end).
func (p *Parser) errorAt(code diagnostic.Code, start, end int, format string, args ...any) {
	// One error per position keeps recovery from cascading.
	if start == p.lastErrorPos {
		return
	}
	p.lastErrorPos = start

	pos := p.lineIndex.Position(start)
	p.errors = append(p.errors, ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     start,
		End:     end,
		Line:    pos.Line,
		Column:  pos.Column,
	})
}

// synchronize skips tokens until something that can start a statement,
// a closing brace, or the end of input.
func (p *Parser) synchronize() {
	p.advance()
	for {
		switch p.current().Kind {
		case lexer.TokEOF, lexer.TokError, lexer.TokRBrace, lexer.TokLBrace,
			lexer.TokLet, lexer.TokFunction, lexer.TokIf, lexer.TokSwitch,
			lexer.TokFor, lexer.TokBreak, lexer.TokContinue, lexer.TokLeave:
			return
		}
		p.advance()
	}
}

func loc(tok lexer.Token) ast.Loc {
	return ast.Loc{Start: int32(tok.Start)}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseBlock() *ast.Block {
	open, _ := p.expect(lexer.TokLBrace)
	block := &ast.Block{Loc: loc(open)}

	for {
		kind := p.current().Kind
		if kind == lexer.TokRBrace || kind == lexer.TokEOF || kind == lexer.TokError {
			break
		}
		before := p.pos
		if s := p.parseStatement(); s != nil {
			block.Statements = append(block.Statements, s)
			continue
		}
		if p.pos == before || p.current().Kind != lexer.TokRBrace {
			p.synchronize()
		}
	}

	p.expect(lexer.TokRBrace)
	return block
}

// parseStatement returns nil after reporting an error.
func (p *Parser) parseStatement() ast.Stmt {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokLBrace:
		return p.parseBlock()

	case lexer.TokFunction:
		return p.parseFunctionDefinition()

	case lexer.TokLet:
		return p.parseVariableDeclaration()

	case lexer.TokIf:
		return p.parseIf()

	case lexer.TokSwitch:
		return p.parseSwitch()

	case lexer.TokFor:
		return p.parseForLoop()

	case lexer.TokBreak:
		p.advance()
		return &ast.Break{Loc: loc(tok)}

	case lexer.TokContinue:
		p.advance()
		return &ast.Continue{Loc: loc(tok)}

	case lexer.TokLeave:
		p.advance()
		return &ast.Leave{Loc: loc(tok)}

	case lexer.TokIdent:
		return p.parseCallOrAssignment()

	default:
		p.errorf(diagnostic.CodeSyntax, "expected statement, got %s", tok.Kind)
		return nil
	}
}

func (p *Parser) parseFunctionDefinition() ast.Stmt {
	kw := p.advance()
	name, ok := p.expect(lexer.TokIdent)
	if !ok {
		return nil
	}

	fn := &ast.FunctionDefinition{Loc: loc(kw), Name: name.Value}

	if _, ok := p.expect(lexer.TokLParen); !ok {
		return nil
	}
	if p.current().Kind != lexer.TokRParen {
		if fn.Parameters, ok = p.parseTypedNameList(); !ok {
			return nil
		}
	}
	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil
	}

	if p.match(lexer.TokArrow) {
		if fn.ReturnVariables, ok = p.parseTypedNameList(); !ok {
			return nil
		}
	}

	if p.current().Kind != lexer.TokLBrace {
		p.errorf(diagnostic.CodeSyntax, "expected function body, got %s", p.current().Kind)
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseVariableDeclaration() ast.Stmt {
	kw := p.advance()
	vars, ok := p.parseTypedNameList()
	if !ok {
		return nil
	}

	decl := &ast.VariableDeclaration{Loc: loc(kw), Variables: vars}
	if p.match(lexer.TokColonAssign) {
		if decl.Value = p.parseValue(len(vars)); decl.Value == nil {
			return nil
		}
	}
	return decl
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.advance()
	cond := p.parseValue(1)
	if cond == nil {
		return nil
	}
	if p.current().Kind != lexer.TokLBrace {
		p.errorf(diagnostic.CodeSyntax, "expected { after if condition, got %s", p.current().Kind)
		return nil
	}
	return &ast.If{Loc: loc(kw), Condition: cond, Body: p.parseBlock()}
}

func (p *Parser) parseSwitch() ast.Stmt {
	kw := p.advance()
	expr := p.parseValue(1)
	if expr == nil {
		return nil
	}

	sw := &ast.Switch{Loc: loc(kw), Expr: expr}
	for p.current().Kind == lexer.TokCase {
		caseTok := p.advance()
		value := p.parseLiteral()
		if value == nil {
			return nil
		}
		if p.current().Kind != lexer.TokLBrace {
			p.errorf(diagnostic.CodeSyntax, "expected { after case value, got %s", p.current().Kind)
			return nil
		}
		sw.Cases = append(sw.Cases, &ast.Case{Loc: loc(caseTok), Value: value, Body: p.parseBlock()})
	}

	if p.current().Kind == lexer.TokDefault {
		defTok := p.advance()
		if p.current().Kind != lexer.TokLBrace {
			p.errorf(diagnostic.CodeSyntax, "expected { after default, got %s", p.current().Kind)
			return nil
		}
		sw.Cases = append(sw.Cases, &ast.Case{Loc: loc(defTok), Body: p.parseBlock()})
	}

	if len(sw.Cases) == 0 {
		p.errorf(diagnostic.CodeSyntax, "switch needs at least one case or default, got %s", p.current().Kind)
		return nil
	}
	return sw
}

func (p *Parser) parseForLoop() ast.Stmt {
	kw := p.advance()
	loop := &ast.ForLoop{Loc: loc(kw)}

	if p.current().Kind != lexer.TokLBrace {
		p.errorf(diagnostic.CodeSyntax, "expected { for loop initializer, got %s", p.current().Kind)
		return nil
	}
	loop.Pre = p.parseBlock()

	if loop.Condition = p.parseValue(1); loop.Condition == nil {
		return nil
	}

	if p.current().Kind != lexer.TokLBrace {
		p.errorf(diagnostic.CodeSyntax, "expected { for loop post block, got %s", p.current().Kind)
		return nil
	}
	loop.Post = p.parseBlock()

	if p.current().Kind != lexer.TokLBrace {
		p.errorf(diagnostic.CodeSyntax, "expected { for loop body, got %s", p.current().Kind)
		return nil
	}
	loop.Body = p.parseBlock()
	return loop
}

// parseCallOrAssignment handles statements starting with an identifier:
// a call evaluated for effects, or an assignment to one or more names.
func (p *Parser) parseCallOrAssignment() ast.Stmt {
	first := p.current()

	if p.peek(1).Kind == lexer.TokLParen {
		call := p.parseValue(0)
		if call == nil {
			return nil
		}
		return &ast.ExpressionStatement{Loc: loc(first), Expr: call}
	}

	var names []*ast.Identifier
	for {
		tok, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil
		}
		names = append(names, &ast.Identifier{Loc: loc(tok), Name: tok.Value})
		if !p.match(lexer.TokComma) {
			break
		}
	}

	if p.current().Kind != lexer.TokColonAssign {
		p.errorf(diagnostic.CodeSyntax, "expected := or (, got %s", p.current().Kind)
		return nil
	}
	p.advance()

	value := p.parseValue(len(names))
	if value == nil {
		return nil
	}
	return &ast.Assignment{Loc: loc(first), VariableNames: names, Value: value}
}

// parseTypedNameList parses: name[:type] (, name[:type])*
func (p *Parser) parseTypedNameList() ([]ast.TypedName, bool) {
	var names []ast.TypedName
	for {
		tok, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil, false
		}
		name := ast.TypedName{Loc: loc(tok), Name: tok.Value}
		if p.match(lexer.TokColon) {
			typ, ok := p.expect(lexer.TokIdent)
			if !ok {
				return nil, false
			}
			name.Type = typ.Value
		}
		names = append(names, name)
		if !p.match(lexer.TokComma) {
			return names, true
		}
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// parseExpression returns nil after reporting an error.
func (p *Parser) parseExpression() ast.Expr {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokIdent:
		p.advance()
		id := &ast.Identifier{Loc: loc(tok), Name: tok.Value}
		if p.current().Kind != lexer.TokLParen {
			return id
		}
		return p.parseCallArguments(id)

	case lexer.TokNumber, lexer.TokString, lexer.TokHexString, lexer.TokTrue, lexer.TokFalse:
		return p.parseLiteral()

	default:
		p.errorf(diagnostic.CodeSyntax, "expected expression, got %s", tok.Kind)
		return nil
	}
}

// parseValue parses an expression in a position that consumes want values.
func (p *Parser) parseValue(want int) ast.Expr {
	e := p.parseExpression()
	if call, ok := e.(*ast.FunctionCall); ok {
		name := call.FunctionName
		if b := builtins.Lookup(name.Name); b != nil && b.Returns != want {
			start := int(name.Loc.Start)
			p.errorAt(diagnostic.CodeBuiltinArity, start, start+len(name.Name),
				"builtin %s returns %d values, %d expected", name.Name, b.Returns, want)
		}
	}
	return e
}

func (p *Parser) parseCallArguments(name *ast.Identifier) ast.Expr {
	p.expect(lexer.TokLParen)
	call := &ast.FunctionCall{Loc: name.Loc, FunctionName: name}

	if p.current().Kind != lexer.TokRParen {
		for {
			arg := p.parseValue(1)
			if arg == nil {
				return nil
			}
			call.Arguments = append(call.Arguments, arg)
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}

	rparen, ok := p.expect(lexer.TokRParen)
	if !ok {
		return nil
	}

	if b := builtins.Lookup(name.Name); b != nil && len(call.Arguments) != b.Args {
		p.errorAt(diagnostic.CodeBuiltinArity, int(name.Loc.Start), rparen.End,
			"builtin %s takes %d arguments, got %d", name.Name, b.Args, len(call.Arguments))
	}
	return call
}

func (p *Parser) parseLiteral() *ast.Literal {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokNumber, lexer.TokString, lexer.TokHexString, lexer.TokTrue, lexer.TokFalse:
	default:
		p.errorf(diagnostic.CodeSyntax, "expected literal, got %s", tok.Kind)
		return nil
	}
	p.advance()

	lit := &ast.Literal{Loc: loc(tok), Kind: ast.LiteralKindFor(tok.Kind), Value: tok.Value}
	if p.match(lexer.TokColon) {
		typ, ok := p.expect(lexer.TokIdent)
		if !ok {
			return nil
		}
		lit.Type = typ.Value
	}
	return lit
}
