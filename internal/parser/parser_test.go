package parser

import (
	"strings"
	"testing"

	"codeberg.org/saruga/yulopt/internal/ast"
	"codeberg.org/saruga/yulopt/internal/diagnostic"
	"codeberg.org/saruga/yulopt/internal/printer"
)

// ----------------------------------------------------------------------------
// Test Helpers (esbuild-style)
// ----------------------------------------------------------------------------

// expectPrinted parses input and verifies the printed output matches expected.
func expectPrinted(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		block, errs := New(input).Parse()
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := printer.New(printer.Options{MinifyWhitespace: true}).Print(block)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// expectParseError verifies that parsing produces an error containing the substring.
func expectParseError(t *testing.T, input string, errorSubstring string) {
	t.Helper()
	t.Run(input+"_error", func(t *testing.T) {
		t.Helper()
		_, errs := New(input).Parse()
		if len(errs) == 0 {
			t.Errorf("expected parse error containing %q, got none", errorSubstring)
			return
		}
		for _, err := range errs {
			if strings.Contains(err.Message, errorSubstring) {
				return
			}
		}
		t.Errorf("expected error containing %q, got: %v", errorSubstring, errs)
	})
}

// ----------------------------------------------------------------------------
// Declarations and Assignments
// ----------------------------------------------------------------------------

func TestVariableDeclaration(t *testing.T) {
	expectPrinted(t, "{ let x }", "{let x}")
	expectPrinted(t, "{ let x, y, z }", "{let x,y,z}")
	expectPrinted(t, "{ let x := 1 }", "{let x:=1}")
	expectPrinted(t, "{ let x:u256, y:bool := f() }", "{let x:u256,y:bool:=f()}")
	expectPrinted(t, "{ let a.b$c := 0x2a }", "{let a.b$c:=0x2a}")
}

func TestAssignment(t *testing.T) {
	expectPrinted(t, "{ x := 1 }", "{x:=1}")
	expectPrinted(t, "{ z, x, y := f(1, 2) }", "{z,x,y:=f(1,2)}")
	expectPrinted(t, "{ x := y }", "{x:=y}")
}

func TestExpressionStatement(t *testing.T) {
	expectPrinted(t, "{ sstore(0, add(1, calldataload(4))) }", "{sstore(0,add(1,calldataload(4)))}")
	expectPrinted(t, "{ stop() }", "{stop()}")
}

func TestLiterals(t *testing.T) {
	expectPrinted(t, `{ let s := "abc" }`, `{let s:="abc"}`)
	expectPrinted(t, `{ let s := "a\"b" }`, `{let s:="a\"b"}`)
	expectPrinted(t, "{ let b := true }", "{let b:=true}")
	expectPrinted(t, "{ let b := false:bool }", "{let b:=false:bool}")
	expectPrinted(t, "{ let n := 1:u256 }", "{let n:=1:u256}")
	expectPrinted(t, `{ let h := hex"00ff" }`, `{let h:=hex"00ff"}`)
	expectPrinted(t, `{ switch x case hex'0a' { } }`, `{switch x case hex"0a"{}}`)
}

// ----------------------------------------------------------------------------
// Control Flow
// ----------------------------------------------------------------------------

func TestIf(t *testing.T) {
	expectPrinted(t, "{ if lt(x, 1) { x := 1 } }", "{if lt(x,1){x:=1}}")
	expectPrinted(t, "{ if x { } }", "{if x{}}")
}

func TestSwitch(t *testing.T) {
	expectPrinted(t, "{ switch x case 0 { y := 1 } case 1 { } default { y := 2 } }",
		"{switch x case 0{y:=1}case 1{}default{y:=2}}")
	expectPrinted(t, `{ switch x case "a" { } }`, `{switch x case"a"{}}`)
	expectPrinted(t, "{ switch x default { } }", "{switch x default{}}")
}

func TestForLoop(t *testing.T) {
	expectPrinted(t, "{ for { let i := 0 } lt(i, 10) { i := add(i, 1) } { break } }",
		"{for{let i:=0}lt(i,10){i:=add(i,1)}{break}}")
	expectPrinted(t, "{ for { } 1 { } { continue } }", "{for{}1{}{continue}}")
}

func TestFunctionDefinition(t *testing.T) {
	expectPrinted(t, "{ function f() { } }", "{function f(){}}")
	expectPrinted(t, "{ function f(a, b) -> r { r := add(a, b) leave } }",
		"{function f(a,b)->r{r:=add(a,b)leave}}")
	expectPrinted(t, "{ function g(a:u256) -> x:u256, y { } }", "{function g(a:u256)->x:u256,y{}}")
}

func TestNestedBlocks(t *testing.T) {
	expectPrinted(t, "{ { let x } { { } } }", "{{let x}{{}}}")
	expectPrinted(t, "{}", "{}")
}

func TestComments(t *testing.T) {
	expectPrinted(t, "{ // line\n let x /* block */ := 1 }", "{let x:=1}")
}

// ----------------------------------------------------------------------------
// Tree Shape
// ----------------------------------------------------------------------------

func TestParseShape(t *testing.T) {
	block, errs := Parse("{ let x, y\n x, y := f() }")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Statements))
	}

	decl, ok := block.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", block.Statements[0])
	}
	if !decl.IsEmpty() || len(decl.Variables) != 2 {
		t.Errorf("unexpected declaration: %+v", decl)
	}

	assign, ok := block.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", block.Statements[1])
	}
	if assign.Loc.Start != 12 {
		t.Errorf("expected assignment at offset 12, got %d", assign.Loc.Start)
	}
	if _, ok := assign.Value.(*ast.FunctionCall); !ok {
		t.Errorf("expected call value, got %T", assign.Value)
	}
}

func TestDefaultCaseHasNoValue(t *testing.T) {
	block, errs := Parse("{ switch x case 1 { } default { } }")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	sw := block.Statements[0].(*ast.Switch)
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
	if sw.Cases[0].Value == nil || sw.Cases[1].Value != nil {
		t.Errorf("unexpected case values: %v, %v", sw.Cases[0].Value, sw.Cases[1].Value)
	}
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

func TestParseErrors(t *testing.T) {
	expectParseError(t, "let x", "expected {")
	expectParseError(t, "{ let }", "expected identifier")
	expectParseError(t, "{ let x := }", "expected expression")
	expectParseError(t, "{ x }", "expected := or (")
	expectParseError(t, "{ 1 }", "expected statement")
	expectParseError(t, "{ switch x }", "at least one case")
	expectParseError(t, "{ f(1, }", "expected expression")
	expectParseError(t, "{ let x", "expected }")
	expectParseError(t, "{ } }", "expected end of input")
	expectParseError(t, "{ let x := 0x }", "hex literal without digits")
	expectParseError(t, `{ let s := "abc }`, "unterminated string literal")
	expectParseError(t, "{ let x := # }", "unexpected character")
	expectParseError(t, "{ function f( { } }", "expected identifier")
}

func TestParseErrorPosition(t *testing.T) {
	_, errs := Parse("{\n  let := 1\n}")
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	err := errs[0]
	if err.Line != 2 || err.Column != 7 {
		t.Errorf("expected 2:7, got %d:%d", err.Line, err.Column)
	}
	if err.Error() != "2:7: expected identifier, got :=" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if err.Code != diagnostic.CodeSyntax {
		t.Errorf("expected code %s, got %s", diagnostic.CodeSyntax, err.Code)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// Two independent mistakes are both reported.
	_, errs := Parse("{\n  let := 1\n  let y\n  3\n}")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 2 || errs[1].Line != 4 {
		t.Errorf("unexpected error lines: %d, %d", errs[0].Line, errs[1].Line)
	}
}

func TestUnexpectedEOFCode(t *testing.T) {
	_, errs := Parse("{ let x := f(")
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if errs[0].Code != diagnostic.CodeUnexpectedEOF {
		t.Errorf("expected code %s, got %s", diagnostic.CodeUnexpectedEOF, errs[0].Code)
	}
}

// ----------------------------------------------------------------------------
// Builtin Calls
// ----------------------------------------------------------------------------

func TestBuiltinArityErrors(t *testing.T) {
	expectParseError(t, "{ sstore(0) }", "builtin sstore takes 2 arguments, got 1")
	expectParseError(t, "{ let x := add(1, 2, 3) }", "builtin add takes 2 arguments, got 3")
	expectParseError(t, "{ stop(1) }", "builtin stop takes 0 arguments, got 1")
	expectParseError(t, "{ let x := sstore(0, 1) }", "builtin sstore returns 0 values, 1 expected")
	expectParseError(t, "{ let x, y := add(1, 2) }", "builtin add returns 1 values, 2 expected")
	expectParseError(t, "{ x, y := caller() }", "builtin caller returns 1 values, 2 expected")
	expectParseError(t, "{ add(1, 2) }", "builtin add returns 1 values, 0 expected")
	expectParseError(t, "{ sstore(0, mstore(0, 1)) }", "builtin mstore returns 0 values, 1 expected")
	expectParseError(t, "{ if pop(1) { } }", "builtin pop returns 0 values, 1 expected")
	expectParseError(t, "{ switch stop() default { } }", "builtin stop returns 0 values, 1 expected")
	expectParseError(t, "{ for { } revert(0, 0) { } { } }", "builtin revert returns 0 values, 1 expected")
}

func TestBuiltinCallsAccepted(t *testing.T) {
	expectPrinted(t, "{ pop(add(mload(0), 1)) }", "{pop(add(mload(0),1))}")
	expectPrinted(t, "{ let a := caller() sstore(a, calldataload(0)) }", "{let a:=caller()sstore(a,calldataload(0))}")
	// User functions are not checked.
	expectPrinted(t, "{ let a, b := f(1, 2, 3) g() }", "{let a,b:=f(1,2,3)g()}")
}

func TestBuiltinArityErrorRange(t *testing.T) {
	_, errs := Parse("{\n  sstore(0)\n}")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	err := errs[0]
	if err.Code != diagnostic.CodeBuiltinArity {
		t.Errorf("expected code %s, got %s", diagnostic.CodeBuiltinArity, err.Code)
	}
	if err.Line != 2 || err.Column != 3 {
		t.Errorf("expected 2:3, got %d:%d", err.Line, err.Column)
	}
	// The range covers the whole call.
	if err.Pos != 4 || err.End != 13 {
		t.Errorf("expected range [4, 13), got [%d, %d)", err.Pos, err.End)
	}
}
