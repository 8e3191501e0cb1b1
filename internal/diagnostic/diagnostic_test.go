package diagnostic

import (
	"fmt"
	"testing"
)

// ============================================================================
// Line Index Tests
// ============================================================================

func TestLineIndexEmpty(t *testing.T) {
	idx := NewLineIndex("")
	if idx.LineCount() != 1 {
		t.Errorf("Empty source LineCount() = %d, want 1", idx.LineCount())
	}

	pos := idx.Position(0)
	if pos.Line != 1 || pos.Column != 1 {
		t.Errorf("Empty source offset 0: got %d:%d, want 1:1", pos.Line, pos.Column)
	}
}

func TestLineIndexPositions(t *testing.T) {
	source := "{\n    let x\n\r\n}\r"
	idx := NewLineIndex(source)

	if idx.LineCount() != 4 {
		t.Errorf("LineCount() = %d, want 4", idx.LineCount())
	}

	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 1, 1},   // '{'
		{6, 2, 5},   // 'l'
		{10, 2, 9},  // 'x'
		{12, 3, 1},  // '\r'
		{14, 4, 1},  // '}'
		{-3, 1, 1},  // clamped
		{100, 4, 3}, // clamped to end
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset_%d", tt.offset), func(t *testing.T) {
			pos := idx.Position(tt.offset)
			if pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("offset %d: got %d:%d, want %d:%d",
					tt.offset, pos.Line, pos.Column, tt.line, tt.col)
			}
		})
	}
}

func TestLineIndexLine(t *testing.T) {
	idx := NewLineIndex("a\r\nbb\ncc")
	cases := map[int]string{0: "", 1: "a", 2: "bb", 3: "cc", 4: ""}
	for line, want := range cases {
		if got := idx.Line(line); got != want {
			t.Errorf("Line(%d) = %q, want %q", line, got, want)
		}
	}
}

// ============================================================================
// Diagnostic List Tests
// ============================================================================

func TestListAddError(t *testing.T) {
	l := NewList("{\n    let := 1\n}")
	if l.HasErrors() {
		t.Fatal("new list should have no errors")
	}

	l.AddError(CodeSyntax, 10, 12, "expected identifier, got :=")

	if !l.HasErrors() {
		t.Fatal("expected HasErrors after AddError")
	}
	d := l.Diagnostics()[0]
	if d.Range.Start.Line != 2 || d.Range.Start.Column != 9 {
		t.Errorf("start = %d:%d, want 2:9", d.Range.Start.Line, d.Range.Start.Column)
	}
	if got, want := d.Error(), "2:9: error: expected identifier, got :="; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestListFormat(t *testing.T) {
	l := NewList("{\n    let := 1\n}")
	l.AddError(CodeSyntax, 10, 12, "expected identifier, got :=")

	want := "2:9: error: expected identifier, got :=\n" +
		"        let := 1\n" +
		"            ^~\n"
	if got := l.Format(); got != want {
		t.Errorf("Format() mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestWarningsDoNotSetHasErrors(t *testing.T) {
	l := NewList("x")
	l.Add(Diagnostic{Severity: Warning, Message: "w"})
	if l.HasErrors() {
		t.Error("warning should not count as error")
	}
}

func TestSeverityString(t *testing.T) {
	if Error.String() != "error" || Warning.String() != "warning" || Note.String() != "note" {
		t.Error("unexpected severity names")
	}
	if Severity(42).String() != "unknown" {
		t.Error("unknown severity should print as unknown")
	}
}
