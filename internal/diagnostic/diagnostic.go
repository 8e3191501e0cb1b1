// Package diagnostic provides error reporting for Yul sources.
//
// Diagnostics carry a severity, an optional code and a source range
// resolved to 1-based line and column numbers.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error stops the optimiser from producing output.
	Error Severity = iota
	// Warning is a non-blocking issue.
	Warning
	// Note provides additional context for another diagnostic.
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Code identifies a class of diagnostic.
type Code string

const (
	CodeSyntax        Code = "E0001"
	CodeUnexpectedEOF Code = "E0002"
	CodeInvalidToken  Code = "E0003"
	CodeInvalidStep   Code = "E0004"
	CodeBuiltinArity  Code = "E0005"
	CodeInternal      Code = "E9999"
)

// Position represents a position in source code.
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Range represents a range in source code.
type Range struct {
	Start Position
	End   Position
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Range    Range
}

// Error returns a formatted error string.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)
}

// List collects diagnostics for one source.
type List struct {
	diagnostics []Diagnostic
	lineIndex   *LineIndex
	hasErrors   bool
}

// NewList creates a new diagnostic list for the given source.
func NewList(source string) *List {
	return &List{lineIndex: NewLineIndex(source)}
}

// Add adds a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	l.diagnostics = append(l.diagnostics, d)
	if d.Severity == Error {
		l.hasErrors = true
	}
}

// AddError adds an error diagnostic for the byte range [start, end).
func (l *List) AddError(code Code, start, end int, message string) {
	if end <= start {
		end = start + 1
	}
	l.Add(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  message,
		Range:    l.MakeRange(start, end),
	})
}

// MakeRange converts byte offsets to a Range.
func (l *List) MakeRange(start, end int) Range {
	return Range{
		Start: l.lineIndex.Position(start),
		End:   l.lineIndex.Position(end),
	}
}

// HasErrors returns true if there are any error-level diagnostics.
func (l *List) HasErrors() bool {
	return l.hasErrors
}

// Diagnostics returns all collected diagnostics.
func (l *List) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// Format formats all diagnostics as a human-readable string.
func (l *List) Format() string {
	var sb strings.Builder
	for i := range l.diagnostics {
		sb.WriteString(l.FormatDiagnostic(&l.diagnostics[i]))
	}
	return sb.String()
}

// FormatDiagnostic formats a single diagnostic with source context:
//
//	2:5: error: expected identifier, got :=
//	    let := 1
//	        ^~
func (l *List) FormatDiagnostic(d *Diagnostic) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d:%d: %s: %s\n", d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)

	sourceLine := l.lineIndex.Line(d.Range.Start.Line)
	if sourceLine != "" {
		fmt.Fprintf(&sb, "    %s\n", sourceLine)
		caret := strings.Repeat(" ", d.Range.Start.Column-1+4) + "^"
		if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column > d.Range.Start.Column+1 {
			caret += strings.Repeat("~", d.Range.End.Column-d.Range.Start.Column-1)
		}
		sb.WriteString(caret)
		sb.WriteByte('\n')
	}

	return sb.String()
}
