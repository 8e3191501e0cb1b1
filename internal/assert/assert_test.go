package assert

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func run(f func()) (err error) {
	defer Recover(&err)
	f()
	return nil
}

func TestThatPasses(t *testing.T) {
	if err := run(func() { That(true, "unreachable") }); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestThatFails(t *testing.T) {
	err := run(func() { That(1+1 == 3, "bad sum %d", 2) })
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "internal error: bad sum 2" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Errorf("expected *InternalError, got %T", err)
	}
}

func TestFail(t *testing.T) {
	err := run(func() { Fail("not found: %s", "x") })
	if err == nil || err.Error() != "internal error: not found: x" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatWithStack(t *testing.T) {
	err := run(func() { Fail("boom") })
	verbose := fmt.Sprintf("%+v", err)
	if !strings.HasPrefix(verbose, "internal error: boom") {
		t.Errorf("unexpected verbose output: %s", verbose)
	}
	if !strings.Contains(verbose, "TestFormatWithStack") {
		t.Errorf("expected stack trace in verbose output:\n%s", verbose)
	}
	if plain := fmt.Sprintf("%v", err); plain != "internal error: boom" {
		t.Errorf("unexpected plain output: %s", plain)
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "other" {
			t.Errorf("expected foreign panic to propagate, got %v", r)
		}
	}()
	_ = run(func() { panic("other") })
	t.Error("unreachable")
}

func TestWrap(t *testing.T) {
	err := run(func() { Fail("boom") })
	wrapped := Wrap(err, "varDeclPropagator")
	if wrapped.Error() != "step varDeclPropagator: internal error: boom" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
	var ie *InternalError
	if !errors.As(wrapped, &ie) {
		t.Error("expected wrapped error to unwrap to *InternalError")
	}
}
