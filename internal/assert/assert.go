// Package assert reports broken internal invariants.
//
// Optimiser steps assume a well-formed tree that earlier phases produced. A
// violated assumption is a bug, not a user error, so steps panic with an
// *InternalError and the driver converts it back into an error at the step
// boundary with Recover.
package assert

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError is the panic value raised by That and Fail.
type InternalError struct {
	err error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.err
}

// Format prints the stack trace recorded at the failing assertion with %+v.
func (e *InternalError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal error: %+v", e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// That panics with an *InternalError when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(&InternalError{err: errors.Errorf(format, args...)})
	}
}

// Fail panics with an *InternalError unconditionally.
func Fail(format string, args ...any) {
	panic(&InternalError{err: errors.Errorf(format, args...)})
}

// Recover turns an *InternalError panic into *errp. Any other panic is
// re-raised. It must be called directly by a deferred statement:
//
//	defer assert.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*InternalError)
	if !ok {
		panic(r)
	}
	*errp = ie
}

// Wrap annotates an internal error with the step that raised it.
func Wrap(err error, step string) error {
	return errors.Wrapf(err, "step %s", step)
}
