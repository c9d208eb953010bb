package calc

import (
	"errors"
	"fmt"
)

// Failure classes. Every error returned by this package wraps exactly one of
// these, so callers classify with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrSingular      = errors.New("singular computation")
	ErrNoConvergence = errors.New("root finder did not converge")
)

// CalcError records which formula failed and why.
type CalcError struct {
	Op     string // formula name, e.g. "PVAnnuityFactor"
	Err    error  // one of the sentinel errors above
	Detail string
	Cause  error // underlying error, e.g. from the solver
}

func (e *CalcError) Error() string {
	msg := fmt.Sprintf("calc.%s: %v", e.Op, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return msg
}

func (e *CalcError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newError(op string, kind error, format string, args ...interface{}) error {
	return &CalcError{Op: op, Err: kind, Detail: fmt.Sprintf(format, args...)}
}
