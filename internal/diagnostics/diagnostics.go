// Package diagnostics keys every compile error and warning by a stable
// code (e.g. ErrUnresolvedType).
package diagnostics

import (
	"fmt"

	"github.com/funvibe/matchc/internal/token"
)

// ErrorCode identifies one row of spec.md §7's error table.
type ErrorCode string

const (
	ErrUnresolvedType       ErrorCode = "M001"
	ErrNonType              ErrorCode = "M002"
	ErrDuplicateNamedField  ErrorCode = "M003"
	ErrMixedFieldStyle      ErrorCode = "M004"
	ErrWrongFieldCount      ErrorCode = "M005"
	ErrUnknownField         ErrorCode = "M006"
	ErrMultipleSplats       ErrorCode = "M007"
	ErrUnrecognizedPattern  ErrorCode = "M008"
	ErrUnrecognizedBlock    ErrorCode = "M009"
	ErrUnrecognizedCase     ErrorCode = "M010"
	ErrUndefinedVariable    ErrorCode = "M011" // P6: a one-side || variable, or a ^name pin of an unbound name
)

// WarnUnreachableArm is the one non-fatal diagnostic kind (spec.md §7, P5/S6).
const WarnUnreachableArm ErrorCode = "W001"

// DiagnosticError is a fatal compile-time error. It satisfies the error
// interface so callers that don't care about the code can treat it as a
// plain error, exactly like the teacher's diagnostics.DiagnosticError.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: %s [%s]", e.Token.String(), e.Message, e.Code)
}

// Warning is a non-fatal diagnostic: compilation continues, the warning is
// surfaced after the whole automaton is built (spec.md §7).
type Warning struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

func NewWarning(code ErrorCode, tok token.Token, format string, args ...interface{}) *Warning {
	return &Warning{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s [%s]", w.Token.String(), w.Message, w.Code)
}

// Bag accumulates diagnostics across a single compilation the way the
// teacher's analyzer walker accumulates *diagnostics.DiagnosticError into
// an errorSet/errors pair before returning them from Analyze.
type Bag struct {
	Warnings []*Warning
}

func (b *Bag) Warn(w *Warning) {
	b.Warnings = append(b.Warnings, w)
}
