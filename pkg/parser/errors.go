package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// SyntaxError is the only error a pbQL query can produce. It aborts the
// whole query.
type SyntaxError struct {
	Pos     Position
	Message string // diagnostic detail, not part of Error()
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: Unexpected token at %d:%d", e.Pos.Line, e.Pos.Column)
}

// AsSyntaxError unwraps err into a *SyntaxError.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func newSyntaxError(line, column int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos:     token.Position{Line: line, Column: column},
		Message: fmt.Sprintf(format, args...),
	}
}

// Common error messages
const (
	ErrUnexpectedToken   = "unexpected %q, expected %s"
	ErrUnknownCommand    = "unknown command %q"
	ErrInvalidPhone      = "phone %q must be exactly 10 digits"
	ErrMissingValue      = "missing value after %s"
	ErrMissingTerminator = "query must end with ';'"
	ErrUnexpectedEnd     = "unexpected end of command, expected %s"
)
