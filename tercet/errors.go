package tercet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeCycle indicates an unbounded recursive context expansion.
	ErrCodeCycle ErrorCode = "EXPANSION_CYCLE"
	// ErrCodeInvalidLiteralType indicates a literal with no resolvable datatype.
	ErrCodeInvalidLiteralType ErrorCode = "INVALID_LITERAL_TYPE"
	// ErrCodeInvalidSubjectSelector indicates an unusable subject-selection strategy.
	ErrCodeInvalidSubjectSelector ErrorCode = "INVALID_SUBJECT_SELECTOR"
	// ErrCodeMalformedTriple indicates a flat triple with an unrecognized shape.
	ErrCodeMalformedTriple ErrorCode = "MALFORMED_TRIPLE"
	// ErrCodeConversion indicates a general conversion error.
	ErrCodeConversion ErrorCode = "CONVERSION_ERROR"
)

var (
	// ErrCycle indicates an expansion that would recurse without bound.
	ErrCycle = errors.New("tercet: context expansion cycle")
	// ErrInvalidLiteralType indicates a literal construction request with no
	// resolvable datatype.
	ErrInvalidLiteralType = errors.New("tercet: literal has no resolvable datatype")
	// ErrInvalidSubjectSelector indicates a subject-selection strategy that is
	// none of the recognized shapes.
	ErrInvalidSubjectSelector = errors.New("tercet: unrecognized subject selector")
	// ErrMalformedTriple indicates a flat triple whose arity or slot types do
	// not match any recognized shape.
	ErrMalformedTriple = errors.New("tercet: malformed flat triple")
)

// Code returns the error code for an error, or ErrCodeConversion if unknown.
// Returns the empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrCycle):
		return ErrCodeCycle
	case errors.Is(err, ErrInvalidLiteralType):
		return ErrCodeInvalidLiteralType
	case errors.Is(err, ErrInvalidSubjectSelector):
		return ErrCodeInvalidSubjectSelector
	case errors.Is(err, ErrMalformedTriple):
		return ErrCodeMalformedTriple
	}
	return ErrCodeConversion
}

// CycleError reports a context expansion that revisited a name it had
// already followed. Expand returns the unresolved input alongside a
// CycleError; that fallback value is documented and deliberate, and applies
// to no other failure kind.
type CycleError struct {
	// Name is the contraction at which the cycle was detected.
	Name Contraction
	// Path lists the names followed before detection, in traversal order.
	Path []Contraction
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("tercet: expansion of %q cycles", string(e.Name))
	}
	steps := make([]string, 0, len(e.Path)+1)
	for _, name := range e.Path {
		steps = append(steps, string(name))
	}
	steps = append(steps, string(e.Name))
	return fmt.Sprintf("tercet: expansion cycles: %s", strings.Join(steps, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }
