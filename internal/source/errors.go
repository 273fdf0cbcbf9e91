package source

import (
	"errors"
	"fmt"
)

// Error is returned by Source operations that reject caller input.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Column is the external column involved, if any.
	Column string

	// Subtype is the offending subtype for ErrCodeInvalidSubtype.
	Subtype string

	// Operator is the offending operator for ErrCodeUnsupportedOperator.
	Operator string
}

// ErrorCode categorizes source errors.
type ErrorCode string

const (
	// ErrCodeInvalidSubtype indicates a declared subtype belongs to no type.
	ErrCodeInvalidSubtype ErrorCode = "INVALID_SUBTYPE"

	// ErrCodeUnsupportedOperator indicates an operator the in-memory
	// evaluator does not implement (strict mode only).
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s (column=%s)", e.Code, e.Message, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidSubtype returns true if err is an invalid subtype error.
// Uses errors.As to handle wrapped errors.
func IsInvalidSubtype(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidSubtype
	}
	return false
}

// IsUnsupportedOperator returns true if err is an unsupported operator error.
func IsUnsupportedOperator(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeUnsupportedOperator
	}
	return false
}

// NewInvalidSubtypeError creates an Error for a subtype no type admits.
func NewInvalidSubtypeError(column, subtype string) *Error {
	return &Error{
		Code:    ErrCodeInvalidSubtype,
		Message: fmt.Sprintf("invalid data subtype: %s", subtype),
		Column:  column,
		Subtype: subtype,
	}
}

// NewUnsupportedOperatorError creates an Error for an operator that cannot
// be evaluated in memory.
func NewUnsupportedOperatorError(column, op string) *Error {
	return &Error{
		Code:     ErrCodeUnsupportedOperator,
		Message:  fmt.Sprintf("operator %q cannot be evaluated in memory", op),
		Column:   column,
		Operator: op,
	}
}

// Warning is a non-fatal finding recorded by a Source.
type Warning struct {
	Code    WarningCode
	Column  string
	Message string
}

// WarningCode categorizes warnings.
type WarningCode string

const (
	// WarnUnknownColumn: a subtype was declared for a column the source
	// does not have. The declaration was skipped.
	WarnUnknownColumn WarningCode = "UNKNOWN_COLUMN"

	// WarnUnknownOperator: an operator was missing from the SQL registry,
	// or was ignored by the in-memory evaluator.
	WarnUnknownOperator WarningCode = "UNKNOWN_OPERATOR"
)

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
