package querysql

import "fmt"

// Stage identifies where pushdown broke.
type Stage string

const (
	// StageParse: the base query could not be parsed.
	StageParse Stage = "parse"

	// StageStatement: the base query parsed but is not a plain SELECT.
	StageStatement Stage = "statement"

	// StageOperator: an operator missing from the registry is not a
	// single SQL token.
	StageOperator Stage = "operator"

	// StageValue: a condition value has no SQL literal form, or is null.
	StageValue Stage = "value"

	// StageSerialize: the rebuilt statement could not be rendered.
	StageSerialize Stage = "serialize"

	// StageExecute: the backend rejected the translated query.
	// Set by callers that execute a Translated outcome.
	StageExecute Stage = "execute"
)

// Outcome is the result of a translation attempt.
//
// This is a sealed interface; the only implementations are Translated and
// Failed.
type Outcome interface {
	outcome()
}

// Translated carries a query ready to run on the backend.
type Translated struct {
	Query string

	// Warnings lists best-effort decisions made during translation,
	// e.g. operators missing from the registry.
	Warnings []string
}

func (Translated) outcome() {}

// Failed records why translation could not produce a query.
type Failed struct {
	Stage Stage
	Err   error
}

func (Failed) outcome() {}

// Error implements the error interface so a Failed can be logged or wrapped.
func (f Failed) Error() string {
	return fmt.Sprintf("pushdown %s: %v", f.Stage, f.Err)
}

// Unwrap returns the underlying cause.
func (f Failed) Unwrap() error {
	return f.Err
}
