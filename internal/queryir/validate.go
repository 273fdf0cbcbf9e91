package queryir

import "fmt"

// evaluable lists the operators the in-memory evaluator implements.
var evaluable = map[string]bool{
	OpEqual:    true,
	OpNotEqual: true,
	OpGreater:  true,
	OpLess:     true,
	OpLike:     true,
}

// IsEvaluable reports whether op (in any case) can be evaluated in memory.
func IsEvaluable(op string) bool {
	return evaluable[Normalize(op)]
}

// ValidationResult describes how well a condition list can be evaluated
// without a backend.
type ValidationResult struct {
	// IsEvaluable is true when every condition can be applied in memory.
	IsEvaluable bool

	// Unsupported holds the indexes of conditions whose operator the
	// in-memory evaluator ignores.
	Unsupported []int

	// Warnings lists human-readable findings. Empty when IsEvaluable is true.
	Warnings []string
}

// Validate checks a condition list against the in-memory evaluator.
//
// Rules:
//  1. Column must be non-empty
//  2. Operator must be one of =, !=, >, <, like
//  3. Value must be non-nil (null cells never match, so a nil value can
//     only ever select nothing or, for !=, everything non-null)
//
// Validate is a pure function with no side effects.
func Validate(conds []Condition) ValidationResult {
	v := &validator{warnings: []string{}}
	for i, c := range conds {
		v.validateCondition(i, c)
	}

	return ValidationResult{
		IsEvaluable: len(v.warnings) == 0,
		Unsupported: v.unsupported,
		Warnings:    v.warnings,
	}
}

type validator struct {
	unsupported []int
	warnings    []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateCondition(i int, c Condition) {
	if c.Column == "" {
		v.addWarning("condition %d: empty column name", i)
	}

	if !IsEvaluable(c.Operator) {
		v.unsupported = append(v.unsupported, i)
		v.addWarning("condition %d: operator %q is not supported in memory", i, c.Op())
	}

	if c.Value == nil {
		v.addWarning("condition %d: column %q compared to null", i, c.Column)
	}
}
