package harness

// TraceEvent is one call from the source to its backend.
type TraceEvent struct {
	// Step is the index of the step that caused the call.
	Step int `json:"step"`

	// Query is the query text; "" asks for the structural dataset.
	Query string `json:"query"`

	// Failed is set when the backend returned an error.
	Failed bool `json:"failed,omitempty"`
}

// StepResult summarises the outcome of one step.
type StepResult struct {
	Rows    int      `json:"rows"`
	Columns []string `json:"columns,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace lists every backend call in order.
	Trace []TraceEvent `json:"trace"`

	// Steps holds one entry per scenario step.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Materialized reports whether the source ended with cached rows.
	Materialized bool `json:"materialized"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
