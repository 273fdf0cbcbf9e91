package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/tabsrc/internal/rowfilter"
	"github.com/roach88/tabsrc/internal/table"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The operation ran and failed (bad condition, backend error)
	ExitCommandError = 2 // Command error (missing config, unknown source, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status   string    `json:"status"`             // "ok" or "error"
	Data     any       `json:"data,omitempty"`     // success payload
	Error    *CLIError `json:"error,omitempty"`    // error details
	Warnings []string  `json:"warnings,omitempty"` // non-fatal source warnings
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any, warnings ...string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:   "ok",
			Data:     data,
			Warnings: warnings,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err in the configured format and returns it wrapped in an
// ExitError carrying exit.
func (f *OutputFormatter) Fail(exit int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	if outErr := f.Error(code, message, details); outErr != nil {
		return WrapExitError(exit, message, errors.Join(err, outErr))
	}
	return WrapExitError(exit, message, err)
}

// tableData is the JSON shape of a table.
type tableData struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Table outputs tbl as aligned text or as a JSON object.
func (f *OutputFormatter) Table(tbl *table.Table, warnings ...string) error {
	if f.Format == "json" {
		data := tableData{Columns: tbl.Columns(), Rows: make([]map[string]any, 0, tbl.Len())}
		for _, r := range tbl.All() {
			row := make(map[string]any, len(data.Columns))
			for _, c := range data.Columns {
				if !r.IsNull(c) {
					row[c] = r[c]
				} else {
					row[c] = nil
				}
			}
			data.Rows = append(data.Rows, row)
		}
		return f.Success(data, warnings...)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	writeRow(tw, tbl.Columns(), func(c string) string { return c })
	for _, r := range tbl.All() {
		writeRow(tw, tbl.Columns(), func(c string) string {
			if r.IsNull(c) {
				return "NULL"
			}
			return rowfilter.Format(r[c])
		})
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "(%d rows)\n", tbl.Len())
	for _, w := range warnings {
		fmt.Fprintf(f.Writer, "warning: %s\n", w)
	}
	return nil
}

func writeRow(w io.Writer, columns []string, cell func(string) string) {
	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell(c))
	}
	fmt.Fprintln(w)
}
