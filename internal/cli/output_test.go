package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabsrc/internal/table"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, "UNKNOWN_COLUMN: x"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, []string{"UNKNOWN_COLUMN: x"}, resp.Warnings)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("E001", "filter failed", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "filter failed", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("E005", "unknown source", "people"))
	assert.Contains(t, buf.String(), "Error [E005]: unknown source")
	assert.Contains(t, buf.String(), "Details: people")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	cause := errors.New("disk full")

	err := formatter.Fail(ExitFailure, ErrCodeWriteFailed, "failed to write", cause)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "Error [E007]: failed to write")
}

func TestOutputFormatter_TextTable(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	tbl := table.New([]string{"city", "age"}, []table.Record{
		{"city": "Berlin", "age": 34},
		{"city": "Lima", "age": nil},
	})

	require.NoError(t, formatter.Table(tbl, "UNKNOWN_OPERATOR: ~~"))

	want := "city    age\n" +
		"Berlin  34\n" +
		"Lima    NULL\n" +
		"(2 rows)\n" +
		"warning: UNKNOWN_OPERATOR: ~~\n"
	assert.Equal(t, want, buf.String())
}

func TestOutputFormatter_JSONTable(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}
	tbl := table.New([]string{"x"}, []table.Record{{"x": 1.5}, {"x": math.NaN()}})

	require.NoError(t, formatter.Table(tbl))

	var resp struct {
		Status string    `json:"status"`
		Data   tableData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, []string{"x"}, resp.Data.Columns)
	require.Len(t, resp.Data.Rows, 2)
	assert.Equal(t, 1.5, resp.Data.Rows[0]["x"])
	assert.Nil(t, resp.Data.Rows[1]["x"], "NaN is written as null")
}

func TestExitError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewExitError(ExitCommandError, "bad flags")
		assert.Equal(t, "bad flags", err.Error())
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("with cause", func(t *testing.T) {
		err := WrapExitError(ExitFailure, "open", errors.New("boom"))
		assert.Equal(t, "open: boom", err.Error())
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	})
}
