package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileText(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "sin(x * 2)", "x + 1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Compiled 2 expression(s) into 7 node(s)")
	assert.Contains(t, stdout, "$3 (scalar)")
	assert.Contains(t, stdout, "sin(x * 2)")
	assert.Contains(t, stdout, "$6 (scalar)")
	assert.NotContains(t, stdout, "Nodes:")
}

func TestCompileDump(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "sin(x * 2)", "--dump")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Nodes:")
	assert.Contains(t, stdout, "0\taxis axis=x")
	assert.Contains(t, stdout, "3\tsin source=2")
}

func TestCompileJSON(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}),
		"--bind", "ramp=x", "--bind", "tint=combine_rgba(1, 0, ramp, 1)", "ramp * 2", "--dump")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data
	require.Len(t, data.Bindings, 2)
	assert.Equal(t, "ramp", data.Bindings[0].Name)
	assert.Equal(t, "scalar", data.Bindings[0].Kind)
	assert.Equal(t, "tint", data.Bindings[1].Name)
	assert.Equal(t, "color", data.Bindings[1].Kind)
	require.Len(t, data.Roots, 1)
	assert.Equal(t, "ramp * 2", data.Roots[0].Expr)
	assert.Len(t, data.Roots[0].Graph, 64)
	assert.Equal(t, data.Nodes, len(data.Dump))
}

func TestCompileSameGraphSameDigest(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), "x + y", "x + y")
	require.NoError(t, err)

	var resp struct {
		Data CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Roots, 2)
	assert.NotEqual(t, resp.Data.Roots[0].Root, resp.Data.Roots[1].Root)
	assert.Equal(t, resp.Data.Roots[0].Graph, resp.Data.Roots[1].Graph)
}

func TestCompileParseError(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "1 + sine(x)")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "Error [E002]")
	assert.Contains(t, stdout, `unknown function "sine"`)
	assert.Contains(t, stdout, "1 | 1 + sine(x)")
}

func TestCompileParseErrorJSON(t *testing.T) {
	stdout, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), "--bind", "a=x +", "a")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, `binding "a"`)
	assert.NotNil(t, resp.Error.Details)
}

func TestCompileBadBindFlag(t *testing.T) {
	_, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "--bind", "nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=expr")
}

func TestCompileNeedsExpression(t *testing.T) {
	_, _, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
}
