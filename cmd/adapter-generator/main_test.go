package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapter-generator/internal/registry"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	stdout, _, err := execute(t, "list", "--log-level", "disabled", "adapter-generator/store")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD"))
	assert.Contains(t, lines[1], "MapCustomerToCustomerDto")
	assert.Contains(t, lines[1], "*adapter-generator/store.Customer")
	assert.Contains(t, lines[3], "MapStringToOrderStatus")
	assert.Contains(t, lines[3], "adapter-generator/store.statusParser")
}

func TestGenerate_DryRun(t *testing.T) {
	stdout, _, err := execute(t, "generate", "--dry-run", "--log-level", "disabled", "adapter-generator/store")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "// Code generated by adapter-generator. DO NOT EDIT."))
	assert.Contains(t, stdout, "package convadapter")
	assert.Contains(t, stdout, "type ConversionServiceAdapter struct")
}

func TestGenerate_ReportsDiagnostics(t *testing.T) {
	_, stderr, err := execute(t, "generate", "-n", "adapter-generator/examples/duplicate")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrDuplicateConversion)
	assert.Contains(t, stderr, "[DuplicateConversion]")
}

func TestGenerate_JSONLogs(t *testing.T) {
	_, stderr, err := execute(t, "generate", "-n", "--log-json", "adapter-generator/examples/duplicate")
	require.Error(t, err)
	assert.Contains(t, stderr, `"msg":`)
	assert.Contains(t, stderr, "[DuplicateConversion]")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "list", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestLevelValue(t *testing.T) {
	v := levelValue("info")

	require.NoError(t, v.Set(" WARN "))
	assert.Equal(t, "warn", v.String())
	assert.Equal(t, "level", v.Type())
	assert.Error(t, v.Set("verbose"))
	assert.Equal(t, "warn", v.String())

	err := v.Set("wrn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean warn?")
}
