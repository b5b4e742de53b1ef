package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eavexpr/internal/cli/testutil"
	"github.com/leapstack-labs/eavexpr/pkg/lint"
)

func TestLintCommandClean(t *testing.T) {
	testutil.UseConfig(t, "output: text\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "transactionId = 1 and date >= '2001-08-01'")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "No lint issues found")
}

func TestLintCommandText(t *testing.T) {
	testutil.UseConfig(t, "output: text\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "a = null and not b = 1")
	require.Error(t, res.Err)
	assert.Equal(t, "lint issues found", res.Err.Error())

	assert.Contains(t, res.Out, "warning EX01")
	assert.Contains(t, res.Out, "error   EX02")
	assert.Contains(t, res.Out, "at eq(a, null)")
	assert.Contains(t, res.Out, "Summary: 1 error(s), 1 warning(s), 0 info, 0 hint(s)")
	testutil.AssertNoANSI(t, res.Out)
}

func TestLintCommandJSON(t *testing.T) {
	testutil.UseConfig(t, "output: json\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "userId in (1, 'abc')")
	require.Error(t, res.Err)

	assert.NotContains(t, res.Out, "Usage:")
	var got LintOutput
	require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
	assert.Equal(t, "userId in (1, 'abc')", got.Expression)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "EX05", got.Diagnostics[0].RuleID)
	assert.Equal(t, 1, got.Summary.Warnings)
	assert.Contains(t, res.Out, `"severity": "warning"`)
}

func TestLintCommandJSONClean(t *testing.T) {
	testutil.UseConfig(t, "output: json\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "userId = 1")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, `"diagnostics": []`)
}

func TestLintCommandMarkdown(t *testing.T) {
	testutil.UseConfig(t, "output: md\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "userId = null")
	require.Error(t, res.Err)
	out := strings.ToLower(res.Out)
	assert.Contains(t, out, "| rule")
	assert.Contains(t, res.Out, "EX01")
	assert.Contains(t, res.Out, "null.equality")
}

func TestLintCommandFiltering(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{"disable flag", "output: text\n", []string{"--disable", "EX02", "not userId = 1"}},
		{"disabled in config", "output: text\nlint:\n  disabled: [ex02]\n", []string{"not userId = 1"}},
		{"severity threshold", "output: text\n", []string{"--severity", "warning", "userId"}},
		{"severity override", "output: text\nlint:\n  severity:\n    EX02: info\n", []string{"--severity", "warning", "not userId = 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.UseConfig(t, tt.config)

			res := testutil.ExecuteCommand(t, NewLintCommand(), "", tt.args...)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Out, "No lint issues found")
		})
	}
}

func TestLintCommandErrors(t *testing.T) {
	testutil.UseConfig(t, "output: text\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "--severity", "loud", "a = 1")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unknown severity")

	res = testutil.ExecuteCommand(t, NewLintCommand(), "", "a = (1")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to compile expression")
}

func TestLintCommandList(t *testing.T) {
	testutil.UseConfig(t, "output: csv\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "--list")
	require.NoError(t, res.Err)

	lines := strings.Split(strings.TrimSpace(res.Out), "\n")
	assert.Len(t, lines, lint.Count()+1)
	assert.Contains(t, res.Out, "EX01")
	assert.Contains(t, res.Out, "operator.unsupported")
}

func TestLintCommandListGroup(t *testing.T) {
	testutil.UseConfig(t, "output: csv\n")

	res := testutil.ExecuteCommand(t, NewLintCommand(), "", "--list", "--group", "in-list")
	require.NoError(t, res.Err)

	lines := strings.Split(strings.TrimSpace(res.Out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, res.Out, "EX04")
	assert.Contains(t, res.Out, "EX05")
	assert.NotContains(t, res.Out, "EX01")

	res = testutil.ExecuteCommand(t, NewLintCommand(), "", "--list", "--group", "style")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unknown rule group")
}
