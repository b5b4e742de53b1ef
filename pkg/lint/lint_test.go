package lint_test

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/eavexpr/pkg/eav"
	"github.com/leapstack-labs/eavexpr/pkg/lint"
	"github.com/leapstack-labs/eavexpr/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, config *lint.Config, input string) []lint.Diagnostic {
	t.Helper()
	g, err := eav.New()
	require.NoError(t, err)
	tree, err := parser.Compile(input)
	require.NoError(t, err)
	return lint.NewAnalyzer(config, g).Analyze(tree)
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"clean and chain", "transactionId = 1 and date >= '2001-08-01'", []string{}},
		{"clean in list", "userId in (1, 2, 3)", []string{}},
		{"equals null", "userId = null", []string{"EX01"}},
		{"not equals null", "userId <> null", []string{"EX01"}},
		{"is null", "userId is null", []string{}},
		{"negated comparison", "not userId = 1", []string{"EX02"}},
		{"is not null", "userId is not null", []string{"EX02"}},
		{"nested value", "balance < -5", []string{"EX03"}},
		{"nested attribute", "a + b = 1", []string{"EX03"}},
		{"expression in list", "userId in (1, 2 + 3)", []string{"EX04"}},
		{"mixed list", "userId in (1, 'abc')", []string{"EX05"}},
		{"contains", "a contains 'x'", []string{"EX06"}},
		{"bare value", "userId", []string{"EX07"}},
		{"several rules", "a = 1 and not b = null", []string{"EX01", "EX02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleIDs(analyze(t, nil, tt.input)))
		})
	}
}

func TestAnalyzeFillsRuleFields(t *testing.T) {
	diags := analyze(t, nil, "userId = null")
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "EX01", d.RuleID)
	assert.Equal(t, "null.equality", d.Name)
	assert.Equal(t, lint.SeverityWarning, d.Severity)
	assert.Equal(t, "eq(userId, null)", d.Node)
	assert.Contains(t, d.Message, "is null")
	assert.Equal(t, "warning EX01: "+d.Message+" (at eq(userId, null))", d.String())
}

func TestAnalyzeConfig(t *testing.T) {
	config, err := lint.ConfigFrom([]string{"ex02"}, map[string]string{"EX01": "error"})
	require.NoError(t, err)

	diags := analyze(t, config, "a = null and not b = 1")
	require.Len(t, diags, 1)
	assert.Equal(t, "EX01", diags[0].RuleID)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
}

func TestAnalyzeWithoutClassifier(t *testing.T) {
	tree, err := parser.Compile("userId in (1, 'abc')")
	require.NoError(t, err)
	assert.Empty(t, lint.NewAnalyzer(nil, nil).Analyze(tree))
	assert.Empty(t, lint.NewAnalyzer(nil, nil).Analyze(nil))
}

func TestConfigFromInvalidSeverity(t *testing.T) {
	_, err := lint.ConfigFrom(nil, map[string]string{"EX01": "fatal"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal")
}

func TestFilterBySeverity(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "EX02", Severity: lint.SeverityError},
		{RuleID: "EX01", Severity: lint.SeverityWarning},
		{RuleID: "EX07", Severity: lint.SeverityHint},
	}

	assert.Len(t, lint.FilterBySeverity(diags, lint.SeverityError), 1)
	assert.Len(t, lint.FilterBySeverity(diags, lint.SeverityWarning), 2)
	assert.Len(t, lint.FilterBySeverity(diags, lint.SeverityHint), 3)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want lint.Severity
		ok   bool
	}{
		{"error", lint.SeverityError, true},
		{"WARNING", lint.SeverityWarning, true},
		{"info", lint.SeverityInfo, true},
		{"hint", lint.SeverityHint, true},
		{"loud", lint.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := lint.ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(lint.Diagnostic{RuleID: "EX06", Severity: lint.SeverityError})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"error"`)

	var d lint.Diagnostic
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, lint.SeverityError, d.Severity)
	assert.Error(t, json.Unmarshal([]byte(`{"severity":"loud"}`), &d))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, 7, lint.Count())

	all := lint.GetAll()
	require.Len(t, all, 7)
	assert.Equal(t, "EX01", all[0].ID)
	assert.Equal(t, "EX07", all[6].ID)

	rule, ok := lint.GetByID("EX05")
	require.True(t, ok)
	assert.Equal(t, "in-list.mixed", rule.Name)

	_, ok = lint.GetByID("EX99")
	assert.False(t, ok)

	assert.Len(t, lint.GetByGroup("in-list"), 2)
	assert.Len(t, lint.GetByGroup("operand"), 2)
}
