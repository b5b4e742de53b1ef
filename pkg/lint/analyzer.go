package lint

import "github.com/leapstack-labs/eavexpr/pkg/ast"

// Analyzer runs registered lint rules against expression trees.
type Analyzer struct {
	config   *Config
	classify Classifier
}

// NewAnalyzer creates a new analyzer. classify decides the value column of
// literals; config may be nil.
func NewAnalyzer(config *Config, classify Classifier) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config, classify: classify}
}

// Analyze runs every enabled rule against tree. Diagnostics are grouped by
// rule in ID order.
func (a *Analyzer) Analyze(tree *ast.Node) []Diagnostic {
	if tree == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		severity := a.config.GetSeverity(rule.ID, rule.Severity)
		for _, d := range rule.Check(tree, a.classify) {
			d.RuleID = rule.ID
			d.Name = rule.Name
			d.Severity = severity
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

// FilterBySeverity keeps diagnostics at least as severe as threshold.
func FilterBySeverity(diags []Diagnostic, threshold Severity) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range diags {
		if d.Severity <= threshold {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
