// Package lint flags expressions whose rendered predicate will not mean what
// the expression says.
//
// The EAV renderer is literal: it drops negation, nests non-literal operands
// and takes the value column of an in list from its first item. Rules in this
// package report those cases before a query runs.
// Rules are registered in a global registry and run by an Analyzer, which
// applies a Config of disabled rules and severity overrides.
package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks an expression whose predicate contradicts it.
	SeverityError Severity = iota
	// SeverityWarning marks a predicate that is probably not what was meant.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", text)
	}
	*s = sev
	return nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// Classifier picks the value column for a literal.
type Classifier interface {
	Column(text string) string
}

// Diagnostic represents a lint finding. Node is the offending subtree in
// functional notation.
type Diagnostic struct {
	RuleID   string   `json:"rule_id"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Node     string   `json:"node"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (at %s)", d.Severity, d.RuleID, d.Message, d.Node)
}

// RuleDef is a data-driven rule definition.
// Rules are stateless: all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "EX01"
	Name        string    // Human-readable name, e.g., "null.equality"
	Group       string    // Category, e.g., "null", "in-list"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
}

// CheckFunc analyzes a tree and returns diagnostics. Severity and rule
// fields of the returned diagnostics are filled in by the Analyzer.
type CheckFunc func(tree *ast.Node, classify Classifier) []Diagnostic

// diag builds a diagnostic at n.
func diag(n *ast.Node, format string, args ...any) Diagnostic {
	return Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Node:    n.String(),
	}
}
