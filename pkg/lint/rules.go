package lint

import (
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/token"
)

func init() {
	Register(RuleDef{
		ID:          "EX01",
		Name:        "null.equality",
		Group:       "null",
		Description: "Equality against null compares the string column with SQL null and never matches",
		Severity:    SeverityWarning,
		Check:       checkNullEquality,
	})
	Register(RuleDef{
		ID:          "EX02",
		Name:        "negation.dropped",
		Group:       "negation",
		Description: "Negations are not rendered, so the predicate matches the condition itself",
		Severity:    SeverityError,
		Check:       checkNegation,
	})
	Register(RuleDef{
		ID:          "EX03",
		Name:        "operand.nested",
		Group:       "operand",
		Description: "Comparison operands other than names and literals render as nested name conditions",
		Severity:    SeverityWarning,
		Check:       checkNestedOperand,
	})
	Register(RuleDef{
		ID:          "EX04",
		Name:        "in-list.expression",
		Group:       "in-list",
		Description: "In list items that are not literals are left out of the rendered list",
		Severity:    SeverityWarning,
		Check:       checkListExpression,
	})
	Register(RuleDef{
		ID:          "EX05",
		Name:        "in-list.mixed",
		Group:       "in-list",
		Description: "In list items are all compared against the value column of the first item",
		Severity:    SeverityWarning,
		Check:       checkListColumns,
	})
	Register(RuleDef{
		ID:          "EX06",
		Name:        "operator.unsupported",
		Group:       "operator",
		Description: "Operators without a SQL spelling are written by name and fail to execute",
		Severity:    SeverityError,
		Check:       checkUnsupported,
	})
	Register(RuleDef{
		ID:          "EX07",
		Name:        "value.bare",
		Group:       "operand",
		Description: "A bare value only tests that an attribute with that name exists",
		Severity:    SeverityHint,
		Check:       checkBareValue,
	})
}

// walk visits every node of tree that satisfies match, depth first.
func walk(tree *ast.Node, match func(*ast.Node) bool, fn func(*ast.Node)) {
	ast.Walk(tree, func(n *ast.Node) bool {
		if match(n) {
			fn(n)
		}
		return true
	})
}

func isOp(ops ...token.Op) func(*ast.Node) bool {
	return func(n *ast.Node) bool {
		if n.IsLeaf() {
			return false
		}
		for _, op := range ops {
			if n.Op() == op {
				return true
			}
		}
		return false
	}
}

func isNullLeaf(n *ast.Node) bool {
	return n != nil && n.IsLeaf() && strings.EqualFold(n.Value(), token.Symbol(token.Null))
}

func checkNullEquality(tree *ast.Node, _ Classifier) []Diagnostic {
	var diags []Diagnostic
	walk(tree, isOp(token.Eq, token.Ne), func(n *ast.Node) {
		if isNullLeaf(n.Left()) || isNullLeaf(n.Right()) {
			diags = append(diags, diag(n, "comparison with null never matches; use 'is null'"))
		}
	})
	return diags
}

func checkNegation(tree *ast.Node, _ Classifier) []Diagnostic {
	var diags []Diagnostic
	walk(tree, isOp(token.Not), func(n *ast.Node) {
		diags = append(diags, diag(n, "negation of %s is dropped from the predicate", n.Left()))
	})
	return diags
}

func checkNestedOperand(tree *ast.Node, _ Classifier) []Diagnostic {
	var diags []Diagnostic
	walk(tree, func(n *ast.Node) bool {
		return !n.IsLeaf() && (n.Op().IsCompare() || n.Op() == token.Is || n.Op() == token.In)
	}, func(n *ast.Node) {
		if l := n.Left(); l != nil && !l.IsLeaf() {
			diags = append(diags, diag(n, "attribute %s is not a plain name", l))
		}
		if r := n.Right(); n.Op() != token.In && r != nil && !r.IsLeaf() {
			diags = append(diags, diag(n, "value %s is not a literal", r))
		}
	})
	return diags
}

// listItems returns the items of an in list in written order.
func listItems(list *ast.Node) []*ast.Node {
	var items []*ast.Node
	for c := list; c != nil && !c.IsLeaf() && c.Op() == token.List; c = c.Right() {
		items = append(items, c.Left())
	}
	return items
}

func checkListExpression(tree *ast.Node, _ Classifier) []Diagnostic {
	var diags []Diagnostic
	walk(tree, isOp(token.In), func(n *ast.Node) {
		for _, item := range listItems(n.Right()) {
			if item != nil && !item.IsLeaf() {
				diags = append(diags, diag(n, "list item %s is not a literal and is left out", item))
			}
		}
	})
	return diags
}

func checkListColumns(tree *ast.Node, classify Classifier) []Diagnostic {
	if classify == nil {
		return nil
	}
	var diags []Diagnostic
	walk(tree, isOp(token.In), func(n *ast.Node) {
		items := listItems(n.Right())
		if len(items) == 0 || items[0] == nil || !items[0].IsLeaf() {
			return
		}
		want := classify.Column(items[0].Value())
		for _, item := range items[1:] {
			if item == nil || !item.IsLeaf() {
				continue
			}
			if got := classify.Column(item.Value()); got != want {
				diags = append(diags, diag(n, "list item %s belongs in %s but is compared against %s", item.Value(), got, want))
			}
		}
	})
	return diags
}

func checkUnsupported(tree *ast.Node, _ Classifier) []Diagnostic {
	var diags []Diagnostic
	walk(tree, isOp(token.Contains, token.LikeFile, token.Between), func(n *ast.Node) {
		diags = append(diags, diag(n, "operator %s has no SQL equivalent", n.Op()))
	})
	return diags
}

func checkBareValue(tree *ast.Node, _ Classifier) []Diagnostic {
	if tree.IsLeaf() || tree.Op() != token.Val {
		return nil
	}
	return []Diagnostic{diag(tree, "bare value %s only tests that the attribute exists", tree.Left())}
}
