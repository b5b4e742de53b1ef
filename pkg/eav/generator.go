// Package eav renders expression trees as predicates over an
// entity-attribute-value table.
//
// The target table holds one row per attribute: a name column and three typed
// value columns. Each comparison in the tree becomes a pair of conditions, one
// on the attribute name and one on the value column chosen for the literal:
//
//	transactionId = 1      →  name = 'transactionId' and num_value = 1
//	date >= '2001-08-01'   →  name = 'date' and date_value >= '2001-08-01'
package eav

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Columns of the entry table.
const (
	NameColumn   = "name"
	DateColumn   = "date_value"
	NumberColumn = "num_value"
	StringColumn = "str_value"
)

// DefaultDateMask is the strftime mask used when none is configured.
const DefaultDateMask = "%Y-%m-%d"

// Generator renders trees. It holds no per-call state and may be shared
// between goroutines.
type Generator struct {
	mask   string
	layout string
}

// Option configures a Generator.
type Option func(*Generator)

// WithDateMask sets the strftime mask a literal must match to be compared
// against the date column.
func WithDateMask(mask string) Option {
	return func(g *Generator) {
		g.mask = mask
	}
}

// New creates a Generator. It fails when the date mask cannot be expressed
// as a time layout.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{mask: DefaultDateMask}
	for _, opt := range opts {
		opt(g)
	}

	if g.mask == "" {
		return nil, fmt.Errorf("empty date mask")
	}
	layout, err := strftime.Layout(g.mask)
	if err != nil {
		return nil, fmt.Errorf("invalid date mask %q: %w", g.mask, err)
	}
	g.layout = layout
	return g, nil
}

var defaultGenerator = func() *Generator {
	g, err := New()
	if err != nil {
		panic(err)
	}
	return g
}()

// Render renders tree with the default date mask.
func Render(prefix string, tree *ast.Node) string {
	return defaultGenerator.Render(prefix, tree)
}

// DateMask returns the configured strftime mask.
func (g *Generator) DateMask() string {
	return g.mask
}

// Render returns "<prefix> where <predicate>" for tree.
//
// The connective between the two halves of the root is "and" for shallow
// trees (depth 2 or less) and the root operator's own spelling otherwise.
func (g *Generator) Render(prefix string, tree *ast.Node) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(" where ")

	if tree.Op() == token.In {
		g.writeIn(&b, tree)
		return b.String()
	}

	g.writeLeft(&b, tree.Left())
	if tree.Right() == nil {
		return b.String()
	}

	join := "and"
	if tree.Depth() > 2 {
		join = symbol(tree.Op())
	}
	b.WriteByte(' ')
	b.WriteString(join)
	b.WriteByte(' ')
	g.writeRight(&b, tree.Right(), tree)
	return b.String()
}

// writeLeft renders the attribute side of a comparison.
func (g *Generator) writeLeft(b *strings.Builder, n *ast.Node) {
	switch {
	case n == nil:
	case n.IsLeaf():
		b.WriteString(NameColumn)
		b.WriteString(" = '")
		b.WriteString(n.Value())
		b.WriteByte('\'')
	case n.Op() == token.In:
		g.writeIn(b, n)
	default:
		g.writeGroup(b, n)
	}
}

// writeRight renders the value side of a comparison. Leaves are compared with
// the parent's operator against the column their text sniffs to.
func (g *Generator) writeRight(b *strings.Builder, n, parent *ast.Node) {
	switch {
	case n == nil:
	case n.IsLeaf():
		b.WriteString(g.Column(n.Value()))
		b.WriteByte(' ')
		b.WriteString(symbol(parent.Op()))
		b.WriteByte(' ')
		b.WriteString(n.Value())
	case n.Op() == token.In:
		g.writeIn(b, n)
	default:
		g.writeGroup(b, n)
	}
}

// writeGroup parenthesises a subtree. Unary subtrees keep only their operand,
// so "a = 1 and not b = 2" nests as "((name = 'b' and num_value = 2))".
func (g *Generator) writeGroup(b *strings.Builder, n *ast.Node) {
	b.WriteByte('(')
	g.writeLeft(b, n.Left())
	if !n.Op().IsUnary() && n.Right() != nil {
		b.WriteString(" and ")
		g.writeRight(b, n.Right(), n)
	}
	b.WriteByte(')')
}

// writeIn renders in(x, list). The column comes from the first list item;
// items are written last to first.
func (g *Generator) writeIn(b *strings.Builder, n *ast.Node) {
	list := n.Right()

	first := ""
	if list != nil && list.Left() != nil {
		first = list.Left().Value()
	}

	b.WriteByte('(')
	g.writeLeft(b, n.Left())
	b.WriteString(" and ")
	b.WriteString(g.Column(first))
	b.WriteString(" in (")
	b.WriteString(strings.Join(listItems(list, nil), ", "))
	b.WriteString("))")
}

// listItems collects the leaf items of a list chain, right subtree first.
// Items that are not leaves are skipped.
func listItems(n *ast.Node, out []string) []string {
	if n == nil {
		return out
	}
	if n.IsLeaf() {
		return append(out, n.Value())
	}
	if n.Op() != token.List {
		return out
	}
	out = listItems(n.Right(), out)
	return listItems(n.Left(), out)
}

// Column returns the value column a literal is stored in: the date column
// when the text without its single quotes matches the date mask, the number
// column when the raw text is a 64-bit integer, and the string column
// otherwise.
func (g *Generator) Column(text string) string {
	if _, err := g.ParseDate(text); err == nil {
		return DateColumn
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NumberColumn
	}
	return StringColumn
}

// ParseDate parses text with the generator's date mask, ignoring single
// quotes around it.
func (g *Generator) ParseDate(text string) (time.Time, error) {
	return time.Parse(g.layout, trimQuotes(text))
}

func trimQuotes(text string) string {
	text = strings.TrimPrefix(text, "'")
	return strings.TrimSuffix(text, "'")
}

// symbol spells op for SQL output. Tags without a surface spelling use
// their name.
func symbol(op token.Op) string {
	if s := token.Symbol(op); s != "" {
		return s
	}
	return op.String()
}
