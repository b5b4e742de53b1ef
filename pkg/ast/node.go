// Package ast defines the expression tree built by the parser.
//
// A Node is either a leaf holding literal text, or an operator node holding an
// Op and one or two children. Nodes have no setters: once the parser returns a
// tree it is never modified, so any number of readers may walk it at once.
package ast

import (
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/token"
)

// Node is an immutable expression tree node.
type Node struct {
	op    token.Op
	left  *Node
	right *Node
	value string
}

// Leaf returns a leaf carrying value verbatim, including any quote characters.
func Leaf(value string) *Node {
	return &Node{op: token.Nop, value: value}
}

// Unary returns an operator node with only a left child.
func Unary(op token.Op, left *Node) *Node {
	return &Node{op: op, left: left}
}

// Binary returns an operator node with both children.
func Binary(op token.Op, left, right *Node) *Node {
	return &Node{op: op, left: left, right: right}
}

// Op returns the node's tag. Leaves report token.Nop.
func (n *Node) Op() token.Op {
	return n.op
}

// Left returns the left child, or nil.
func (n *Node) Left() *Node {
	return n.left
}

// Right returns the right child, or nil.
func (n *Node) Right() *Node {
	return n.right
}

// Value returns the literal text of a leaf, or "" for operator nodes.
func (n *Node) Value() string {
	return n.value
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.op == token.Nop
}

// Depth returns the number of nodes on the longest root-to-leaf path.
// A nil tree has depth 0.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	return 1 + max(n.left.Depth(), n.right.Depth())
}

// Walk visits n and its descendants in pre-order, left before right.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	Walk(n.left, fn)
	Walk(n.right, fn)
}

// String renders the tree in functional notation, e.g. "not(is(a, null))".
func (n *Node) String() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	if n.IsLeaf() {
		b.WriteString(n.value)
		return
	}
	b.WriteString(n.op.String())
	b.WriteByte('(')
	n.left.writeTo(b)
	if n.right != nil {
		b.WriteString(", ")
		n.right.writeTo(b)
	}
	b.WriteByte(')')
}
