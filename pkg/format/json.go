package format

import (
	"encoding/json"
	"io"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
)

// jsonNode is the JSON shape of a tree node. Leaves carry a value, operator
// nodes carry their tag and children.
type jsonNode struct {
	Op    string    `json:"op"`
	Value string    `json:"value,omitempty"`
	Left  *jsonNode `json:"left,omitempty"`
	Right *jsonNode `json:"right,omitempty"`
}

func toJSONNode(n *ast.Node) *jsonNode {
	if n == nil {
		return nil
	}
	return &jsonNode{
		Op:    n.Op().String(),
		Value: n.Value(),
		Left:  toJSONNode(n.Left()),
		Right: toJSONNode(n.Right()),
	}
}

// JSON writes tree as indented JSON.
func JSON(w io.Writer, tree *ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSONNode(tree))
}
