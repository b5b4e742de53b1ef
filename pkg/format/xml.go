package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/eavexpr/pkg/ast"
)

// XML writes tree as a <query> document. Operator nodes become elements named
// after their tag and leaves become <arg> elements:
//
//	<query>
//	  <eq>
//	    <arg>transactionId</arg>
//	    <arg>1</arg>
//	  </eq>
//	</query>
func XML(w io.Writer, tree *ast.Node) error {
	p := newPrinter()
	p.formatQuery(tree)
	return p.flush(w)
}

// XMLString returns the XML document for tree.
func XMLString(tree *ast.Node) string {
	p := newPrinter()
	p.formatQuery(tree)
	return p.String()
}

func (p *printer) formatQuery(tree *ast.Node) {
	p.write("<query>")
	p.writeln()
	p.indent()
	if tree != nil {
		p.formatNode(tree)
	}
	p.dedent()
	p.write("</query>")
	p.writeln()
}

func (p *printer) formatNode(n *ast.Node) {
	if n.IsLeaf() {
		p.formatArg(n.Value())
		return
	}

	tag := n.Op().String()
	p.write("<" + tag + ">")
	p.writeln()

	p.indent()
	if n.Left() != nil {
		p.formatNode(n.Left())
	}
	if n.Right() != nil {
		p.formatNode(n.Right())
	}
	p.dedent()

	p.write("</" + tag + ">")
	p.writeln()
}

func (p *printer) formatArg(value string) {
	p.write("<arg>")
	p.write(escapeArg(value))
	p.write("</arg>")
	p.writeln()
}

// escapeArg escapes markup characters and control or non-printing Latin-1
// characters. A quote matching the literal's opening quote that appears
// inside the literal is preceded by a backslash.
func escapeArg(value string) string {
	runes := []rune(value)
	var quote rune = '"'
	if len(runes) > 0 {
		quote = runes[0]
	}

	var b strings.Builder
	for i, ch := range runes {
		switch {
		case ch == '<':
			b.WriteString("&lt;")
		case ch == '>':
			b.WriteString("&gt;")
		case ch == '&':
			b.WriteString("&amp;")
		case ch == '\'' || ch == '"':
			if ch == quote && i > 0 && i < len(runes)-1 {
				b.WriteByte('\\')
			}
			b.WriteRune(ch)
		case ch <= 0x20 || (ch >= 0x80 && ch <= 0xA0):
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(ch)))
			b.WriteByte(';')
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
