// Package format writes expression trees in diagnostic forms: the nested XML
// document used to inspect parse results, and a JSON dump of the node
// structure.
package format

import (
	"bytes"
	"io"
)

const indentSize = 2

// printer accumulates indented lines.
type printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter() *printer {
	return &printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// flush copies the accumulated output to w.
func (p *printer) flush(w io.Writer) error {
	_, err := p.output.WriteTo(w)
	return err
}

// String returns the accumulated output.
func (p *printer) String() string {
	return p.output.String()
}
