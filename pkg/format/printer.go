// Package format renders phone numbers and Show result lines.
package format

import (
	"strings"

	"github.com/leapstack-labs/pbql/pkg/token"
)

const (
	fieldSep = ";"
	listSep  = ","
)

// Printer builds one Show result line.
type Printer struct {
	output *strings.Builder
	fields int
}

func newPrinter() *Printer {
	return &Printer{output: &strings.Builder{}}
}

// String returns the rendered line.
func (p *Printer) String() string {
	return p.output.String()
}

// field starts a new field, writing the field separator if needed.
func (p *Printer) field() {
	if p.fields > 0 {
		p.output.WriteString(fieldSep)
	}
	p.fields++
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

// list writes values joined by the list separator, passing each through render.
func (p *Printer) list(values []string, render func(string) string) {
	for i, v := range values {
		if i > 0 {
			p.output.WriteString(listSep)
		}
		p.output.WriteString(render(v))
	}
}

// kw writes the value of a requested field keyword.
func (p *Printer) kw(t token.TokenType, name string, phones, emails []string) {
	p.field()
	switch t {
	case token.FIELD_NAME:
		p.write(name)
	case token.FIELD_PHONES:
		p.list(phones, Phone)
	case token.FIELD_EMAILS:
		p.list(emails, verbatim)
	}
}

func verbatim(s string) string { return s }
