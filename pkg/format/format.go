package format

import (
	"github.com/leapstack-labs/pbql/pkg/phonebook"
	"github.com/leapstack-labs/pbql/pkg/token"
)

// Phone renders a 10-digit phone as "+7 (ddd) ddd-dd-dd".
// Values of any other length are returned unchanged.
func Phone(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return "+7 (" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:8] + "-" + digits[8:10]
}

// Line renders the requested fields of c, in request order, joined by ';'.
// List fields are joined by ','; phones are formatted with Phone.
func Line(c *phonebook.Contact, fields []token.TokenType) string {
	p := newPrinter()
	for _, f := range fields {
		p.kw(f, c.Name, c.Phones, c.Emails)
	}
	return p.String()
}

// Lines renders one line per contact.
func Lines(contacts []*phonebook.Contact, fields []token.TokenType) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, Line(c, fields))
	}
	return out
}
