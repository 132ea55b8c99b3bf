package parser

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// ---------- Conjunction Clauses ----------
//
// Both the item list of add/delete commands and the field list of show are
// a conjunction clause:
//
//	clause  → entry (connective entry)* trailer
//	entry   → keyword [value]
//
// The clause is validated by a two-state machine. Grammars differ only in
// their entry keywords, the trailer, and whether an exhausted token stream
// without a trailer is an error.

// entryRule describes one entry keyword of a clause grammar.
type entryRule struct {
	// hasValue means the keyword is followed by a value token.
	hasValue bool
	// valid checks the value token. nil accepts any value.
	valid func(string) bool
	// invalidMsg is the error message format for a rejected value.
	invalidMsg string
}

// clauseGrammar parameterizes the conjunction state machine.
type clauseGrammar struct {
	name       string
	entries    map[TokenType]entryRule
	connective TokenType
	trailer    []TokenType
	// trailerRequired makes an exhausted token stream an error. When false
	// the clause is returned incomplete and the command does nothing.
	trailerRequired bool
}

// itemsGrammar validates "телефон P | почту E" lists closed by "для контакта".
var itemsGrammar = &clauseGrammar{
	name: "item",
	entries: map[TokenType]entryRule{
		token.PHONE: {hasValue: true, valid: isPhone, invalidMsg: ErrInvalidPhone},
		token.EMAIL: {hasValue: true},
	},
	connective: token.AND,
	trailer:    []TokenType{token.FOR, token.OF_CONTACT},
}

// fieldsGrammar validates "имя | телефоны | почты" lists closed by
// "для контактов, где есть".
var fieldsGrammar = &clauseGrammar{
	name: "field",
	entries: map[TokenType]entryRule{
		token.FIELD_NAME:   {},
		token.FIELD_PHONES: {},
		token.FIELD_EMAILS: {},
	},
	connective:      token.AND,
	trailer:         []TokenType{token.FOR, token.OF_CONTACTS, token.WHERE, token.HAS},
	trailerRequired: true,
}

// clauseEntry is one validated entry.
type clauseEntry struct {
	Keyword Token
	Value   Token // zero Token when the rule has no value
}

// clause is the result of validating a conjunction clause.
type clause struct {
	entries []clauseEntry
	// rest is the index of the first token after the trailer.
	rest int
	// complete is false when the tokens ran out before the trailer.
	complete bool
}

type clauseState int

const (
	expectEntry clauseState = iota
	expectConnectiveOrTrailer
)

// parseClause runs the conjunction state machine from token start.
func (p *Parser) parseClause(g *clauseGrammar, start int) (*clause, error) {
	cl := &clause{}
	state := expectEntry
	i := start

	for i < len(p.tokens) {
		t := p.tokens[i]

		switch state {
		case expectEntry:
			rule, ok := g.entries[t.Type]
			if !ok {
				return nil, p.unexpected(i, g.describeEntries())
			}
			entry := clauseEntry{Keyword: t}
			if rule.hasValue {
				if i+1 >= len(p.tokens) {
					return nil, p.errorAt(i+1, ErrMissingValue, t.Literal)
				}
				v := p.tokens[i+1]
				if rule.valid != nil && !rule.valid(v.Literal) {
					return nil, p.errorAt(i+1, rule.invalidMsg, v.Literal)
				}
				entry.Value = v
				i += 2
			} else {
				i++
			}
			cl.entries = append(cl.entries, entry)
			state = expectConnectiveOrTrailer

		case expectConnectiveOrTrailer:
			switch t.Type {
			case g.connective:
				i++
				state = expectEntry
			case g.trailer[0]:
				if err := p.expectSequence(i+1, g.trailer[1:]...); err != nil {
					return nil, err
				}
				cl.rest = i + len(g.trailer)
				cl.complete = true
				return cl, nil
			default:
				return nil, p.unexpected(i, quote(g.connective)+" or "+quote(g.trailer[0]))
			}
		}
	}

	if g.trailerRequired {
		return nil, p.unexpected(i, quote(g.trailer[0]))
	}
	return cl, nil
}

func (g *clauseGrammar) describeEntries() string {
	kws := make([]string, 0, len(g.entries))
	for t := range g.entries {
		kws = append(kws, quote(t))
	}
	slices.Sort(kws)
	return g.name + " keyword " + strings.Join(kws, " or ")
}

// isPhone reports whether s is exactly 10 ASCII digits.
func isPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
