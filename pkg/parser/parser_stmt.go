package parser

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// ---------- Command Dispatch ----------

// Parse parses the command by inspecting its first one or two tokens.
func (p *Parser) Parse() (*Command, error) {
	switch p.tok(0).Type {
	case token.CREATE:
		return p.parseCreate()
	case token.DELETE:
		return p.parseDelete()
	case token.ADD:
		return p.parseItems(AddItems)
	case token.SHOW:
		return p.parseShow()
	default:
		return nil, p.errorAt(0, ErrUnknownCommand, p.tok(0).Literal)
	}
}

// parseCreate parses: "Создай" "контакт" N
func (p *Parser) parseCreate() (*Command, error) {
	if !p.check(1, token.CONTACT) {
		return nil, p.unexpected(1, quote(token.CONTACT))
	}
	name, ok := p.remainder(2)
	if !ok || name == "" {
		return nil, nil
	}
	return &Command{Kind: CreateContact, Line: p.line, Name: name}, nil
}

// parseDelete routes the three delete forms on the second token.
func (p *Parser) parseDelete() (*Command, error) {
	switch p.tok(1).Type {
	case token.CONTACT:
		return p.parseDeleteOne()
	case token.CONTACTS:
		return p.parseDeleteWhere()
	default:
		return p.parseItems(DeleteItems)
	}
}

// parseDeleteOne parses: "Удали" "контакт" N
func (p *Parser) parseDeleteOne() (*Command, error) {
	name, ok := p.remainder(2)
	if !ok || name == "" {
		return nil, nil
	}
	return &Command{Kind: DeleteContact, Line: p.line, Name: name}, nil
}

// parseDeleteWhere parses: "Удали" "контакты," "где" "есть" S
func (p *Parser) parseDeleteWhere() (*Command, error) {
	if err := p.expectSequence(1, token.CONTACTS, token.WHERE, token.HAS); err != nil {
		return nil, err
	}
	query, ok := p.remainder(4)
	if !ok {
		return nil, nil
	}
	return &Command{Kind: DeleteContactsWhere, Line: p.line, Query: query}, nil
}

// parseItems parses: ("Добавь" | "Удали") items "для" "контакта" N
func (p *Parser) parseItems(kind CommandKind) (*Command, error) {
	cl, err := p.parseClause(itemsGrammar, 1)
	if err != nil {
		return nil, err
	}
	if !cl.complete {
		return nil, nil
	}

	items := make([]Item, 0, len(cl.entries))
	for _, e := range cl.entries {
		if e.Keyword.Type == token.EMAIL && !isEmail(e.Value.Literal) {
			return nil, nil
		}
		items = append(items, Item{Kind: e.Keyword.Type, Value: e.Value.Literal})
	}

	name, ok := p.remainder(cl.rest)
	if !ok || name == "" {
		return nil, nil
	}
	return &Command{Kind: kind, Line: p.line, Name: name, Items: items}, nil
}

// parseShow parses: "Покажи" fields "для" "контактов," "где" "есть" S
func (p *Parser) parseShow() (*Command, error) {
	cl, err := p.parseClause(fieldsGrammar, 1)
	if err != nil {
		return nil, err
	}

	query, ok := p.remainder(cl.rest)
	if !ok {
		return nil, nil
	}

	fields := make([]TokenType, 0, len(cl.entries))
	for _, e := range cl.entries {
		fields = append(fields, e.Keyword.Type)
	}
	return &Command{Kind: Show, Line: p.line, Fields: fields, Query: query}, nil
}

// isEmail accepts any non-empty token without whitespace.
func isEmail(s string) bool {
	return s != "" && !strings.ContainsFunc(s, unicode.IsSpace)
}
