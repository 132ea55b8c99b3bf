// Package parser validates pbQL commands and extracts their arguments.
//
// # Usage
//
//	cmds, err := parser.Parse("Создай контакт Григорий;")
//	if err != nil {
//	    // *parser.SyntaxError
//	}
//
// # Grammar Overview
//
// A query is a sequence of commands, each terminated by ';'. Tokens are
// separated by single spaces. N is a contact name and S a search substring,
// both may contain spaces; P is exactly 10 digits; E is one token.
//
//	create  → "Создай" "контакт" N
//	delete  → "Удали" "контакт" N
//	        | "Удали" "контакты," "где" "есть" S
//	        | "Удали" items "для" "контакта" N
//	add     → "Добавь" items "для" "контакта" N
//	show    → "Покажи" fields "для" "контактов," "где" "есть" S
//	items   → item ("и" item)*
//	item    → "телефон" P | "почту" E
//	fields  → field ("и" field)*
//	field   → "имя" | "телефоны" | "почты"
//
// Error columns are computed from token lengths, not by searching the
// command text: the column of token i is 1 + Σ(len(token k)+1) for k < i.
// See token.OffsetAfter.
package parser

import (
	"strings"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// Parser parses a single pbQL command.
type Parser struct {
	line   int
	tokens []Token
	words  []string
}

// NewParser creates a parser for one command. line is the 1-based command
// number used in error positions.
func NewParser(command string, line int) *Parser {
	toks := Tokenize(command, line)
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Literal
	}
	return &Parser{
		line:   line,
		tokens: toks,
		words:  words,
	}
}

// ParseCommand parses one command. A nil command with a nil error means the
// command passed validation but carries nothing to execute, for example a
// create with an empty name.
func ParseCommand(command string, line int) (*Command, error) {
	return NewParser(command, line).Parse()
}

// ---------- Token Helpers ----------

// tok returns the i-th token, or an EOF token positioned after the last one.
func (p *Parser) tok(i int) Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return Token{
		Type:  token.EOF,
		Index: i,
		Pos:   Position{Line: p.line, Column: p.column(i)},
	}
}

// check returns true if the i-th token is of the given type.
func (p *Parser) check(i int, t TokenType) bool {
	return p.tok(i).Type == t
}

// column returns the column of the i-th token by the token-sum rule.
func (p *Parser) column(i int) int {
	return token.ColumnOf(p.words, i)
}

// errorAt builds a syntax error at the column of the i-th token.
func (p *Parser) errorAt(i int, format string, args ...any) *SyntaxError {
	return newSyntaxError(p.line, p.column(i), format, args...)
}

// unexpected builds the error for the i-th token when want was expected.
func (p *Parser) unexpected(i int, want string) *SyntaxError {
	t := p.tok(i)
	if t.Type == token.EOF {
		return p.errorAt(i, ErrUnexpectedEnd, want)
	}
	return p.errorAt(i, ErrUnexpectedToken, t.Literal, want)
}

// expectSequence checks that tokens from start on are exactly want.
// A mismatch is reported at the column of the offending token.
func (p *Parser) expectSequence(start int, want ...TokenType) error {
	for k, t := range want {
		if !p.check(start+k, t) {
			return p.unexpected(start+k, quote(t))
		}
	}
	return nil
}

// remainder returns the command text from the i-th token to the end.
//
// ok is false when there is no i-th token (the command stopped right after
// the preceding keyword, without a separating space) or when the text
// spans more than one line.
func (p *Parser) remainder(i int) (rest string, ok bool) {
	if i >= len(p.words) {
		return "", false
	}
	rest = strings.Join(p.words[i:], " ")
	if hasLineTerminator(rest) {
		return "", false
	}
	return rest, true
}

func hasLineTerminator(s string) bool {
	return strings.ContainsAny(s, "\n\r\u2028\u2029")
}

func quote(t TokenType) string {
	return `"` + t.String() + `"`
}
