// Package token defines the token types for pbQL commands.
//
// pbQL keywords are matched exactly, including case and trailing punctuation:
// "контакты," is one keyword, "контакты" is a plain word.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // keyword names follow the ALL_CAPS token convention
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	WORD // any non-keyword token: names, emails, phone digits

	// Verbs
	CREATE // Создай
	DELETE // Удали
	ADD    // Добавь
	SHOW   // Покажи

	// Nouns
	CONTACT     // контакт
	CONTACTS    // контакты,
	OF_CONTACT  // контакта
	OF_CONTACTS // контактов,
	PHONE       // телефон
	EMAIL       // почту

	// Show fields
	FIELD_NAME   // имя
	FIELD_PHONES // телефоны
	FIELD_EMAILS // почты

	// Connectives
	AND   // и
	FOR   // для
	WHERE // где
	HAS   // есть
)

// String returns the keyword spelling, or a descriptive name for non-keywords.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	WORD:    "WORD",

	CREATE: "Создай",
	DELETE: "Удали",
	ADD:    "Добавь",
	SHOW:   "Покажи",

	CONTACT:     "контакт",
	CONTACTS:    "контакты,",
	OF_CONTACT:  "контакта",
	OF_CONTACTS: "контактов,",
	PHONE:       "телефон",
	EMAIL:       "почту",

	FIELD_NAME:   "имя",
	FIELD_PHONES: "телефоны",
	FIELD_EMAILS: "почты",

	AND:   "и",
	FOR:   "для",
	WHERE: "где",
	HAS:   "есть",
}

// keywords maps keyword spellings to their token types.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		if IsKeyword(t) {
			m[name] = t
		}
	}
	return m
}()

// LookupWord returns the token type for the given word.
// If the word is a keyword, the keyword token type is returned.
// Otherwise, WORD is returned.
func LookupWord(word string) TokenType {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return WORD
}

// Keywords returns every keyword spelling. Used for REPL completion.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for t := CREATE; t <= HAS; t++ {
		out = append(out, t.String())
	}
	return out
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= CREATE && t <= HAS
}

// IsVerb returns true if the token type starts a command.
func IsVerb(t TokenType) bool {
	return t >= CREATE && t <= SHOW
}

// IsField returns true if the token type names a Show field.
func IsField(t TokenType) bool {
	return t >= FIELD_NAME && t <= FIELD_EMAILS
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Index   int // 0-based index within the command
	Pos     Position
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}
