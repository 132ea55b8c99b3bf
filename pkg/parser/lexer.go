package parser

import (
	"strings"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// Lexer tokenizes a single pbQL command.
//
// Tokens are separated by exactly one space character. Two consecutive
// spaces produce an empty WORD token between them, so the token stream
// always rejoins to the original command with strings.Join(words, " ").
type Lexer struct {
	input string
	line  int  // 1-based command number
	pos   int  // byte offset of the next token
	col   int  // column of the next token
	index int  // index of the next token
	done  bool // true once the last token has been returned
}

// NewLexer creates a new Lexer for one command.
func NewLexer(input string, line int) *Lexer {
	return &Lexer{
		input: input,
		line:  line,
		col:   1,
	}
}

// NextToken returns the next token, or EOF once the command is exhausted.
//
// Each token's column follows the token-sum rule: the column of token i is
// 1 plus the sum of (length+1) over tokens 0..i-1.
func (l *Lexer) NextToken() Token {
	if l.done {
		return Token{
			Type:  token.EOF,
			Index: l.index,
			Pos:   Position{Line: l.line, Column: l.col},
		}
	}

	var lit string
	if i := strings.IndexByte(l.input[l.pos:], ' '); i >= 0 {
		lit = l.input[l.pos : l.pos+i]
		l.pos += i + 1
	} else {
		lit = l.input[l.pos:]
		l.pos = len(l.input)
		l.done = true
	}

	tok := Token{
		Type:    token.LookupWord(lit),
		Literal: lit,
		Index:   l.index,
		Pos:     Position{Line: l.line, Column: l.col},
	}
	l.col += token.Len(lit) + 1
	l.index++
	return tok
}

// Tokenize returns every token of the command, without the trailing EOF.
func Tokenize(input string, line int) []Token {
	l := NewLexer(input, line)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
