package parser

import "github.com/leapstack-labs/pbql/pkg/token"

// Token is an alias for token.Token.
type Token = token.Token

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Position is an alias for token.Position.
type Position = token.Position
