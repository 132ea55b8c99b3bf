package token

import (
	"strconv"
	"unicode/utf8"
)

// Position represents a location in a pbQL query.
type Position struct {
	Line   int // 1-based command number within the query
	Column int // 1-based column within the command
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// OffsetAfter returns the sum of len(words[k])+1 for k in 0..i.
//
// Columns are derived by replaying token-and-space consumption, never by
// searching the command text. Indexes past the end of words contribute
// nothing, so OffsetAfter(words, len(words)+5) equals the full sum.
func OffsetAfter(words []string, i int) int {
	n := 0
	for k := 0; k <= i && k < len(words); k++ {
		n += Len(words[k]) + 1
	}
	return n
}

// ColumnOf returns the column of the i-th word: OffsetAfter(words, i-1) + 1.
func ColumnOf(words []string, i int) int {
	return OffsetAfter(words, i-1) + 1
}
