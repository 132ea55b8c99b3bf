package parser

import (
	"strings"

	"github.com/leapstack-labs/pbql/pkg/token"
)

// Split splits a query on ';'. Every command must be terminated, so a query
// that does not end with ';' is a syntax error positioned just past the
// unterminated tail. The returned slice keeps empty segments, including the
// final one after the last ';'.
func Split(query string) ([]string, error) {
	segments := strings.Split(query, ";")
	if !strings.HasSuffix(query, ";") {
		last := segments[len(segments)-1]
		return nil, newSyntaxError(len(segments), token.Len(last)+1, ErrMissingTerminator)
	}
	return segments, nil
}

// Parse validates a whole query and returns its executable commands in
// order. Empty commands, and commands that carry nothing to execute, are
// omitted. The first syntax error aborts parsing.
func Parse(query string) ([]*Command, error) {
	segments, err := Split(query)
	if err != nil {
		return nil, err
	}

	var cmds []*Command
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		cmd, err := ParseCommand(seg, i+1)
		if err != nil {
			return nil, err
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}
