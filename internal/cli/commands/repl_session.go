package commands

import (
	"strings"

	"github.com/leapstack-labs/pbql/pkg/engine"
	"github.com/leapstack-labs/pbql/pkg/format"
	"github.com/leapstack-labs/pbql/pkg/parser"
	"github.com/leapstack-labs/pbql/pkg/token"
)

// dumpFields are the fields printed for every contact by .dump.
var dumpFields = []token.TokenType{token.FIELD_NAME, token.FIELD_PHONES, token.FIELD_EMAILS}

// replSession keeps the text of every accepted chunk. Each submission runs
// the whole transcript again from an empty directory, so the directory
// appears to persist while every evaluation is still an ordinary run.
type replSession struct {
	eng        *engine.Engine
	transcript strings.Builder
	commands   int // segments in transcript
	lines      int // output lines produced by transcript
}

func newReplSession(eng *engine.Engine) *replSession {
	return &replSession{eng: eng}
}

// Submit runs chunk after everything accepted so far and returns the lines
// it produced. chunk must end with ';'. A chunk with a syntax error is not
// added to the transcript, and the error position is relative to chunk.
func (s *replSession) Submit(chunk string) ([]string, error) {
	lines, err := s.eng.Run(s.transcript.String() + chunk)
	if err != nil {
		se, ok := parser.AsSyntaxError(err)
		if !ok {
			return nil, err
		}
		rel := *se
		if rel.Pos.Line > s.commands {
			rel.Pos.Line -= s.commands
		}
		return nil, &rel
	}

	added := lines[s.lines:]
	s.lines = len(lines)
	s.commands += strings.Count(chunk, ";")
	s.transcript.WriteString(chunk)
	return added, nil
}

// Dump lists every contact currently in the directory.
func (s *replSession) Dump() ([]string, error) {
	if s.transcript.Len() == 0 {
		return nil, nil
	}
	_, store, err := s.eng.RunWithStore(s.transcript.String())
	if err != nil {
		return nil, err
	}
	return format.Lines(store.Contacts(), dumpFields), nil
}

// Transcript returns the accepted query text.
func (s *replSession) Transcript() string {
	return s.transcript.String()
}

// Reset forgets the transcript, emptying the directory.
func (s *replSession) Reset() {
	s.transcript.Reset()
	s.commands = 0
	s.lines = 0
}
