package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/pbql/internal/cli/config"
	"github.com/leapstack-labs/pbql/pkg/engine"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext from the values the root
// command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: engine.New(engine.Config{Logger: logger}),
	}
}

// source is one query text to evaluate, named for reporting.
type source struct {
	Name string
	Path string // empty unless the text comes from a file
	Text string
}

// stdinName names the source read from standard input.
const stdinName = "<stdin>"

// queryName names the source given with --query.
const queryName = "<query>"

// collectSources resolves the command inputs: the --query text, the named
// files, or piped stdin, in that order of preference. File contents are
// read later so that runs can pick up edits.
func collectSources(cmd *cobra.Command, query string, files []string) ([]source, error) {
	switch {
	case query != "":
		return []source{{Name: queryName, Text: query}}, nil
	case len(files) > 0:
		out := make([]source, 0, len(files))
		for _, f := range files {
			out = append(out, source{Name: f, Path: f})
		}
		return out, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return nil, fmt.Errorf("no input: pass FILE arguments, --query, or pipe queries on stdin")
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return []source{{Name: stdinName, Text: string(content)}}, nil
}

// load returns the query text of s, reading it from disk for file sources.
// One trailing line break, as left by editors and echo, is dropped.
func (s source) load() (string, error) {
	text := s.Text
	if s.Path != "" {
		content, err := os.ReadFile(s.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", s.Path, err)
		}
		text = string(content)
	}
	if strings.HasSuffix(text, "\n") {
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
	}
	return text, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
