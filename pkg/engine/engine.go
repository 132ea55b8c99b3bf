// Package engine executes pbQL queries against a contact directory.
//
// Every call to Run owns a fresh phonebook.Store. Nothing survives between
// runs, so one Engine can serve any number of concurrent callers.
package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/leapstack-labs/pbql/pkg/parser"
	"github.com/leapstack-labs/pbql/pkg/phonebook"
)

// Engine runs pbQL queries.
type Engine struct {
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Run executes query and returns the output lines of all commands in order.
// A syntax error anywhere aborts the whole query and no lines are returned.
func Run(query string) ([]string, error) {
	return New(Config{}).Run(query)
}

// Run executes query against a fresh, empty directory.
func (e *Engine) Run(query string) ([]string, error) {
	lines, _, err := e.RunWithStore(query)
	return lines, err
}

// RunWithStore is Run that also returns the directory as it stands after
// the last command. The store is nil when err is non-nil.
func (e *Engine) RunWithStore(query string) ([]string, *phonebook.Store, error) {
	log := e.logger.With("run_id", uuid.NewString())

	cmds, err := parser.Parse(query)
	if err != nil {
		if se, ok := parser.AsSyntaxError(err); ok {
			log.Debug("query rejected",
				"line", se.Pos.Line,
				"column", se.Pos.Column,
				"reason", se.Message)
		}
		return nil, nil, err
	}

	store := phonebook.NewStore()
	lines := []string{}
	for _, cmd := range cmds {
		out := execute(store, cmd)
		log.Debug("executed command",
			"line", cmd.Line,
			"kind", cmd.Kind.String(),
			"output_lines", len(out))
		lines = append(lines, out...)
	}

	log.Debug("query completed", "commands", len(cmds), "contacts", store.Len(), "lines", len(lines))
	return lines, store, nil
}
