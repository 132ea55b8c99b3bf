package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"syscall"

	"github.com/leapstack-labs/pbql/internal/cli/config"
	"github.com/leapstack-labs/pbql/pkg/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errQueriesFailed is returned when at least one source had a syntax error.
var errQueriesFailed = errors.New("query failed")

// RunOptions holds options for the run command.
type RunOptions struct {
	Query  string
	Format string
	Watch  bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [FILE...]",
		Short: "Run pbQL queries",
		Long: `Run pbQL queries against an empty contact directory.

Each FILE is an independent query: it starts with an empty directory and
its output is printed in argument order. Files are evaluated concurrently.
Without FILE arguments the query is taken from --query or from stdin.

A syntax error discards all output of that query and makes the command
exit with a non-zero status.`,
		Example: `  # Run a query given on the command line
  pbql run -q 'Создай контакт A;Покажи имя для контактов, где есть A;'

  # Run several files, printing a table
  pbql run --format table a.pbql b.pbql

  # Pipe a query through stdin
  cat book.pbql | pbql run

  # Re-run files whenever they change
  pbql run --watch book.pbql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Query text to run")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml, table (default from config)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run FILE arguments when they change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	cc := NewCommandContext(cmd)

	format, err := resolveFormat(opts.Format, cc.Cfg)
	if err != nil {
		return err
	}
	if opts.Watch && (len(args) == 0 || opts.Query != "") {
		return fmt.Errorf("--watch needs FILE arguments")
	}

	sources, err := collectSources(cmd, opts.Query, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	results, err := runSources(ctx, cc.Engine, sources)
	if err != nil {
		return err
	}
	if err := renderResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, format); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		w := &fileWatcher{
			engine: cc.Engine,
			logger: cc.Logger,
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
			format: format,
		}
		return w.Watch(ctx, sources)
	}

	if n := failed(results); n > 0 {
		return fmt.Errorf("%w: %d of %d", errQueriesFailed, n, len(results))
	}
	return nil
}

// resolveFormat picks the --format value, falling back to the configured one.
func resolveFormat(flag string, cfg *config.Config) (string, error) {
	format := flag
	if format == "" {
		format = cfg.OutputFormat
	}
	if !slices.Contains(config.OutputFormats(), format) {
		return "", fmt.Errorf("unknown format %q (expected one of: text, json, yaml, table)", format)
	}
	return format, nil
}

// runSources evaluates every source concurrently and returns the results in
// source order. Syntax errors are part of the results; read errors abort.
func runSources(ctx context.Context, eng *engine.Engine, sources []source) ([]runResult, error) {
	results := make([]runResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := src.load()
			if err != nil {
				return err
			}
			lines, err := eng.Run(text)
			res, err := newRunResult(src.Name, lines, err)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
