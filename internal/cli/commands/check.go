package commands

import (
	"fmt"

	"github.com/leapstack-labs/pbql/pkg/parser"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Query string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Validate pbQL queries without running them",
		Long: `Parse pbQL queries and report the first syntax error of each.

Nothing is executed. Errors are printed as SOURCE:LINE:COLUMN followed by
a short description, where LINE is the 1-based command number.`,
		Example: `  pbql check book.pbql
  pbql check -q 'Покажи имя;'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Query text to check")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)

	sources, err := collectSources(cmd, opts.Query, args)
	if err != nil {
		return err
	}

	bad := 0
	for _, src := range sources {
		text, err := src.load()
		if err != nil {
			return err
		}

		cmds, err := parser.Parse(text)
		if err != nil {
			se, ok := parser.AsSyntaxError(err)
			if !ok {
				return err
			}
			bad++
			cc.Logger.Debug("syntax error", "source", src.Name, "line", se.Pos.Line, "column", se.Pos.Column)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s\n", src.Name, se.Pos.Line, se.Pos.Column, se.Message)
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d commands)\n", src.Name, len(cmds))
	}

	if bad > 0 {
		return fmt.Errorf("%w: %d of %d", errQueriesFailed, bad, len(sources))
	}
	return nil
}
