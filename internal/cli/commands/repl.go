package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/leapstack-labs/pbql/pkg/parser"
	"github.com/leapstack-labs/pbql/pkg/token"
	"github.com/spf13/cobra"
)

// continuationPrompt is shown while a command is still missing its ';'.
const continuationPrompt = "  ...> "

var (
	replBannerStyle = lipgloss.NewStyle().Bold(true)
	replErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	replHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive pbQL shell",
		Long: `Start an interactive shell for pbQL.

Commands are run when a line ends with ';'. The contact directory persists
for the whole session: every accepted chunk is kept and the session is
replayed from an empty directory on each submission. A chunk with a
syntax error is discarded and leaves the directory unchanged.`,
		RunE: runRepl,
	}

	cmd.Flags().String("prompt", "", "Prompt text (default from config)")
	cmd.Flags().String("history-file", "", "History file (default ~/.pbql_history)")

	return cmd
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	prompt := cc.Cfg.Prompt

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cc.Cfg.HistoryFile,
		AutoComplete:    newKeywordCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	_, _ = fmt.Fprintln(out, replBannerStyle.Render("pbQL shell"))
	_, _ = fmt.Fprintln(out, replHintStyle.Render("Type .help for commands, .quit to exit"))
	_, _ = fmt.Fprintln(out)

	s := newReplSession(cc.Engine)
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(out, errOut, s, line); quit {
				break
			}
			continue
		}

		// Accumulate lines until the chunk ends with ';'
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			rl.SetPrompt(continuationPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		chunk := buf.String()
		buf.Reset()
		cc.Logger.Debug("repl submit", "chunk", chunk)
		submitChunk(out, errOut, s, chunk)
	}

	return nil
}

// submitChunk runs chunk in the session and prints its output or error.
func submitChunk(out, errOut io.Writer, s *replSession, chunk string) {
	lines, err := s.Submit(chunk)
	if err != nil {
		printReplError(errOut, err)
		return
	}
	for _, l := range lines {
		_, _ = fmt.Fprintln(out, l)
	}
}

func printReplError(w io.Writer, err error) {
	msg := replErrorStyle.Render(err.Error())
	if se, ok := parser.AsSyntaxError(err); ok && se.Message != "" {
		msg += " " + replHintStyle.Render("("+se.Message+")")
	}
	_, _ = fmt.Fprintln(w, msg)
}

// handleDotCommand runs a REPL dot-command and reports whether the REPL
// should exit.
func handleDotCommand(out, errOut io.Writer, s *replSession, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".reset":
		s.Reset()
		_, _ = fmt.Fprintln(out, replHintStyle.Render("Directory cleared"))

	case ".dump":
		lines, err := s.Dump()
		if err != nil {
			printReplError(errOut, err)
			return false
		}
		if len(lines) == 0 {
			_, _ = fmt.Fprintln(out, replHintStyle.Render("(no contacts)"))
		}
		for _, l := range lines {
			_, _ = fmt.Fprintln(out, l)
		}

	case ".transcript":
		for _, cmd := range strings.SplitAfter(s.Transcript(), ";") {
			if cmd != "" {
				_, _ = fmt.Fprintln(out, cmd)
			}
		}

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .dump           List every contact in the directory
  .transcript     Print the commands accepted so far
  .reset          Clear the directory
  .quit / .exit   Exit the REPL

Tips:
  - Commands run once a line ends with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completes pbQL keywords
`
	_, _ = fmt.Fprintln(w, help)
	_, _ = fmt.Fprintf(w, "Keywords: %s\n", strings.Join(token.Keywords(), " "))
}

// newKeywordCompleter completes pbQL phrases word by word.
func newKeywordCompleter() *readline.PrefixCompleter {
	kw := func(t token.TokenType, children ...readline.PrefixCompleterInterface) readline.PrefixCompleterInterface {
		return readline.PcItem(t.String(), children...)
	}
	items := []readline.PrefixCompleterInterface{
		kw(token.CREATE, kw(token.CONTACT)),
		kw(token.DELETE,
			kw(token.CONTACT),
			kw(token.CONTACTS, kw(token.WHERE, kw(token.HAS))),
			kw(token.PHONE),
			kw(token.EMAIL),
		),
		kw(token.ADD, kw(token.PHONE), kw(token.EMAIL)),
		kw(token.SHOW, kw(token.FIELD_NAME), kw(token.FIELD_PHONES), kw(token.FIELD_EMAILS)),
	}
	for _, dot := range []string{".help", ".dump", ".transcript", ".reset", ".quit", ".exit"} {
		items = append(items, readline.PcItem(dot))
	}
	return readline.NewPrefixCompleter(items...)
}
