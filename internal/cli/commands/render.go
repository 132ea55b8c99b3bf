package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/pbql/internal/cli/config"
	"github.com/leapstack-labs/pbql/pkg/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// runResult is the outcome of evaluating one source.
type runResult struct {
	Source string     `json:"source" yaml:"source"`
	Lines  []string   `json:"lines" yaml:"lines"`
	Error  *errorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// errorInfo describes a syntax error for structured output.
type errorInfo struct {
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// newRunResult builds the result for one source. Only syntax errors are
// recorded; any other error is returned to the caller.
func newRunResult(name string, lines []string, err error) (runResult, error) {
	res := runResult{Source: name, Lines: lines}
	if err == nil {
		return res, nil
	}
	se, ok := parser.AsSyntaxError(err)
	if !ok {
		return res, err
	}
	res.Lines = []string{}
	res.Error = &errorInfo{Line: se.Pos.Line, Column: se.Pos.Column, Message: se.Error()}
	return res, nil
}

// failed counts the results that carry a syntax error.
func failed(results []runResult) int {
	n := 0
	for _, r := range results {
		if r.Error != nil {
			n++
		}
	}
	return n
}

func renderResults(w, errw io.Writer, results []runResult, format string) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, results)
	case config.OutputYAML:
		return renderYAML(w, results)
	case config.OutputTable:
		return renderTable(w, errw, results)
	default:
		return renderText(w, errw, results)
	}
}

// renderText writes the output lines as they are. With several sources
// each block is headed by the source name.
func renderText(w, errw io.Writer, results []runResult) error {
	multi := len(results) > 1
	for i, r := range results {
		if multi {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintf(w, "==> %s <==\n", r.Source)
		}
		if r.Error != nil {
			_, _ = fmt.Fprintf(errw, "%s: %s\n", r.Source, r.Error.Message)
			continue
		}
		for _, line := range r.Lines {
			_, _ = fmt.Fprintln(w, line)
		}
	}
	return nil
}

func renderJSON(w io.Writer, results []runResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderYAML(w io.Writer, results []runResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return err
	}
	return enc.Close()
}

// renderTable lays out every output line as a row, one column per
// requested field.
func renderTable(w, errw io.Writer, results []runResult) error {
	title := cases.Title(language.Russian)

	width := 0
	rows := 0
	for _, r := range results {
		for _, line := range r.Lines {
			width = max(width, strings.Count(line, ";")+1)
			rows++
		}
	}

	for _, r := range results {
		if r.Error != nil {
			_, _ = fmt.Fprintf(errw, "%s: %s\n", r.Source, r.Error.Message)
		}
	}
	if rows == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := table.Row{title.String("источник")}
	for i := 1; i <= width; i++ {
		header = append(header, title.String(fmt.Sprintf("поле %d", i)))
	}
	t.AppendHeader(header)

	for _, r := range results {
		for _, line := range r.Lines {
			row := table.Row{r.Source}
			for _, field := range strings.Split(line, ";") {
				row = append(row, field)
			}
			t.AppendRow(row)
		}
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", rows)
	return nil
}
