package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/pbql/internal/cli/config"
	"github.com/leapstack-labs/pbql/internal/testutil"
	"github.com/leapstack-labs/pbql/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	showPhoneQuery = "Создай контакт A;Добавь телефон 9991234567 и почту x@y.com для контакта A;" +
		"Покажи имя и телефоны и почты для контактов, где есть A;"
	showPhoneLine = "A;+7 (999) 123-45-67;x@y.com"
	badQuery      = "Создай контакт A;Покажи имя;"
)

// lockedBuffer is a bytes.Buffer safe for the watcher goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeQuery(t *testing.T, dir, name, query string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(query+"\n"), 0o600))
	return path
}

// execute runs cmd with a test config and logger in its context.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), config.Default())
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestRunCommandSources(t *testing.T) {
	dir := t.TempDir()
	fileA := writeQuery(t, dir, "a.pbql", showPhoneQuery)
	fileB := writeQuery(t, dir, "b.pbql", "Создай контакт B;Покажи имя для контактов, где есть B;")

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantOut string
	}{
		{
			name:    "query flag",
			args:    []string{"-q", showPhoneQuery},
			wantOut: showPhoneLine + "\n",
		},
		{
			name:    "stdin with trailing newline",
			stdin:   showPhoneQuery + "\n",
			wantOut: showPhoneLine + "\n",
		},
		{
			name:    "single file",
			args:    []string{fileA},
			wantOut: showPhoneLine + "\n",
		},
		{
			name:    "several files keep argument order",
			args:    []string{fileB, fileA},
			wantOut: "==> " + fileB + " <==\nB\n\n==> " + fileA + " <==\n" + showPhoneLine + "\n",
		},
		{
			name:    "no output",
			args:    []string{"-q", "Создай контакт A;"},
			wantOut: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := execute(t, NewRunCommand(), tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			assert.Empty(t, errOut)
		})
	}
}

func TestRunCommandSyntaxError(t *testing.T) {
	out, errOut, err := execute(t, NewRunCommand(), "", "-q", badQuery)
	require.Error(t, err)
	assert.ErrorIs(t, err, errQueriesFailed)
	assert.Empty(t, out, "no partial output")
	assert.Contains(t, errOut, "SyntaxError: Unexpected token at 2:12")
}

func TestRunCommandOneBadFile(t *testing.T) {
	dir := t.TempDir()
	good := writeQuery(t, dir, "good.pbql", showPhoneQuery)
	bad := writeQuery(t, dir, "bad.pbql", badQuery)

	out, errOut, err := execute(t, NewRunCommand(), "", "--format", "json", good, bad)
	require.ErrorIs(t, err, errQueriesFailed)
	assert.Empty(t, errOut)

	var results []runResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []string{showPhoneLine}, results[0].Lines)
	assert.Nil(t, results[0].Error)
	assert.Empty(t, results[1].Lines)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, 2, results[1].Error.Line)
	assert.Equal(t, 12, results[1].Error.Column)
}

func TestRunCommandFormats(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		out, _, err := execute(t, NewRunCommand(), "", "-f", "yaml", "-q", showPhoneQuery)
		require.NoError(t, err)

		var results []runResult
		require.NoError(t, yaml.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.Equal(t, queryName, results[0].Source)
		assert.Equal(t, []string{showPhoneLine}, results[0].Lines)
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := execute(t, NewRunCommand(), "", "-f", "table", "-q", showPhoneQuery)
		require.NoError(t, err)
		for _, want := range []string{"Источник", "Поле 1", "Поле 3", "+7 (999) 123-45-67", "x@y.com", "(1 rows)"} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("table without rows", func(t *testing.T) {
		out, _, err := execute(t, NewRunCommand(), "", "-f", "table", "-q", "Создай контакт A;")
		require.NoError(t, err)
		assert.Equal(t, "(0 rows)\n", out)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, NewRunCommand(), "", "-f", "xml", "-q", showPhoneQuery)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}

func TestRunCommandErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, NewRunCommand(), "", filepath.Join(t.TempDir(), "none.pbql"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("watch without files", func(t *testing.T) {
		_, _, err := execute(t, NewRunCommand(), "", "--watch", "-q", showPhoneQuery)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--watch needs FILE arguments")
	})
}

func TestRunSourcesConcurrently(t *testing.T) {
	dir := t.TempDir()
	var sources []source
	for i := 0; i < 20; i++ {
		name := string(rune('a' + i))
		path := writeQuery(t, dir, name+".pbql", "Создай контакт "+name+";Покажи имя для контактов, где есть "+name+";")
		sources = append(sources, source{Name: name, Path: path})
	}

	results, err := runSources(context.Background(), engine.New(engine.Config{}), sources)
	require.NoError(t, err)
	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, sources[i].Name, r.Source)
		assert.Equal(t, []string{sources[i].Name}, r.Lines)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeQuery(t, dir, "good.pbql", showPhoneQuery)
	bad := writeQuery(t, dir, "bad.pbql", badQuery)

	out, _, err := execute(t, NewCheckCommand(), "", good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok (3 commands)\n", out)

	out, _, err = execute(t, NewCheckCommand(), "", good, bad)
	require.ErrorIs(t, err, errQueriesFailed)
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, out, bad+":2:12: ")

	out, _, err = execute(t, NewCheckCommand(), "", "-q", "Привет;")
	require.Error(t, err)
	assert.Equal(t, queryName+":1:1: unknown command \"Привет\"\n", out)
}

func TestCollectSourcesPrefersQuery(t *testing.T) {
	cmd := NewRunCommand()
	cmd.SetIn(strings.NewReader("ignored"))

	got, err := collectSources(cmd, "q;", []string{"file"})
	require.NoError(t, err)
	assert.Equal(t, []source{{Name: queryName, Text: "q;"}}, got)
}

func TestSourceLoadTrimsOneLineBreak(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a;", "a;"},
		{"a;\n", "a;"},
		{"a;\r\n", "a;"},
		{"a;\n\n", "a;\n"},
	}
	for _, tt := range tests {
		got, err := source{Text: tt.in}.load()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestReplSession(t *testing.T) {
	s := newReplSession(engine.New(engine.Config{Logger: testutil.NewTestLogger(t)}))

	lines, err := s.Submit("Создай контакт A;Добавь телефон 9991234567 для контакта A;")
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = s.Submit("Покажи телефоны для контактов, где есть A;")
	require.NoError(t, err)
	assert.Equal(t, []string{"+7 (999) 123-45-67"}, lines)

	// Errors are reported relative to the chunk and leave the session intact.
	_, err = s.Submit("Создай контакт B;Покажи имя;")
	require.Error(t, err)
	assert.Equal(t, "SyntaxError: Unexpected token at 2:12", err.Error())

	lines, err = s.Submit("Покажи имя для контактов, где есть ;Покажи имя для контактов, где есть B;")
	require.NoError(t, err)
	assert.Empty(t, lines, "B was never created")

	lines, err = s.Submit("Покажи имя для контактов, где есть A;")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, lines, "only new output is returned")

	dump, err := s.Dump()
	require.NoError(t, err)
	assert.Equal(t, []string{"A;+7 (999) 123-45-67;"}, dump)

	s.Reset()
	assert.Empty(t, s.Transcript())
	dump, err = s.Dump()
	require.NoError(t, err)
	assert.Empty(t, dump)
}

func TestHandleDotCommand(t *testing.T) {
	s := newReplSession(engine.New(engine.Config{}))
	_, err := s.Submit("Создай контакт A;Создай контакт B;")
	require.NoError(t, err)

	tests := []struct {
		line     string
		wantQuit bool
		wantOut  string
		wantErr  string
	}{
		{line: ".help", wantOut: ".transcript"},
		{line: ".dump", wantOut: "A;;\nB;;\n"},
		{line: ".transcript", wantOut: "Создай контакт A;\nСоздай контакт B;\n"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
		{line: ".quit", wantQuit: true},
		{line: ".EXIT", wantQuit: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out, errOut bytes.Buffer
			quit := handleDotCommand(&out, &errOut, s, tt.line)
			assert.Equal(t, tt.wantQuit, quit)
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Contains(t, errOut.String(), tt.wantErr)
		})
	}

	var out bytes.Buffer
	handleDotCommand(&out, &out, s, ".reset")
	assert.Empty(t, s.Transcript())
}

func TestSubmitChunkPrintsError(t *testing.T) {
	s := newReplSession(engine.New(engine.Config{}))
	var out, errOut bytes.Buffer

	submitChunk(&out, &errOut, s, "Добавь телефон 12 для контакта A;")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "SyntaxError: Unexpected token at 1:16")
	assert.Contains(t, errOut.String(), "10 digits")
}

func TestKeywordCompleter(t *testing.T) {
	pc := newKeywordCompleter()

	var names []string
	for _, child := range pc.GetChildren() {
		names = append(names, strings.TrimSpace(string(child.GetName())))
	}
	assert.Contains(t, names, "Создай")
	assert.Contains(t, names, "Покажи")
	assert.Contains(t, names, ".dump")
}

func TestFileWatcherRerunsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeQuery(t, dir, "book.pbql", "Создай контакт A;Покажи имя для контактов, где есть A;")

	out := &lockedBuffer{}
	errOut := &lockedBuffer{}
	ready := make(chan struct{})
	w := &fileWatcher{
		engine:   engine.New(engine.Config{}),
		logger:   testutil.NewTestLogger(t),
		out:      out,
		errOut:   errOut,
		format:   config.OutputText,
		debounce: 20 * time.Millisecond,
		ready:    func() { close(ready) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, []source{{Name: path, Path: path}}) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	writeQuery(t, dir, "book.pbql", "Создай контакт Bob;Покажи имя для контактов, где есть B;")
	writeQuery(t, dir, "other.pbql", "Покажи имя;")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Bob\n")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, errOut.String(), "Change detected: book.pbql")
	assert.NotContains(t, errOut.String(), "other.pbql")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
