package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pbql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	fs.String("history-file", "", "")
	fs.String("prompt", "", "")
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, filepath.Join("/home/tester", DefaultHistoryFile), cfg.HistoryFile)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		env        map[string]string
		args       []string
		wantOutput string
		wantPrompt string
		wantVerb   bool
	}{
		{
			name:       "file overrides defaults",
			file:       "output: json\nprompt: \"> \"\n",
			wantOutput: "json",
			wantPrompt: "> ",
		},
		{
			name:       "env overrides file",
			file:       "output: json\n",
			env:        map[string]string{"PBQL_OUTPUT": "yaml", "PBQL_VERBOSE": "true"},
			wantOutput: "yaml",
			wantPrompt: DefaultPrompt,
			wantVerb:   true,
		},
		{
			name:       "flags override env",
			file:       "output: json\n",
			env:        map[string]string{"PBQL_OUTPUT": "yaml"},
			args:       []string{"-o", "table", "--prompt", "тел> "},
			wantOutput: "table",
			wantPrompt: "тел> ",
		},
		{
			name:       "unchanged flags are ignored",
			file:       "output: json\n",
			args:       []string{"-v"},
			wantOutput: "json",
			wantPrompt: DefaultPrompt,
			wantVerb:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetConfig)
			dir := t.TempDir()
			path := writeConfig(t, dir, tt.file)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))

			cfg, err := LoadConfig(path, fs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, cfg.OutputFormat)
			assert.Equal(t, tt.wantPrompt, cfg.Prompt)
			assert.Equal(t, tt.wantVerb, cfg.Verbose)
			assert.Equal(t, path, GetConfigFileUsed())
		})
	}
}

func TestLoadConfigFindsFileUpward(t *testing.T) {
	t.Cleanup(ResetConfig)
	root := t.TempDir()
	writeConfig(t, root, "output: table\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, OutputTable, cfg.OutputFormat)
	assert.Equal(t, filepath.Join(root, "pbql.yaml"), GetConfigFileUsed())
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("invalid output", func(t *testing.T) {
		t.Cleanup(ResetConfig)
		path := writeConfig(t, t.TempDir(), "output: xml\n")
		_, err := LoadConfig(path, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown output format "xml"`)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Cleanup(ResetConfig)
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Cleanup(ResetConfig)
		path := writeConfig(t, t.TempDir(), "output: [\n")
		_, err := LoadConfig(path, nil)
		require.Error(t, err)
	})
}

func TestResolveHistoryFile(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "", resolveHistoryFile(""))
	assert.Equal(t, "/tmp/h", resolveHistoryFile("/tmp/h"))
	assert.Equal(t, "/home/tester/h", resolveHistoryFile("h"))
	assert.Equal(t, "/home/tester/h", resolveHistoryFile("~/h"))
}

func TestValidate(t *testing.T) {
	for _, f := range OutputFormats() {
		cfg := Default()
		cfg.OutputFormat = f
		assert.NoError(t, cfg.Validate(), f)
	}

	cfg := Default()
	cfg.Prompt = ""
	assert.Error(t, cfg.Validate())
}

func TestLoggerContext(t *testing.T) {
	// Fallback never returns nil.
	require.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	GetLogger(ctx).Debug("hidden")
	GetLogger(ctx).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestConfigContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.OutputFormat = OutputYAML
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
