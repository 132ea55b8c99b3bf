// Package config provides configuration management for the pbql CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	HistoryFile  string `koanf:"history_file"`
	Prompt       string `koanf:"prompt"`
}

// Output formats accepted by the output key.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// Default configuration values.
const (
	DefaultOutput      = OutputText
	DefaultHistoryFile = ".pbql_history" // relative to the home directory
	DefaultPrompt      = "pbql> "
)

// OutputFormats lists the valid values of the output key.
func OutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML, OutputTable}
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		HistoryFile:  DefaultHistoryFile,
		Prompt:       DefaultPrompt,
	}
}
