package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats(), c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of: %s)",
			c.OutputFormat, strings.Join(OutputFormats(), ", "))
	}
	if c.Prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}
	return nil
}
