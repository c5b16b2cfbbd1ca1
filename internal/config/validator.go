package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks every field and returns all problems at once, or nil.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(path, format string, args ...interface{}) {
		result = multierror.Append(result, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Root) == "" {
		add("root", "a directory to scan is required")
	}
	if c.Limit < 0 {
		add("limit", "must not be negative, got %d", c.Limit)
	}
	if _, err := c.Window(); err != nil {
		add("initTime/endTime", "%v", err)
	}
	if _, err := c.Parser(); err != nil {
		add("schema", "%v", err)
	}
	if _, err := c.Policy(); err != nil {
		add("onError", "%v", err)
	}
	if _, err := c.Format(); err != nil {
		add("output", "%v", err)
	}
	if _, err := c.Layout(); err != nil {
		add("buckets", "%v", err)
	}

	return result.ErrorOrNil()
}
