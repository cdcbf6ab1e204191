package config

import (
	"fmt"

	"github.com/weiihann/loadbench/logging"
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

// Validate checks the settings and returns every problem found.
func (c Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.InputDir == "" {
		errs = append(errs, ValidationError{
			Path:    "input_dir",
			Message: "input directory is required",
		})
	}

	if c.LogPath == "" {
		errs = append(errs, ValidationError{
			Path:    "log_path",
			Message: "log path is required",
		})
	}

	positive := []struct {
		path  string
		value int
	}{
		{"files", c.Files},
		{"rows", c.Rows},
		{"cols", c.Cols},
	}

	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, ValidationError{
				Path:    p.path,
				Message: fmt.Sprintf("must be positive, got %d", p.value),
			})
		}
	}

	if c.Workers < 0 {
		errs = append(errs, ValidationError{
			Path:    "workers",
			Message: fmt.Sprintf("must not be negative, got %d", c.Workers),
		})
	}

	if _, err := logging.ParseLevel(c.ConsoleLevel); err != nil {
		errs = append(errs, ValidationError{
			Path:    "console_level",
			Message: err.Error(),
		})
	}

	return errs
}
