// Package config resolves the benchmark settings. With no file and no
// environment overrides the result is the fixed layout the benchmark has
// always used: ten 20000x25 tables under ../in, logging to
// ../log/excelfilereader.log.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvInputDir     = "LOADBENCH_IN_DIR"
	EnvLogPath      = "LOADBENCH_LOG_PATH"
	EnvFiles        = "LOADBENCH_FILES"
	EnvRows         = "LOADBENCH_ROWS"
	EnvCols         = "LOADBENCH_COLS"
	EnvSeed         = "LOADBENCH_SEED"
	EnvWorkers      = "LOADBENCH_WORKERS"
	EnvConsoleLevel = "LOADBENCH_CONSOLE_LEVEL"
)

// Config holds the benchmark settings.
type Config struct {
	InputDir string `yaml:"input_dir"`
	LogPath  string `yaml:"log_path"`
	Files    int    `yaml:"files"`
	Rows     int    `yaml:"rows"`
	Cols     int    `yaml:"cols"`
	// Seed for the dummy values; 0 uses the current time.
	Seed int64 `yaml:"seed"`
	// Workers bounds both worker pools; 0 uses every CPU.
	Workers      int    `yaml:"workers"`
	ConsoleLevel string `yaml:"console_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		InputDir:     "../in",
		LogPath:      "../log/excelfilereader.log",
		Files:        10,
		Rows:         20000,
		Cols:         25,
		ConsoleLevel: "info",
	}
}

// Load layers, in order: defaults, a .env file in the working directory
// (if present), the YAML file at path (if path is not empty), and the
// LOADBENCH_* environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config: %w", errors.Join(toErrors(errs)...))
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvInputDir); ok {
		cfg.InputDir = v
	}
	if v, ok := os.LookupEnv(EnvLogPath); ok {
		cfg.LogPath = v
	}
	if v, ok := os.LookupEnv(EnvConsoleLevel); ok {
		cfg.ConsoleLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvFiles, &cfg.Files},
		{EnvRows, &cfg.Rows},
		{EnvCols, &cfg.Cols},
		{EnvWorkers, &cfg.Workers},
	}

	for _, e := range ints {
		v, ok := os.LookupEnv(e.key)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}

	return nil
}

func toErrors(errs []ValidationError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}

	return out
}
