package worker

import (
	"fmt"
	"os"
)

// CommandConfig holds the resolved command, extra arguments, and
// environment variables needed to start a worker process.
type CommandConfig struct {
	Binary    string
	ExtraArgs []string
	Env       []string
}

// ResolveBinary returns the path of the running executable, which doubles
// as the worker binary.
func ResolveBinary() (string, error) {
	bin, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve worker binary: %w", err)
	}

	return bin, nil
}

// WrapCommand returns the exec configuration that starts binPath in worker
// mode: the worker subcommand for the CLI, plus the environment marker that
// test binaries check from TestMain.
func WrapCommand(binPath string) CommandConfig {
	return CommandConfig{
		Binary:    binPath,
		ExtraArgs: []string{Command},
		Env:       []string{EnvWorker + "=1"},
	}
}
