package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/weiihann/loadbench/table"
)

// Runner launches one worker process per load request.
type Runner struct {
	BinaryPath string
	ExtraArgs  []string
	Env        []string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the given command. Env is appended to the
// inherited environment.
func NewRunner(cmd CommandConfig, logger *slog.Logger) *Runner {
	return &Runner{
		BinaryPath: cmd.Binary,
		ExtraArgs:  cmd.ExtraArgs,
		Env:        cmd.Env,
		Logger:     logger.With(slog.String("component", "worker")),
	}
}

// Load reads one file in a child process and returns the decoded table.
func (r *Runner) Load(ctx context.Context, req Request) (*table.Table, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.BinaryPath, r.ExtraArgs...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"worker for %s failed: %w\nstderr: %s",
			req.Path, err, stderr.String(),
		)
	}

	r.Logger.DebugContext(ctx, "worker finished",
		slog.String("path", req.Path),
		slog.Duration("wall_time", time.Since(start)),
		slog.Int("output_bytes", stdout.Len()),
	)

	t, err := table.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode worker output for %s: %w", req.Path, err)
	}

	return t, nil
}
