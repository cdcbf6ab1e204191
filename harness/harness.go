package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/weiihann/loadbench/config"
	"github.com/weiihann/loadbench/logging"
	"github.com/weiihann/loadbench/parallel"
	"github.com/weiihann/loadbench/worker"
	"github.com/weiihann/loadbench/workload"
)

// Harness generates the dummy files and runs the load routines.
type Harness struct {
	cfg       config.Config
	logger    *slog.Logger
	logFile   *os.File
	runID     string
	threads   *parallel.Pool
	processes *parallel.Pool
}

var (
	instance     *Harness
	instanceErr  error
	instanceOnce sync.Once
)

// Instance returns the process-wide Harness. The first call builds it from
// cfg and console; later calls return the same Harness (or the same error)
// and ignore their arguments.
func Instance(cfg config.Config, console io.Writer) (*Harness, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = New(cfg, console)
	})

	return instance, instanceErr
}

// New builds a Harness. The log file at cfg.LogPath is truncated and
// receives every record down to debug level. A non-nil console also gets
// records at cfg.ConsoleLevel and above.
func New(cfg config.Config, console io.Writer) (*Harness, error) {
	file, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{logging.NewHandler(file, slog.LevelDebug)}

	if console != nil {
		level, err := logging.ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			file.Close()

			return nil, err
		}

		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: level,
		}))
	}

	logger := slog.New(logging.Tee(handlers...))

	bin, err := worker.ResolveBinary()
	if err != nil {
		file.Close()

		return nil, err
	}

	runner := worker.NewRunner(worker.WrapCommand(bin), logger)

	h := &Harness{
		cfg:       cfg,
		logger:    logger,
		logFile:   file,
		runID:     uuid.NewString(),
		threads:   parallel.NewPool(parallel.Threads, cfg.Workers, nil, logger),
		processes: parallel.NewPool(parallel.Processes, cfg.Workers, runner, logger),
	}

	logger.Info("Logger initialization complete ...")
	logger.Debug("Run identifier", slog.String("run_id", h.runID))

	return h, nil
}

// Logger returns the benchmark logger.
func (h *Harness) Logger() *slog.Logger {
	return h.logger
}

// RunID identifies this Harness in results.
func (h *Harness) RunID() string {
	return h.runID
}

// Close releases the log file.
func (h *Harness) Close() error {
	return h.logFile.Close()
}

// Init writes the dummy files into the input directory, replacing any
// previous ones.
func (h *Harness) Init(ctx context.Context) (workload.Summary, error) {
	h.logger.InfoContext(ctx, "Initializing dummy files ...")

	gen := workload.NewGenerator(workload.Config{
		Dir:   h.cfg.InputDir,
		Files: h.cfg.Files,
		Rows:  h.cfg.Rows,
		Cols:  h.cfg.Cols,
		Seed:  h.cfg.Seed,
	})

	summary, err := gen.Generate(ctx, h.logger)
	if err != nil {
		return summary, fmt.Errorf("initialize dummy files: %w", err)
	}

	h.logger.DebugContext(ctx, "dummy files ready",
		slog.Int("files", summary.FilesWritten),
		slog.Int64("bytes", summary.Bytes),
	)

	return summary, nil
}

// LoadFiles runs every load routine in order and returns their results.
// The first failure stops the run.
func (h *Harness) LoadFiles(ctx context.Context) ([]Result, error) {
	h.logger.InfoContext(ctx, "Start of loading the generated files")

	results := make([]Result, 0, len(routines))

	for _, r := range routines {
		res, err := h.run(ctx, r)
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	h.logger.InfoContext(ctx, "End of loading the generated files")

	return results, nil
}
