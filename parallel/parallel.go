// Package parallel maps file loads over a bounded pool of workers, either
// goroutines sharing this process or isolated worker processes. Results
// come back in submission order.
package parallel

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/loadbench/table"
	"github.com/weiihann/loadbench/worker"
)

// Mode selects how tasks are executed.
type Mode int

const (
	Threads Mode = iota
	Processes
)

func (m Mode) String() string {
	switch m {
	case Threads:
		return "threads"
	case Processes:
		return "processes"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Task is one file to load.
type Task struct {
	Format table.Format
	Path   string
}

// Outcome is the result of one task.
type Outcome struct {
	Table   *table.Table
	Elapsed time.Duration
}

// Loader loads a single file in a worker process.
type Loader interface {
	Load(ctx context.Context, req worker.Request) (*table.Table, error)
}

// Pool runs tasks on at most workers concurrent workers.
type Pool struct {
	mode    Mode
	workers int
	loader  Loader
	logger  *slog.Logger
}

// NewPool creates a Pool. workers <= 0 uses one worker per CPU. loader is
// only used in Processes mode.
func NewPool(mode Mode, workers int, loader Loader, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{
		mode:    mode,
		workers: workers,
		loader:  loader,
		logger:  logger.With(slog.String("pool", mode.String())),
	}
}

// Mode returns the execution mode.
func (p *Pool) Mode() Mode {
	return p.mode
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Map runs every task and returns the outcomes indexed like tasks. The
// call blocks until all tasks finish; the first failure fails the batch.
func (p *Pool) Map(ctx context.Context, tasks []Task) ([]Outcome, error) {
	if p.mode == Processes && p.loader == nil {
		return nil, fmt.Errorf("processes pool has no worker loader")
	}

	out := make([]Outcome, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	var done atomic.Int64

	start := time.Now()

	for i, task := range tasks {
		g.Go(func() error {
			taskStart := time.Now()

			t, err := p.load(gctx, task)
			if err != nil {
				return err
			}

			out[i] = Outcome{Table: t, Elapsed: time.Since(taskStart)}

			p.logger.DebugContext(ctx, fmt.Sprintf(
				"Done %d of %d tasks | elapsed: %s",
				done.Add(1), len(tasks), time.Since(start),
			))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *Pool) load(ctx context.Context, task Task) (*table.Table, error) {
	switch p.mode {
	case Threads:
		return table.ReadFile(task.Format, task.Path)
	case Processes:
		return p.loader.Load(ctx, worker.Request{Format: task.Format, Path: task.Path})
	default:
		return nil, fmt.Errorf("unknown pool mode %s", p.mode)
	}
}

// Tables extracts the tables from outcomes, keeping order.
func Tables(outcomes []Outcome) []*table.Table {
	tables := make([]*table.Table, len(outcomes))
	for i, o := range outcomes {
		tables[i] = o.Table
	}

	return tables
}
