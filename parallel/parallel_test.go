package parallel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/weiihann/loadbench/table"
	"github.com/weiihann/loadbench/worker"
)

func TestMain(m *testing.M) {
	if worker.IsWorker() {
		worker.Main()
	}

	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFiles writes n files whose first data cell equals the file index.
func writeFiles(t *testing.T, n int, format table.Format) []Task {
	t.Helper()

	dir := t.TempDir()
	tasks := make([]Task, n)

	for i := 0; i < n; i++ {
		m := mat.NewDense(5, 2, nil)
		m.Set(0, 0, float64(i))

		path := table.FileName(dir, i, format)
		require.NoError(t, table.WriteFile(format, path, table.FromDense(m)))

		tasks[i] = Task{Format: format, Path: path}
	}

	return tasks
}

type fakeLoader struct {
	calls  atomic.Int64
	active atomic.Int64
	peak   atomic.Int64
	delay  func(path string) time.Duration
	fail   string
}

func (f *fakeLoader) Load(ctx context.Context, req worker.Request) (*table.Table, error) {
	f.calls.Add(1)

	n := f.active.Add(1)
	defer f.active.Add(-1)

	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if f.delay != nil {
		time.Sleep(f.delay(req.Path))
	}

	if req.Path == f.fail {
		return nil, errors.New("boom")
	}

	return table.ReadFile(req.Format, req.Path)
}

func TestMapPreservesOrder(t *testing.T) {
	tasks := writeFiles(t, 6, table.Binary)

	// Earlier tasks finish last.
	loader := &fakeLoader{delay: func(path string) time.Duration {
		for i, task := range tasks {
			if task.Path == path {
				return time.Duration(len(tasks)-i) * 5 * time.Millisecond
			}
		}

		return 0
	}}

	for _, mode := range []Mode{Threads, Processes} {
		t.Run(mode.String(), func(t *testing.T) {
			pool := NewPool(mode, 3, loader, discardLogger())

			out, err := pool.Map(context.Background(), tasks)
			require.NoError(t, err)
			require.Len(t, out, len(tasks))

			for i, o := range out {
				assert.Equal(t, float64(i), o.Table.At(0, 0), "outcome %d out of order", i)
				assert.GreaterOrEqual(t, o.Elapsed, time.Duration(0))
			}
		})
	}
}

func TestMapRespectsLimit(t *testing.T) {
	tasks := writeFiles(t, 8, table.Binary)
	loader := &fakeLoader{delay: func(string) time.Duration { return 10 * time.Millisecond }}

	pool := NewPool(Processes, 2, loader, discardLogger())

	_, err := pool.Map(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, int64(8), loader.calls.Load())
	assert.LessOrEqual(t, loader.peak.Load(), int64(2))
}

func TestMapFailsBatch(t *testing.T) {
	tasks := writeFiles(t, 4, table.Binary)
	loader := &fakeLoader{fail: tasks[2].Path}

	pool := NewPool(Processes, 4, loader, discardLogger())

	out, err := pool.Map(context.Background(), tasks)
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestMapThreadsMissingFile(t *testing.T) {
	tasks := writeFiles(t, 2, table.CSV)
	tasks = append(tasks, Task{Format: table.CSV, Path: filepath.Join(t.TempDir(), "Dummy 9.csv")})

	pool := NewPool(Threads, 0, nil, discardLogger())

	_, err := pool.Map(context.Background(), tasks)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapProcessesNeedsLoader(t *testing.T) {
	pool := NewPool(Processes, 1, nil, discardLogger())

	_, err := pool.Map(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewPoolDefaultsToCPUs(t *testing.T) {
	pool := NewPool(Threads, 0, nil, discardLogger())

	assert.Positive(t, pool.Workers())
	assert.Equal(t, Threads, pool.Mode())
}

func TestMapWithWorkerProcesses(t *testing.T) {
	bin, err := worker.ResolveBinary()
	require.NoError(t, err)

	runner := worker.NewRunner(worker.WrapCommand(bin), discardLogger())
	pool := NewPool(Processes, 2, runner, discardLogger())

	for _, format := range table.Formats() {
		t.Run(string(format), func(t *testing.T) {
			tasks := writeFiles(t, 3, format)

			out, err := pool.Map(context.Background(), tasks)
			require.NoError(t, err)

			combined := table.Concat(Tables(out))
			rows, _ := combined.Dims()
			assert.Equal(t, 15, rows)
		})
	}
}
