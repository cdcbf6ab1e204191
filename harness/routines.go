package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/weiihann/loadbench/parallel"
	"github.com/weiihann/loadbench/table"
)

// maxFileLatency caps per-file read times recorded in the histogram.
const maxFileLatency = time.Hour

type routine struct {
	name    string
	label   string
	format  table.Format
	mode    string
	combine string
}

var (
	loadExcelFiles = routine{
		"LoadExcelFiles", "Excel files",
		table.XLSX, ModeSequential, CombineAppend,
	}
	loadCSVFiles = routine{
		"LoadCSVFiles", "CSV files",
		table.CSV, ModeSequential, CombineAppend,
	}
	loadCSVFilesAndConcatenate = routine{
		"LoadCSVFilesAndConcatenate", "CSV files (with DF concatenate)",
		table.CSV, ModeSequential, CombineConcat,
	}
	loadCSVFilesWithParallel = routine{
		"LoadCSVFilesWithParallel", "CSV files (with Parallel)",
		table.CSV, ModeProcesses, CombineConcat,
	}
	loadCSVFilesWithParallelAndThreads = routine{
		"LoadCSVFilesWithParallelAndThreads", "CSV files (with Parallel and Threads)",
		table.CSV, ModeThreads, CombineConcat,
	}
	loadPickleFiles = routine{
		"LoadPickleFiles", "Pickle files (with Parallel)",
		table.Binary, ModeProcesses, CombineConcat,
	}
	loadPickleFilesWithParallelAndThreads = routine{
		"LoadPickleFilesWithParallelAndThreads", "Pickle files (with Parallel and Threads)",
		table.Binary, ModeThreads, CombineConcat,
	}
	loadExcelFilesInParallel = routine{
		"LoadExcelFilesInParallel", "Excel files (with Parallel)",
		table.XLSX, ModeProcesses, CombineConcat,
	}
	loadExcelFilesInParallelWithThreads = routine{
		"LoadExcelFilesInParallelWithThreads", "Excel files (with Parallel and Threads)",
		table.XLSX, ModeThreads, CombineConcat,
	}
)

// routines lists every routine in the order LoadFiles runs them.
var routines = []routine{
	loadExcelFiles,
	loadCSVFiles,
	loadCSVFilesAndConcatenate,
	loadCSVFilesWithParallel,
	loadCSVFilesWithParallelAndThreads,
	loadPickleFiles,
	loadPickleFilesWithParallelAndThreads,
	loadExcelFilesInParallel,
	loadExcelFilesInParallelWithThreads,
}

// LoadExcelFiles reads the spreadsheets one by one, appending each to the
// first without keeping the appended table.
func (h *Harness) LoadExcelFiles(ctx context.Context) (Result, error) {
	return h.run(ctx, loadExcelFiles)
}

// LoadCSVFiles reads the CSV files one by one, appending each to the first
// without keeping the appended table.
func (h *Harness) LoadCSVFiles(ctx context.Context) (Result, error) {
	return h.run(ctx, loadCSVFiles)
}

// LoadCSVFilesAndConcatenate reads the CSV files one by one and
// concatenates them once at the end.
func (h *Harness) LoadCSVFilesAndConcatenate(ctx context.Context) (Result, error) {
	return h.run(ctx, loadCSVFilesAndConcatenate)
}

// LoadCSVFilesWithParallel reads the CSV files in worker processes.
func (h *Harness) LoadCSVFilesWithParallel(ctx context.Context) (Result, error) {
	return h.run(ctx, loadCSVFilesWithParallel)
}

// LoadCSVFilesWithParallelAndThreads reads the CSV files on the goroutine pool.
func (h *Harness) LoadCSVFilesWithParallelAndThreads(ctx context.Context) (Result, error) {
	return h.run(ctx, loadCSVFilesWithParallelAndThreads)
}

// LoadPickleFiles reads the binary files in worker processes.
func (h *Harness) LoadPickleFiles(ctx context.Context) (Result, error) {
	return h.run(ctx, loadPickleFiles)
}

// LoadPickleFilesWithParallelAndThreads reads the binary files on the
// goroutine pool.
func (h *Harness) LoadPickleFilesWithParallelAndThreads(ctx context.Context) (Result, error) {
	return h.run(ctx, loadPickleFilesWithParallelAndThreads)
}

// LoadExcelFilesInParallel reads the spreadsheets in worker processes.
func (h *Harness) LoadExcelFilesInParallel(ctx context.Context) (Result, error) {
	return h.run(ctx, loadExcelFilesInParallel)
}

// LoadExcelFilesInParallelWithThreads reads the spreadsheets on the
// goroutine pool.
func (h *Harness) LoadExcelFilesInParallelWithThreads(ctx context.Context) (Result, error) {
	return h.run(ctx, loadExcelFilesInParallelWithThreads)
}

func (h *Harness) run(ctx context.Context, r routine) (Result, error) {
	h.logger.InfoContext(ctx, "Start of loading the generated "+r.label)

	hist := hdrhistogram.New(1, maxFileLatency.Microseconds(), 3)

	var (
		combined *table.Table
		err      error
	)

	start := time.Now()

	switch {
	case r.mode == ModeSequential && r.combine == CombineAppend:
		combined, err = h.loadAppend(ctx, r, hist)
	case r.mode == ModeSequential:
		combined, err = h.loadConcat(ctx, r, hist)
	default:
		combined, err = h.loadParallel(ctx, r, hist)
	}

	elapsed := time.Since(start)

	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", r.name, err)
	}

	h.logger.InfoContext(ctx, fmt.Sprintf(
		"End of loading the generated %s : %v", r.label, elapsed.Seconds(),
	))

	rows, cols := combined.Dims()

	return Result{
		RunID:   h.runID,
		Routine: r.name,
		Format:  string(r.format),
		Mode:    r.mode,
		Combine: r.combine,
		Rows:    rows,
		Cols:    cols,
		Elapsed: elapsed,
		FileP50: time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		FileP99: time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		FileMax: time.Duration(hist.Max()) * time.Microsecond,
	}, nil
}

func (h *Harness) loadAppend(
	ctx context.Context,
	r routine,
	hist *hdrhistogram.Histogram,
) (*table.Table, error) {
	df, err := h.read(r.format, 0, hist)
	if err != nil {
		return nil, err
	}

	for i := 1; i < h.cfg.Files; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h.logger.DebugContext(ctx, fmt.Sprintf(
			"Loading %s dummy file %d", r.format.Label(), i,
		))

		frag, err := h.read(r.format, i, hist)
		if err != nil {
			return nil, err
		}

		// Append builds a new table and the result is dropped: df keeps
		// holding the first file only.
		df.Append(frag)
	}

	return df, nil
}

func (h *Harness) loadConcat(
	ctx context.Context,
	r routine,
	hist *hdrhistogram.Histogram,
) (*table.Table, error) {
	frags := make([]*table.Table, 0, h.cfg.Files)

	for i := 0; i < h.cfg.Files; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h.logger.DebugContext(ctx, fmt.Sprintf(
			"Loading %s dummy file %d", r.format.Label(), i,
		))

		frag, err := h.read(r.format, i, hist)
		if err != nil {
			return nil, err
		}

		frags = append(frags, frag)
	}

	return table.Concat(frags), nil
}

func (h *Harness) loadParallel(
	ctx context.Context,
	r routine,
	hist *hdrhistogram.Histogram,
) (*table.Table, error) {
	pool := h.threads
	if r.mode == ModeProcesses {
		pool = h.processes
	}

	tasks := make([]parallel.Task, h.cfg.Files)
	for i := range tasks {
		tasks[i] = parallel.Task{
			Format: r.format,
			Path:   table.FileName(h.cfg.InputDir, i, r.format),
		}
	}

	outcomes, err := pool.Map(ctx, tasks)
	if err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		record(hist, o.Elapsed)
	}

	return table.Concat(parallel.Tables(outcomes)), nil
}

func (h *Harness) read(
	format table.Format,
	i int,
	hist *hdrhistogram.Histogram,
) (*table.Table, error) {
	start := time.Now()

	t, err := table.ReadFile(format, table.FileName(h.cfg.InputDir, i, format))
	if err != nil {
		return nil, err
	}

	record(hist, time.Since(start))

	return t, nil
}

func record(hist *hdrhistogram.Histogram, d time.Duration) {
	_ = hist.RecordValue(min(d, maxFileLatency).Microseconds())
}
