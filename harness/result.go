// Package harness times the dummy file load routines. A process shares one
// Harness, which owns the benchmark log.
package harness

import "time"

// Execution modes of a routine.
const (
	ModeSequential = "sequential"
	ModeProcesses  = "processes"
	ModeThreads    = "threads"
)

// Ways a routine combines its fragments.
const (
	CombineAppend = "append"
	CombineConcat = "concat"
)

// Result holds the outcome of one load routine.
type Result struct {
	RunID   string        `json:"run_id"`
	Routine string        `json:"routine"`
	Format  string        `json:"format"`
	Mode    string        `json:"mode"`
	Combine string        `json:"combine"`
	Rows    int           `json:"rows"`
	Cols    int           `json:"cols"`
	Elapsed time.Duration `json:"elapsed_ns"`
	FileP50 time.Duration `json:"file_p50_ns"`
	FileP99 time.Duration `json:"file_p99_ns"`
	FileMax time.Duration `json:"file_max_ns"`
}
