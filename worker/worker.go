// Package worker loads table files in separate processes. The parent sends
// a JSON request on the child's stdin; the child answers with the table in
// the binary encoding on stdout.
package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/weiihann/loadbench/table"
)

const (
	// Command is the CLI subcommand serving one request.
	Command = "worker"
	// EnvWorker marks a process started as a worker.
	EnvWorker = "LOADBENCH_WORKER"
)

// Request names the file a worker should load.
type Request struct {
	Format table.Format `json:"format"`
	Path   string       `json:"path"`
}

// IsWorker reports whether this process was started as a worker.
func IsWorker() bool {
	return os.Getenv(EnvWorker) == "1"
}

// Serve handles a single request read from r, writing the table to w.
func Serve(r io.Reader, w io.Writer) error {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	t, err := table.ReadFile(req.Format, req.Path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := table.Encode(bw, t); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}

	return bw.Flush()
}

// Main serves one request on stdin/stdout and exits. Test binaries call it
// from TestMain when IsWorker reports true.
func Main() {
	if err := Serve(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}
