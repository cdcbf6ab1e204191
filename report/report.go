// Package report formats load benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/weiihann/loadbench/harness"
	"github.com/weiihann/loadbench/workload"
)

var (
	fastestColor = color.New(color.FgGreen, color.Bold)
	slowestColor = color.New(color.FgRed)
)

// Generate writes a markdown comparison table for the given results. The
// fastest routine is highlighted green and the slowest red when colour
// output is enabled.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest, slowest := findExtremes(results)

	// Header.
	fmt.Fprintln(w, "## Load Benchmark Results")
	fmt.Fprintln(w)

	if id := results[0].RunID; id != "" {
		fmt.Fprintf(w, "Run: %s\n", id)
		fmt.Fprintln(w)
	}

	// Table header.
	fmt.Fprintln(w, "| Routine | Format | Mode | Combine | Rows | Cols "+
		"| Elapsed | File p50 | File p99 | Relative |")
	fmt.Fprintln(w, "|---------|--------|------|---------|------|------"+
		"|---------|----------|----------|----------|")

	for i, r := range results {
		relative := 1.0
		if fastest >= 0 && results[fastest].Elapsed > 0 {
			relative = float64(r.Elapsed) / float64(results[fastest].Elapsed)
		}

		elapsed := formatDuration(r.Elapsed)

		switch {
		case len(results) > 1 && i == fastest:
			elapsed = fastestColor.Sprint(elapsed)
		case len(results) > 1 && i == slowest:
			elapsed = slowestColor.Sprint(elapsed)
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %d | %d | %s | %s | %s | %.2fx |\n",
			r.Routine,
			r.Format,
			r.Mode,
			r.Combine,
			r.Rows,
			r.Cols,
			elapsed,
			formatDuration(r.FileP50),
			formatDuration(r.FileP99),
			relative,
		)
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// WriteInputSummary describes the generated dummy files in one line.
func WriteInputSummary(w io.Writer, s workload.Summary) {
	fmt.Fprintf(w, "Input: %d files (%d tables of %dx%d), %s\n",
		s.FilesWritten, s.Files, s.Rows, s.Cols, formatBytes(uint64(s.Bytes)))
	fmt.Fprintln(w)
}

// findExtremes returns the indexes of the fastest and slowest results with
// a positive elapsed time, or -1 when there is none.
func findExtremes(results []harness.Result) (fastest, slowest int) {
	fastest, slowest = -1, -1

	for i, r := range results {
		if r.Elapsed <= 0 {
			continue
		}

		if fastest < 0 || r.Elapsed < results[fastest].Elapsed {
			fastest = i
		}
		if slowest < 0 || r.Elapsed > results[slowest].Elapsed {
			slowest = i
		}
	}

	return fastest, slowest
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
