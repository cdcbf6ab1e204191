// Package workload generates the dummy input files for the load benchmarks.
// Each file index gets one matrix of uniform [0,1) values, written once per
// table format so that all encodings of an index hold the same numbers.
package workload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/weiihann/loadbench/table"
)

// Summary contains statistics about the generated files.
type Summary struct {
	Files        int
	FilesWritten int
	Rows         int
	Cols         int
	Bytes        int64
}

// Config controls dummy file generation.
type Config struct {
	Dir   string
	Files int
	Rows  int
	Cols  int
	Seed  int64
}

// Generator produces dummy tables from a Config.
type Generator struct {
	cfg  Config
	dist distuv.Uniform
}

// NewGenerator creates a Generator from the given Config. A zero seed
// draws from the current time.
func NewGenerator(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg: cfg,
		dist: distuv.Uniform{
			Min: 0,
			Max: 1,
			Src: rand.NewSource(uint64(seed)),
		},
	}
}

// Matrix draws the next Rows x Cols table of values.
func (g *Generator) Matrix() *mat.Dense {
	data := make([]float64, g.cfg.Rows*g.cfg.Cols)
	for i := range data {
		data[i] = g.dist.Rand()
	}

	return mat.NewDense(g.cfg.Rows, g.cfg.Cols, data)
}

// Generate writes Files dummy tables to Dir, each in every table format,
// replacing existing files. The directory must already exist.
func (g *Generator) Generate(ctx context.Context, logger *slog.Logger) (Summary, error) {
	summary := Summary{
		Files: g.cfg.Files,
		Rows:  g.cfg.Rows,
		Cols:  g.cfg.Cols,
	}

	for i := 0; i < g.cfg.Files; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		tbl := table.FromDense(g.Matrix())

		for _, format := range table.Formats() {
			logger.DebugContext(ctx, fmt.Sprintf(
				"Initializing %s dummy file %d", format.Label(), i,
			))

			path := table.FileName(g.cfg.Dir, i, format)
			if err := table.WriteFile(format, path, tbl); err != nil {
				return summary, fmt.Errorf("generate file %d: %w", i, err)
			}

			info, err := os.Stat(path)
			if err != nil {
				return summary, fmt.Errorf("stat %s: %w", path, err)
			}

			summary.FilesWritten++
			summary.Bytes += info.Size()
		}
	}

	return summary, nil
}
