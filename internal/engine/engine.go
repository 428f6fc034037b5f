// Package engine runs metric operators over batches of files with a
// bounded worker pool.
package engine

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// FileResult holds everything harvested for one file. Values merges the
// metric maps of every operator that succeeded; Errors records the
// operators that did not, keyed by operator name.
type FileResult struct {
	Path   string
	Values map[string]any
	Errors map[string]error

	// Err is set when the file itself could not be read. Values and
	// Errors are empty in that case.
	Err error
}

// Analyze processes all paths in parallel using a worker pool of the
// given size. The unit of work is one file across all operators. The
// result map depends only on the inputs, never on scheduling; merging
// happens solely on the calling goroutine.
func Analyze(ctx context.Context, basePath string, paths []string, ops []operators.Operator, workers int) map[string]*FileResult {
	if workers < 1 {
		workers = 1
	}
	fileCh := make(chan string, len(paths))
	resultCh := make(chan *FileResult, len(paths))
	var wg sync.WaitGroup

	// Start worker pool
	for range workers {
		wg.Go(func() {
			for p := range fileCh {
				if err := ctx.Err(); err != nil {
					resultCh <- &FileResult{Path: p, Err: err}
					continue
				}
				resultCh <- analyzeFile(basePath, p, ops)
			}
		})
	}

	// Send files to worker channel
	for _, p := range paths {
		fileCh <- p
	}
	close(fileCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	results := make(map[string]*FileResult, len(paths))
	for r := range resultCh {
		results[r.Path] = r
	}
	return results
}

// analyzeFile computes all metrics for a single file. One operator
// failing never hides the values of the others.
func analyzeFile(basePath, path string, ops []operators.Operator) *FileResult {
	res := &FileResult{
		Path:   path,
		Values: make(map[string]any),
		Errors: make(map[string]error),
	}
	src, err := os.ReadFile(filepath.Join(basePath, path))
	if err != nil {
		res.Err = err
		return res
	}
	for _, op := range ops {
		values, err := harvest(op, path, src)
		if err != nil {
			res.Errors[op.Name()] = err
			continue
		}
		maps.Copy(res.Values, values)
	}
	return res
}

// harvest shields the pool from operator panics. A panicking operator
// is reported the same way as a parse failure.
func harvest(op operators.Operator, path string, src []byte) (values map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			values = nil
			err = &schema.ParseError{Path: path, Operator: op.Name()}
		}
	}()
	return op.Harvest(path, src)
}
