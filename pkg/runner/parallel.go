package runner

import (
	"context"
	"sync"

	"digital.vasic.softassert/pkg/checkfile"
)

// runParallel evaluates files concurrently with a semaphore
// limiting maxConcurrency goroutines. Results are returned in
// the same order as the input files.
func runParallel(
	ctx context.Context,
	r *Runner,
	files []checkfile.File,
	maxConcurrency int,
) ([]Result, error) {
	sem := make(chan struct{}, maxConcurrency)
	results := make([]Result, len(files))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	skip := func(idx int, f checkfile.File) {
		results[idx] = skipped(f)
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = ctx.Err()
		}
	}

	for i, f := range files {
		wg.Add(1)
		go func(idx int, f checkfile.File) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				skip(idx, f)
				return
			}

			if ctx.Err() != nil {
				skip(idx, f)
				return
			}
			results[idx] = r.runFile(f)
		}(i, f)
	}

	wg.Wait()
	return results, firstErr
}
