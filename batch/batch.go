package batch

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/Redwindmh/png2jpgConverter/converter"
)

// Progress is a snapshot of how far through a batch the driver is. It
// is emitted after each file completes; there is no per-byte progress.
type Progress struct {
	Processed   int    `json:"processed"`
	Total       int    `json:"total"`
	CurrentFile string `json:"currentFile"`
}

// ProgressFunc receives progress updates from a running batch. A nil
// ProgressFunc is allowed and ignored.
type ProgressFunc func(Progress)

// Run converts every request in order and returns one result per
// request, in request order. A failing file produces a Failed result
// but never stops the batch; partial success is a normal outcome. The
// caller is responsible for summarising successes and failures.
func Run(requests []converter.Request, onProgress ProgressFunc) []converter.Result {
	results := make([]converter.Result, 0, len(requests))
	for i, req := range requests {
		results = append(results, converter.Convert(req))
		if onProgress != nil {
			onProgress(Progress{
				Processed:   i + 1,
				Total:       len(requests),
				CurrentFile: filepath.Base(req.SourcePath),
			})
		}
	}
	return results
}

// RunParallel converts requests on a fixed pool of workers. Results
// come back in request order regardless of completion order, and the
// processed count only ever goes up, though progress callbacks may
// name files out of request order. workers below 1 falls back to the
// sequential Run. Requests share no mutable state, so no coordination
// beyond the counter is needed.
func RunParallel(requests []converter.Request, workers int, onProgress ProgressFunc) []converter.Result {
	if workers <= 1 || len(requests) <= 1 {
		return Run(requests, onProgress)
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	results := make([]converter.Result, len(requests))
	indexes := make(chan int, len(requests))
	var processed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = converter.Convert(requests[i])
				done := int(processed.Add(1))
				if onProgress != nil {
					onProgress(Progress{
						Processed:   done,
						Total:       len(requests),
						CurrentFile: filepath.Base(requests[i].SourcePath),
					})
				}
			}
		}()
	}

	for i := range requests {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// Summary condenses a result slice into the counts the UI reports.
func Summary(results []converter.Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Success() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
