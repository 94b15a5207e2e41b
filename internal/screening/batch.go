package screening

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"location-dedup/internal/duplicate"
	"location-dedup/internal/models"
)

// ProgressCallback receives the number of screened candidates so far.
type ProgressCallback func(current, total int)

// Result pairs a candidate with the matches found for it.
type Result struct {
	Candidate models.Location
	Matches   []models.MatchCandidate
}

const progressEvery = 500

// ScreenAll runs the matcher for every candidate against the same existing set, one chunk per CPU.
// Results keep the candidate order. On cancellation the partially filled slice is returned with ctx.Err().
func ScreenAll(ctx context.Context, m *duplicate.Matcher, candidates, existing []models.Location, onProgress ProgressCallback) ([]Result, error) {
	total := len(candidates)
	results := make([]Result, total)
	if total == 0 {
		return results, nil
	}

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup
	var processed int64

	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()

			for idx := s; idx < e; idx++ {
				if ctx.Err() != nil {
					return
				}
				results[idx] = Result{
					Candidate: candidates[idx],
					Matches:   m.FindDuplicates(candidates[idx], existing),
				}

				count := atomic.AddInt64(&processed, 1)
				if onProgress != nil && count%progressEvery == 0 {
					onProgress(int(count), total)
				}
			}
		}(start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	if onProgress != nil {
		onProgress(total, total)
	}
	return results, nil
}
