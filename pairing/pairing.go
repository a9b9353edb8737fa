// Package pairing implements the greedy stereo-pair matching over an indexed
// image list: images are sorted by timestamp, and each unconsumed image is
// paired with the first later image that is both inside the time window and
// perceptually similar. The heuristic favors determinism and simplicity over
// optimal matching; stereo frames are captured seconds apart in short bursts,
// so the earliest-in-time eligible partner is almost always the right one.
package pairing

import (
	"context"
	"sort"
	"time"

	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/types"
)

// SimilarityOracle computes the perceptual hash distance between two image
// files. Failures (unreadable or corrupt images) are reported as errors and
// treated by the engine as "not similar".
type SimilarityOracle interface {
	Distance(path1, path2 string) (int, error)
}

// ProgressFunc receives progress updates as the engine advances. Percent is
// non-decreasing across calls within one run.
type ProgressFunc func(types.ProgressUpdate)

// Engine runs the pairing pass. Oracle is required; Control and Progress are
// optional. An Engine is not reusable across concurrent runs.
type Engine struct {
	Oracle   SimilarityOracle
	Control  *Control
	Progress ProgressFunc
}

// Run partitions records into pairs and singles. The input is not mutated.
//
// Cancellation via ctx stops the scan at the next checkpoint and returns the
// partial result built so far, with every not-yet-consumed image reported as
// a single, together with the context error. The partition invariant holds
// for partial results too.
func (e *Engine) Run(ctx context.Context, records []types.ImageRecord, thresholds types.Thresholds) (types.MatchingResult, error) {
	thresholds = thresholds.Normalize()

	sorted := make([]types.ImageRecord, len(records))
	copy(sorted, records)
	sortByTimestamp(sorted)

	n := len(sorted)
	used := make([]bool, n)
	var pairs []types.Pair

	start := time.Now()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return buildResult(sorted, used, pairs), ctx.Err()
		default:
		}

		if used[i] {
			continue
		}

		if sorted[i].HasTimestamp() {
			for j := i + 1; j < n; j++ {
				if used[j] {
					continue
				}
				// Unknown timestamps sort last; once one is reached, no later
				// candidate can satisfy the time window.
				if !sorted[j].HasTimestamp() {
					break
				}

				dt := sorted[j].Timestamp.Sub(sorted[i].Timestamp)
				if dt < 0 {
					dt = -dt
				}
				// Timestamps are non-decreasing in j, so the first candidate
				// past the window ends the scan for this i.
				if dt > thresholds.TimeDiff {
					break
				}

				distance, err := e.Oracle.Distance(sorted[i].Path, sorted[j].Path)
				if err != nil {
					logging.DebugLog("similarity check failed for %s vs %s: %v",
						sorted[i].Path, sorted[j].Path, err)
					continue
				}

				if distance < thresholds.HashDiff {
					pairs = append(pairs, types.Pair{A: sorted[i], B: sorted[j]})
					used[i] = true
					used[j] = true
					break
				}
			}
		}

		if e.Control != nil {
			if err := e.Control.wait(ctx); err != nil {
				return buildResult(sorted, used, pairs), err
			}
		}

		e.reportProgress(i, n, start)
	}

	return buildResult(sorted, used, pairs), nil
}

// sortByTimestamp orders records ascending by timestamp with unknown
// timestamps last. The sort is stable, so equal timestamps (and the unknown
// block) keep their input order and repeated runs stay deterministic.
func sortByTimestamp(records []types.ImageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case !a.HasTimestamp():
			return false
		case !b.HasTimestamp():
			return true
		default:
			return a.Timestamp.Before(b.Timestamp)
		}
	})
}

func buildResult(sorted []types.ImageRecord, used []bool, pairs []types.Pair) types.MatchingResult {
	result := types.MatchingResult{Pairs: pairs}
	for i, record := range sorted {
		if !used[i] {
			result.Singles = append(result.Singles, record)
		}
	}
	return result
}

func (e *Engine) reportProgress(i, n int, start time.Time) {
	if e.Progress == nil || n == 0 {
		return
	}

	percent := (i * 100) / n
	if percent > 100 {
		percent = 100
	}

	var paused time.Duration
	if e.Control != nil {
		paused = e.Control.PausedDuration()
	}
	elapsed := time.Since(start) - paused
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := time.Duration(-1)
	if percent > 0 {
		remaining = elapsed / time.Duration(percent) * time.Duration(100-percent)
	}

	e.Progress(types.ProgressUpdate{
		Percent:   percent,
		Elapsed:   elapsed,
		Remaining: remaining,
		Processed: percent * n / 100,
		Total:     n,
	})
}
