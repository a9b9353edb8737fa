package types

import "time"

// ImageRecord holds an indexed candidate image. Created once at index time,
// immutable afterward. A zero Timestamp means the modification time could not
// be read; such images sort last and never satisfy a proximity match.
type ImageRecord struct {
	Path      string
	Timestamp time.Time
	ParentDir string
}

// HasTimestamp reports whether a usable timestamp was captured at index time.
func (r ImageRecord) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// Pair is two images judged to depict the same moment from two viewpoints.
type Pair struct {
	A ImageRecord
	B ImageRecord
}

// MatchingResult partitions the input set: every indexed image appears in
// exactly one Pair or in Singles, never both.
type MatchingResult struct {
	Pairs   []Pair
	Singles []ImageRecord
}

// Covered returns the number of images accounted for by the result.
func (m MatchingResult) Covered() int {
	return len(m.Pairs)*2 + len(m.Singles)
}

// Reserved output folder names. Files are relocated into these and traversal
// never descends into them (except `_singles` when re-processing is requested).
const (
	PairsFolderName   = "_pairs"
	SinglesFolderName = "_singles"
)

// Default thresholds, matching the values the tool shipped with.
const (
	DefaultTimeDiffThreshold = 2 * time.Second
	DefaultHashDiffThreshold = 10

	// MinTimeDiffThreshold is the floor invalid time inputs are coerced to.
	MinTimeDiffThreshold = 10 * time.Millisecond
)

// Thresholds configures one pairing run. Call Normalize before use.
type Thresholds struct {
	TimeDiff time.Duration
	HashDiff int
}

// DefaultThresholds returns the stock configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TimeDiff: DefaultTimeDiffThreshold,
		HashDiff: DefaultHashDiffThreshold,
	}
}

// Normalize coerces out-of-range values to their minimums rather than failing.
func (t Thresholds) Normalize() Thresholds {
	if t.TimeDiff < MinTimeDiffThreshold {
		t.TimeDiff = MinTimeDiffThreshold
	}
	if t.HashDiff < 1 {
		t.HashDiff = 1
	}
	return t
}

// ProgressUpdate is delivered to the progress callback as the pairing engine
// advances. Percent is always set and non-decreasing within a run; Remaining
// is negative while no estimate is available yet.
type ProgressUpdate struct {
	Percent   int
	Elapsed   time.Duration
	Remaining time.Duration
	Processed int
	Total     int
}

// RunSummary records the outcome of one completed sort run.
type RunSummary struct {
	ID           int64         `json:"id"`
	Folder       string        `json:"folder"`
	Recursive    bool          `json:"recursive"`
	TimeDiff     time.Duration `json:"time_diff"`
	HashDiff     int           `json:"hash_diff"`
	ImagesSeen   int           `json:"images_seen"`
	PairsMoved   int           `json:"pairs_moved"`
	SinglesMoved int           `json:"singles_moved"`
	Elapsed      time.Duration `json:"elapsed"`
	FinishedAt   time.Time     `json:"finished_at"`
}
