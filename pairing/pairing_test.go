package pairing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiMaxal/pairs3d/types"
)

var baseTime = time.Date(2025, 6, 24, 12, 0, 0, 0, time.UTC)

func rec(path string, offset time.Duration) types.ImageRecord {
	return types.ImageRecord{
		Path:      path,
		Timestamp: baseTime.Add(offset),
		ParentDir: "/photos",
	}
}

func recNoTime(path string) types.ImageRecord {
	return types.ImageRecord{Path: path, ParentDir: "/photos"}
}

// stubOracle returns canned distances keyed on unordered path pairs. Unknown
// pairs are maximally distant; listed failures return an error.
type stubOracle struct {
	distances map[string]int
	failures  map[string]bool
	calls     int
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func (o *stubOracle) Distance(path1, path2 string) (int, error) {
	o.calls++
	key := pairKey(path1, path2)
	if o.failures[key] {
		return 0, fmt.Errorf("decode failed")
	}
	if d, ok := o.distances[key]; ok {
		return d, nil
	}
	return 64, nil
}

func similar(pairs ...[2]string) *stubOracle {
	o := &stubOracle{distances: map[string]int{}, failures: map[string]bool{}}
	for _, p := range pairs {
		o.distances[pairKey(p[0], p[1])] = 3
	}
	return o
}

func pairPaths(p types.Pair) [2]string {
	return [2]string{p.A.Path, p.B.Path}
}

func singlePaths(result types.MatchingResult) []string {
	paths := make([]string, 0, len(result.Singles))
	for _, s := range result.Singles {
		paths = append(paths, s.Path)
	}
	return paths
}

func run(t *testing.T, oracle SimilarityOracle, thresholds types.Thresholds, records ...types.ImageRecord) types.MatchingResult {
	t.Helper()
	engine := Engine{Oracle: oracle}
	result, err := engine.Run(context.Background(), records, thresholds)
	require.NoError(t, err)
	return result
}

func TestRunPairsCloseSimilarImages(t *testing.T) {
	oracle := similar([2]string{"A", "B"})
	result := run(t, oracle, types.DefaultThresholds(),
		rec("A", 0),
		rec("B", 1*time.Second),
		rec("C", 1500*time.Millisecond),
		rec("D", 100*time.Second),
	)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, [2]string{"A", "B"}, pairPaths(result.Pairs[0]))
	assert.ElementsMatch(t, []string{"C", "D"}, singlePaths(result))
}

func TestRunHashDistanceIsStrictlyLessThan(t *testing.T) {
	oracle := &stubOracle{
		distances: map[string]int{pairKey("A", "B"): 10},
		failures:  map[string]bool{},
	}
	result := run(t, oracle, types.Thresholds{TimeDiff: 2 * time.Second, HashDiff: 10},
		rec("A", 0),
		rec("B", 1900*time.Millisecond),
	)

	assert.Empty(t, result.Pairs)
	assert.ElementsMatch(t, []string{"A", "B"}, singlePaths(result))
}

func TestRunThreeEligibleFormExactlyOnePair(t *testing.T) {
	oracle := similar(
		[2]string{"A", "B"},
		[2]string{"A", "C"},
		[2]string{"B", "C"},
	)
	result := run(t, oracle, types.DefaultThresholds(),
		rec("A", 0),
		rec("B", 500*time.Millisecond),
		rec("C", 1*time.Second),
	)

	require.Len(t, result.Pairs, 1)
	// Earliest image pairs with the next eligible one scanning forward.
	assert.Equal(t, [2]string{"A", "B"}, pairPaths(result.Pairs[0]))
	assert.Equal(t, []string{"C"}, singlePaths(result))
}

func TestRunPartitionInvariant(t *testing.T) {
	oracle := similar(
		[2]string{"A", "B"},
		[2]string{"C", "D"},
	)
	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
		rec("C", 10*time.Second),
		rec("D", 11*time.Second),
		rec("E", 30*time.Second),
		recNoTime("F"),
	}
	result := run(t, oracle, types.DefaultThresholds(), records...)

	assert.Equal(t, len(records), result.Covered())

	seen := map[string]int{}
	for _, p := range result.Pairs {
		seen[p.A.Path]++
		seen[p.B.Path]++
		assert.NotEqual(t, p.A.Path, p.B.Path)
	}
	for _, s := range result.Singles {
		seen[s.Path]++
	}
	for _, r := range records {
		assert.Equal(t, 1, seen[r.Path], "image %s must appear exactly once", r.Path)
	}
}

func TestRunUnknownTimestampAlwaysSingle(t *testing.T) {
	// Perceptually identical to A, but without a readable timestamp.
	oracle := similar([2]string{"A", "X"})
	result := run(t, oracle, types.DefaultThresholds(),
		rec("A", 0),
		recNoTime("X"),
	)

	assert.Empty(t, result.Pairs)
	assert.ElementsMatch(t, []string{"A", "X"}, singlePaths(result))
}

func TestRunOracleFailureTreatedAsDissimilar(t *testing.T) {
	oracle := similar([2]string{"A", "C"})
	oracle.failures[pairKey("A", "B")] = true

	result := run(t, oracle, types.DefaultThresholds(),
		rec("A", 0),
		rec("B", 500*time.Millisecond),
		rec("C", 1*time.Second),
	)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, [2]string{"A", "C"}, pairPaths(result.Pairs[0]))
	assert.Equal(t, []string{"B"}, singlePaths(result))
}

func TestRunDeterministic(t *testing.T) {
	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
		rec("C", 1*time.Second), // tied timestamp
		rec("D", 90*time.Second),
		recNoTime("E"),
	}
	oracle1 := similar([2]string{"A", "B"}, [2]string{"A", "C"})
	oracle2 := similar([2]string{"A", "B"}, [2]string{"A", "C"})

	first, err := (&Engine{Oracle: oracle1}).Run(context.Background(), records, types.DefaultThresholds())
	require.NoError(t, err)
	second, err := (&Engine{Oracle: oracle2}).Run(context.Background(), records, types.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunHashThresholdMonotonicity(t *testing.T) {
	oracle := func() *stubOracle {
		return &stubOracle{
			distances: map[string]int{
				pairKey("A", "B"): 4,
				pairKey("C", "D"): 12,
			},
			failures: map[string]bool{},
		}
	}
	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
		rec("C", 10*time.Second),
		rec("D", 11*time.Second),
	}

	previous := 0
	for _, hashDiff := range []int{1, 5, 13, 64} {
		result, err := (&Engine{Oracle: oracle()}).Run(context.Background(), records,
			types.Thresholds{TimeDiff: 2 * time.Second, HashDiff: hashDiff})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(result.Pairs), previous,
			"raising hash threshold to %d must not lose pairs", hashDiff)
		previous = len(result.Pairs)
	}
}

func TestRunTimeThresholdMonotonicity(t *testing.T) {
	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 5*time.Second),
	}

	previous := 0
	for _, timeDiff := range []time.Duration{time.Second, 4 * time.Second, 6 * time.Second} {
		result, err := (&Engine{Oracle: similar([2]string{"A", "B"})}).Run(context.Background(), records,
			types.Thresholds{TimeDiff: timeDiff, HashDiff: 10})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(result.Pairs), previous)
		previous = len(result.Pairs)
	}
}

func TestRunProgressNonDecreasing(t *testing.T) {
	var updates []types.ProgressUpdate
	engine := Engine{
		Oracle: similar([2]string{"A", "B"}),
		Progress: func(u types.ProgressUpdate) {
			updates = append(updates, u)
		},
	}

	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
		rec("C", 10*time.Second),
		rec("D", 20*time.Second),
	}
	_, err := engine.Run(context.Background(), records, types.DefaultThresholds())
	require.NoError(t, err)

	require.NotEmpty(t, updates)
	last := -1
	for _, u := range updates {
		assert.GreaterOrEqual(t, u.Percent, 0)
		assert.LessOrEqual(t, u.Percent, 100)
		assert.GreaterOrEqual(t, u.Percent, last)
		assert.Equal(t, len(records), u.Total)
		last = u.Percent
	}
}

func TestRunCancelledReturnsPartialPartition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
	}
	engine := Engine{Oracle: similar([2]string{"A", "B"})}
	result, err := engine.Run(ctx, records, types.DefaultThresholds())

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, len(records), result.Covered(), "partial result must still partition the input")
}

func TestRunPauseBlocksUntilResumed(t *testing.T) {
	control := NewControl()
	control.Pause()

	engine := Engine{Oracle: similar([2]string{"A", "B"}), Control: control}
	records := []types.ImageRecord{
		rec("A", 0),
		rec("B", 1*time.Second),
	}

	done := make(chan types.MatchingResult, 1)
	go func() {
		result, err := engine.Run(context.Background(), records, types.DefaultThresholds())
		require.NoError(t, err)
		done <- result
	}()

	select {
	case <-done:
		t.Fatal("engine finished while paused")
	case <-time.After(250 * time.Millisecond):
	}

	control.Resume()
	select {
	case result := <-done:
		assert.Len(t, result.Pairs, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not resume")
	}
}

func TestControlAccumulatesPausedTime(t *testing.T) {
	control := NewControl()
	assert.False(t, control.Paused())

	control.Pause()
	assert.True(t, control.Paused())
	time.Sleep(50 * time.Millisecond)
	control.Resume()

	assert.False(t, control.Paused())
	assert.GreaterOrEqual(t, control.PausedDuration(), 50*time.Millisecond)

	// Toggle flips both ways.
	assert.True(t, control.Toggle())
	assert.False(t, control.Toggle())
}

func TestRunEmptyInput(t *testing.T) {
	result := run(t, similar(), types.DefaultThresholds())
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.Singles)
}
