package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiMaxal/pairs3d/types"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

func TestRecordAndRecentRuns(t *testing.T) {
	db, err := InitDatabase(openTestDB(t))
	require.NoError(t, err)
	defer db.Close()

	run := types.RunSummary{
		Folder:       "/photos/holiday",
		Recursive:    true,
		TimeDiff:     2 * time.Second,
		HashDiff:     10,
		ImagesSeen:   42,
		PairsMoved:   15,
		SinglesMoved: 12,
		Elapsed:      90 * time.Second,
		FinishedAt:   time.Date(2025, 6, 24, 18, 0, 0, 0, time.UTC),
	}
	require.NoError(t, RecordRun(db, run))

	runs, err := RecentRuns(db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.Folder, got.Folder)
	assert.True(t, got.Recursive)
	assert.Equal(t, run.TimeDiff, got.TimeDiff)
	assert.Equal(t, run.HashDiff, got.HashDiff)
	assert.Equal(t, run.ImagesSeen, got.ImagesSeen)
	assert.Equal(t, run.PairsMoved, got.PairsMoved)
	assert.Equal(t, run.SinglesMoved, got.SinglesMoved)
	assert.Equal(t, run.Elapsed, got.Elapsed)
	assert.True(t, got.FinishedAt.Equal(run.FinishedAt))
	assert.NotZero(t, got.ID)
}

func TestRecentRunsNewestFirstWithLimit(t *testing.T) {
	db, err := InitDatabase(openTestDB(t))
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, RecordRun(db, types.RunSummary{
			Folder:     "/photos",
			PairsMoved: i,
			FinishedAt: time.Now(),
		}))
	}

	runs, err := RecentRuns(db, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 4, runs[0].PairsMoved, "newest run comes first")
	assert.Equal(t, 2, runs[2].PairsMoved)
}

func TestInitDatabaseIsIdempotent(t *testing.T) {
	path := openTestDB(t)

	db1, err := InitDatabase(path)
	require.NoError(t, err)
	require.NoError(t, RecordRun(db1, types.RunSummary{Folder: "/a", FinishedAt: time.Now()}))
	db1.Close()

	db2, err := InitDatabase(path)
	require.NoError(t, err)
	defer db2.Close()

	runs, err := RecentRuns(db2, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "reopening must not clobber existing history")
}
