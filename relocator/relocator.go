// Package relocator performs the file-system half of a sorting run: paired
// images move into a `_pairs` subfolder next to each file and unmatched
// images into `_singles`. Moves are best-effort and idempotent; a file that
// vanished between indexing and relocation is skipped, never fatal.
package relocator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/types"
)

// MoveStats reports what actually moved. A pair counts only when both of its
// members were moved successfully; planned-but-failed moves are not reported.
type MoveStats struct {
	PairsMoved   int
	SinglesMoved int
}

// Executor relocates one MatchingResult and remembers which output folders it
// created so cleanup can remove them again if they end up empty.
type Executor struct {
	created map[string]bool
}

// NewExecutor returns an Executor with no recorded folders.
func NewExecutor() *Executor {
	return &Executor{created: make(map[string]bool)}
}

// Relocate moves every pair member into its parent directory's `_pairs`
// subfolder and every single into `_singles`, skipping singles that already
// live in a `_singles` folder. Per-file failures are logged and skipped.
func (x *Executor) Relocate(result types.MatchingResult) MoveStats {
	var stats MoveStats

	for _, pair := range result.Pairs {
		movedA := x.moveInto(pair.A, types.PairsFolderName)
		movedB := x.moveInto(pair.B, types.PairsFolderName)
		if movedA && movedB {
			stats.PairsMoved++
		}
	}

	for _, single := range result.Singles {
		// Re-running on an already-sorted folder must not nest singles
		// another level down.
		if filepath.Base(single.ParentDir) == types.SinglesFolderName {
			continue
		}
		if x.moveInto(single, types.SinglesFolderName) {
			stats.SinglesMoved++
		}
	}

	return stats
}

// CleanupEmptyDirs removes output folders this executor created that ended up
// empty. Folders it did not create, or that contain files, are left alone.
func (x *Executor) CleanupEmptyDirs() {
	for dir := range x.created {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			logging.DebugLog("could not remove empty folder %s: %v", dir, err)
		}
	}
}

// moveInto moves one image into the named subfolder of its own parent
// directory and reports whether the move happened.
func (x *Executor) moveInto(record types.ImageRecord, subfolder string) bool {
	destDir := filepath.Join(record.ParentDir, subfolder)
	if err := x.ensureDir(destDir); err != nil {
		logging.LogError("cannot create %s: %v", destDir, err)
		return false
	}

	dest := filepath.Join(destDir, filepath.Base(record.Path))
	if err := os.Rename(record.Path, dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Removed externally since indexing; last writer wins.
			logging.DebugLog("source vanished before move: %s", record.Path)
		} else {
			logging.LogWarning("cannot move %s to %s: %v", record.Path, dest, err)
		}
		return false
	}
	return true
}

func (x *Executor) ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	x.created[dir] = true
	return nil
}
