package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tiMaxal/pairs3d/imageprocessor"
	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/types"
)

// Timestamper supplies the comparable timestamp attached to each indexed
// image. The default is file modification time; an EXIF-based implementation
// can be substituted to pair on capture time instead.
type Timestamper interface {
	Timestamp(path string) (time.Time, error)
}

// ScanOptions defines the options for building the image index.
type ScanOptions struct {
	FolderPath     string
	Recursive      bool
	IncludeSingles bool

	// Timestamper overrides the modification-time source when non-nil.
	Timestamper Timestamper
}

// CollectImages enumerates candidate images under the root, grouped by the
// directory that physically contains each file. Traversal is read-only and
// prunes reserved output folders before descending into them. A missing or
// unreadable root is a terminal error.
func CollectImages(options ScanOptions) (map[string][]types.ImageRecord, error) {
	info, err := os.Stat(options.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access folder %s: %w", options.FolderPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", options.FolderPath)
	}

	if options.Recursive {
		return collectRecursive(options)
	}
	return collectFlat(options)
}

// Flatten merges the per-directory groups into one list. Order is directory
// path order then filename order, so repeated runs see the same input; the
// pairing engine re-sorts by timestamp anyway.
func Flatten(groups map[string][]types.ImageRecord) []types.ImageRecord {
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var records []types.ImageRecord
	for _, dir := range dirs {
		records = append(records, groups[dir]...)
	}
	return records
}

func collectFlat(options ScanOptions) (map[string][]types.ImageRecord, error) {
	entries, err := os.ReadDir(options.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", options.FolderPath, err)
	}

	groups := make(map[string][]types.ImageRecord)
	for _, entry := range entries {
		if entry.IsDir() || !imageprocessor.IsCandidateImage(entry.Name()) {
			continue
		}
		path := filepath.Join(options.FolderPath, entry.Name())
		groups[options.FolderPath] = append(groups[options.FolderPath], makeRecord(path, options))
	}
	return groups, nil
}

func collectRecursive(options ScanOptions) (map[string][]types.ImageRecord, error) {
	root := options.FolderPath
	groups := make(map[string][]types.ImageRecord)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("cannot traverse %s: %w", path, err)
		}

		if d.IsDir() {
			// Prune reserved output folders before their contents are visited.
			// The root itself is never pruned, whatever it is named.
			if path != root && isReservedFolder(d.Name(), options.IncludeSingles) {
				return filepath.SkipDir
			}
			return nil
		}

		if !imageprocessor.IsCandidateImage(d.Name()) {
			return nil
		}

		dir := filepath.Dir(path)
		groups[dir] = append(groups[dir], makeRecord(path, options))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func isReservedFolder(name string, includeSingles bool) bool {
	if name == types.PairsFolderName {
		return true
	}
	return name == types.SinglesFolderName && !includeSingles
}

// makeRecord attaches a timestamp to one candidate file. A file whose
// timestamp cannot be read is still indexed, with the unknown sentinel; the
// pairing engine guarantees it ends up a single.
func makeRecord(path string, options ScanOptions) types.ImageRecord {
	record := types.ImageRecord{
		Path:      path,
		ParentDir: filepath.Dir(path),
	}

	if options.Timestamper != nil {
		if ts, err := options.Timestamper.Timestamp(path); err == nil {
			record.Timestamp = ts
			return record
		}
		logging.DebugLog("timestamp source failed for %s, falling back to mtime", path)
	}

	if info, err := os.Stat(path); err == nil {
		record.Timestamp = info.ModTime()
	} else {
		logging.LogWarning("cannot read modification time for %s: %v", path, err)
	}
	return record
}
