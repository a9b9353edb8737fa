package relocator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tiMaxal/pairs3d/logging"
	"github.com/tiMaxal/pairs3d/types"
)

// ExportPrefix names the duplicate tree created next to the exported folder.
const ExportPrefix = "x2"

// ExportPairsTree duplicates the folder tree under root into a sibling folder
// named "x2<base>", moving across only the contents of `_pairs` subfolders and
// preserving their relative paths. `_singles` subtrees are ignored, and each
// `_pairs` folder this drains completely is removed. Returns the number of
// files moved.
func ExportPairsTree(root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("cannot access folder %s: %w", root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", root)
	}

	dstRoot := filepath.Join(filepath.Dir(root), ExportPrefix+filepath.Base(root))
	if _, err := os.Stat(dstRoot); err == nil {
		return 0, fmt.Errorf("destination already exists: %s", dstRoot)
	}
	if err := os.MkdirAll(dstRoot, 0o755); err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", dstRoot, err)
	}

	moved := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("cannot traverse %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == types.SinglesFolderName {
			return filepath.SkipDir
		}
		if d.Name() != types.PairsFolderName || path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		destDir := filepath.Join(dstRoot, rel)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", destDir, err)
		}

		n, err := movePairFiles(path, destDir)
		moved += n
		if err != nil {
			return err
		}

		removeIfEmpty(path)
		return filepath.SkipDir
	})
	if err != nil {
		return moved, err
	}
	return moved, nil
}

// movePairFiles moves the files directly inside one `_pairs` folder.
func movePairFiles(srcDir, destDir string) (int, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("cannot read %s: %w", srcDir, err)
	}

	moved := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(destDir, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			logging.LogWarning("cannot move %s to %s: %v", src, dst, err)
			continue
		}
		moved++
	}
	return moved, nil
}

func removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		logging.DebugLog("could not remove emptied folder %s: %v", dir, err)
	}
}
