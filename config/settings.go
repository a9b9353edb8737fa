package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tiMaxal/pairs3d/logging"
)

// The last-used folder is remembered across sessions as a single line of
// plain text, so it stays hand-editable and trivially inspectable.
const settingsFileName = "settings.txt"

// SettingsPath returns the location of the remembered-folder file.
func SettingsPath() string {
	return filepath.Join(executableDir(), settingsFileName)
}

// LoadLastFolder returns the remembered folder, or "" when nothing usable is
// stored. A remembered path that no longer exists as a directory is ignored.
func LoadLastFolder() string {
	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		return ""
	}

	folder := strings.TrimSpace(string(data))
	if folder == "" {
		return ""
	}
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		return ""
	}
	return folder
}

// SaveLastFolder persists the folder for the next session. Failures are
// logged and ignored; remembering the folder is a convenience, not a
// requirement.
func SaveLastFolder(folder string) {
	if err := os.WriteFile(SettingsPath(), []byte(folder), 0o644); err != nil {
		logging.LogWarning("cannot save last-used folder: %v", err)
	}
}
