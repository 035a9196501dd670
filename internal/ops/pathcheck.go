package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/roster/internal/errors"
)

// extFormats maps export file extensions to formats.
var extFormats = map[string]string{
	".jsonl": FormatJSONL,
	".json":  FormatJSON,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
}

// ValidateExportPath checks an export destination and returns the format to write.
// It checks:
// 1. Path traversal (.. sequences)
// 2. Extension (.jsonl, .json, .yaml or .yml), which must agree with format when given
// 3. Symlink safety (neither the parent directory nor the file may be a symlink)
// 4. The destination does not exist yet
func ValidateExportPath(path, format string) (string, error) {
	if path == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return "", errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleaned))
	inferred, ok := extFormats[ext]
	if !ok {
		return "", errors.NewInvalidRequest("path must have a .jsonl, .json, .yaml or .yml extension")
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" && format != inferred {
		return "", errors.NewInvalidRequest(fmt.Sprintf("format %q does not match extension %q", format, ext))
	}

	if info, err := os.Lstat(filepath.Dir(cleaned)); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("parent directory must not be a symlink")
	}
	if info, err := os.Lstat(cleaned); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return "", errors.NewInvalidRequest("path must not be a symlink")
		}
		return "", errors.NewFileExists(path)
	}

	return inferred, nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Forward slashes are accepted on every platform.
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// DefaultExportPath returns ~/.roster/exports/roster-<timestamp>.<ext> for format.
func DefaultExportPath(format string, stamp string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	if format == "" {
		format = FormatJSONL
	}
	return filepath.Join(homeDir, ".roster", "exports", "roster-"+stamp+"."+format), nil
}
