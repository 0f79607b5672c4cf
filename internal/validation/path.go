package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks file paths taken from flags and config before the
// database, index or log file is opened.
type PathValidator struct {
	// AllowedBaseDirs restricts paths to these directories. Empty allows all.
	AllowedBaseDirs []string
	MaxPathLength   int
}

// NewPathValidator restricts paths to the scriptorium data and config
// directories and the temp dir.
func NewPathValidator() *PathValidator {
	homeDir, _ := os.UserHomeDir()
	return &PathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".scriptorium"),
			filepath.Join(homeDir, ".config", "scriptorium"),
			os.TempDir(),
		},
		MaxPathLength: 4096,
	}
}

// NewPermissivePathValidator accepts any well-formed path.
func NewPermissivePathValidator() *PathValidator {
	return &PathValidator{MaxPathLength: 4096}
}

// Clean expands a leading ~/, makes path absolute and rejects control
// characters, traversal and paths outside the allowed directories.
func (v *PathValidator) Clean(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if v.MaxPathLength > 0 && len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	for _, r := range path {
		if r < 32 && r != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("unsupported tilde expansion in %q", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if err := v.within(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func (v *PathValidator) within(abs string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, base := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("path %s not within allowed directories %v", abs, v.AllowedBaseDirs)
}

// File validates a file path and creates its parent directory. An existing
// directory at path is an error.
func (v *PathValidator) File(path string) (string, error) {
	clean, err := v.Clean(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(clean); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", clean)
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}
	return clean, nil
}

// Dir validates a directory path. An existing file at path is an error.
func (v *PathValidator) Dir(path string) (string, error) {
	clean, err := v.Clean(path)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(clean); statErr == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", clean)
	}
	return clean, nil
}
