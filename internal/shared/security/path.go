package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates the resolved path would leave the results root.
	ErrPathEscape = errors.New("path escapes base directory")
	// ErrNoBase is returned when ResolveWithin is given no root to resolve against.
	ErrNoBase = errors.New("base directory is required")
	// ErrUnsafeOutputPath rejects output files that traverse upward or name the filesystem root.
	ErrUnsafeOutputPath = errors.New("unsafe output path")
)

// ResolveWithin joins elems under base and returns the absolute result, or
// ErrPathEscape if the cleaned path would sit outside base. Absolute elements
// are treated as relative to base.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", ErrNoBase
	}

	root, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	target := filepath.Join(append([]string{root}, elems...)...)
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", fmt.Errorf("relativize path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}
	return target, nil
}

// CheckOutputPath vets a user-supplied file the CLI will write to, such as the
// metrics textfile.
func CheckOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrUnsafeOutputPath)
	}
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return fmt.Errorf("%w: %s traverses upward", ErrUnsafeOutputPath, path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeOutputPath, err)
	}
	if filepath.Dir(abs) == abs {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeOutputPath, path)
	}
	return nil
}
