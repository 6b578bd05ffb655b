package ext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	DefaultAmbassador = &ambassador{}
)

// Ambassador the ambassador to the outside "world". Wraps process lookup and
// environment access so the scanner adapter can be tested without touching
// the real PATH.
type Ambassador interface {
	Environ() []string
	LookPath(file string, searchPath []string) (string, error)
}

type ambassador struct {
}

func (a *ambassador) Environ() []string {
	return os.Environ()
}

// LookPath finds file in the given directories, in order. With an empty
// search path it defers to exec.LookPath and therefore to $PATH.
func (a *ambassador) LookPath(file string, searchPath []string) (string, error) {
	if len(searchPath) == 0 || strings.ContainsRune(file, filepath.Separator) {
		return exec.LookPath(file)
	}

	for _, dir := range searchPath {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(filepath.Join(dir, file)) {
			if err := executable(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func candidates(path string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(path) != "" {
		return []string{path}
	}
	exts := strings.Split(os.Getenv("PATHEXT"), string(os.PathListSeparator))
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext != "" {
			out = append(out, path+strings.ToLower(ext))
		}
	}
	return out
}

func executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, fs.ErrInvalid)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s: %w", path, fs.ErrPermission)
	}
	return nil
}

// IsNotFound reports whether err came from a failed program lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
