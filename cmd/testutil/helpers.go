package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
	"github.com/khanhnv2901/seca-setcookie/internal/shared/security"
)

// TestEnv holds test environment configuration and cleanup functions.
type TestEnv struct {
	TmpDir       string
	ResultsDir   string
	cleanupFuncs []func()
	t            *testing.T
}

// NewTestEnv creates a new test environment with automatic cleanup.
// Usage:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir() // Automatically cleaned up by Go test framework

	env := &TestEnv{
		TmpDir:       tmpDir,
		ResultsDir:   filepath.Join(tmpDir, "results"),
		t:            t,
		cleanupFuncs: []func(){},
	}

	if err := os.MkdirAll(env.ResultsDir, consts.DefaultDirPerm); err != nil {
		t.Fatalf("Failed to create test results directory: %v", err)
	}

	return env
}

// AddCleanup adds a cleanup function to be called when Cleanup() is called.
// Cleanup functions are called in reverse order (LIFO).
func (e *TestEnv) AddCleanup(fn func()) {
	e.cleanupFuncs = append([]func(){fn}, e.cleanupFuncs...)
}

// Cleanup runs all registered cleanup functions.
// Typically called with defer: defer env.Cleanup()
func (e *TestEnv) Cleanup() {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
}

// CreateFile creates a file in the test environment with the given content.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) CreateFile(relativePath string, content []byte) string {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, consts.DefaultFilePerm); err != nil {
		e.t.Fatalf("Failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// ReadFile reads a file from the test environment.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) ReadFile(relativePath string) []byte {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}

	return content
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(relativePath string) bool {
	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MustExist fails the test if the file does not exist.
func (e *TestEnv) MustExist(relativePath string) {
	e.t.Helper()
	if !e.FileExists(relativePath) {
		e.t.Fatalf("File %s should exist but does not", relativePath)
	}
}

func resolveTmpPath(baseDir, relativePath string, t *testing.T) string {
	t.Helper()
	path, err := security.ResolveWithin(baseDir, relativePath)
	if err != nil {
		t.Fatalf("invalid test path %s: %v", relativePath, err)
	}
	return path
}

// CookieServer is an httptest server that answers every request with the
// configured Set-Cookie values.
type CookieServer struct {
	*httptest.Server
	hits atomic.Int64
}

// NewCookieServer starts a server sending one Set-Cookie header per value.
// With no values the response carries no Set-Cookie header at all.
func NewCookieServer(t *testing.T, values ...string) *CookieServer {
	t.Helper()

	s := &CookieServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		for _, v := range values {
			w.Header().Add("Set-Cookie", v)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	t.Cleanup(s.Close)
	return s
}

// Hits returns how many requests the server has answered.
func (s *CookieServer) Hits() int64 {
	return s.hits.Load()
}

// UnreachableURL returns a URL nothing is listening on.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
