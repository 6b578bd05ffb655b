package ext

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, dir, name string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), perm))
	return path
}

func TestLookPath_SearchPathOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bits are not used on windows")
	}
	first, second := t.TempDir(), t.TempDir()
	writeProgram(t, first, "scanner", 0o644) // not executable
	want := writeProgram(t, second, "scanner", 0o755)

	got, err := DefaultAmbassador.LookPath("scanner", []string{"", first, second})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLookPath_NotFound(t *testing.T) {
	_, err := DefaultAmbassador.LookPath("definitely_not_a_scanner", []string{t.TempDir()})
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestLookPath_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scanner"), 0o755))

	_, err := DefaultAmbassador.LookPath("scanner", []string{dir})
	require.True(t, IsNotFound(err))
}

func TestLookPath_FallsBackToPATH(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bits are not used on windows")
	}
	dir := t.TempDir()
	want := writeProgram(t, dir, "path_scanner", 0o755)
	t.Setenv("PATH", dir)

	got, err := DefaultAmbassador.LookPath("path_scanner", nil)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEnviron(t *testing.T) {
	t.Setenv("SECA_SETCOOKIE_AMBASSADOR_TEST", "1")
	require.Contains(t, DefaultAmbassador.Environ(), "SECA_SETCOOKIE_AMBASSADOR_TEST=1")
}
