package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetResultsDirUsesXDGDataHome(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_DATA_HOME only applies on Linux/Unix")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	resultsDir, err := getResultsDir()
	if err != nil {
		t.Fatalf("getResultsDir() failed: %v", err)
	}

	want := filepath.Join(xdg, appDirName, "results")
	if resultsDir != want {
		t.Errorf("getResultsDir() = %s, want %s", resultsDir, want)
	}
	if info, err := os.Stat(resultsDir); err != nil || !info.IsDir() {
		t.Errorf("results directory was not created: %v", err)
	}
}

func TestGetDataDirContainsAppName(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	dataDir, err := getDataDir()
	if err != nil {
		t.Fatalf("getDataDir() failed: %v", err)
	}
	if !strings.Contains(dataDir, appDirName) {
		t.Errorf("expected data directory to contain %q, got %s", appDirName, dataDir)
	}
}
