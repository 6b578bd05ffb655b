package testutil

import (
	"io"
	"net/http"
	"testing"
)

func TestNewTestEnvCreatesResultsDir(t *testing.T) {
	env := NewTestEnv(t)
	defer env.Cleanup()

	if !env.FileExists("results") {
		t.Fatalf("expected results directory under %s", env.TmpDir)
	}
}

func TestCreateAndReadFile(t *testing.T) {
	env := NewTestEnv(t)
	defer env.Cleanup()

	env.CreateFile("nested/file.txt", []byte("hello"))
	env.MustExist("nested/file.txt")

	if got := string(env.ReadFile("nested/file.txt")); got != "hello" {
		t.Fatalf("ReadFile = %q, want %q", got, "hello")
	}
}

func TestCleanupRunsInReverseOrder(t *testing.T) {
	env := NewTestEnv(t)

	var order []int
	env.AddCleanup(func() { order = append(order, 1) })
	env.AddCleanup(func() { order = append(order, 2) })
	env.Cleanup()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected cleanup order: %v", order)
	}
}

func TestCookieServerSendsHeaders(t *testing.T) {
	srv := NewCookieServer(t, "a=1; secure", "b=2; HttpOnly")

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if got := resp.Header.Values("Set-Cookie"); len(got) != 2 {
		t.Fatalf("expected 2 Set-Cookie headers, got %v", got)
	}
	if srv.Hits() != 1 {
		t.Fatalf("expected 1 hit, got %d", srv.Hits())
	}
}

func TestCookieServerWithoutValues(t *testing.T) {
	srv := NewCookieServer(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if _, ok := resp.Header["Set-Cookie"]; ok {
		t.Fatalf("expected no Set-Cookie header")
	}
}
