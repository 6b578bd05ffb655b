package security

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveWithin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name  string
		elems []string
		want  string
	}{
		{name: "nested file", elems: []string{"batch", "setcookie_results.json"}, want: filepath.Join(base, "batch", "setcookie_results.json")},
		{name: "no elements", want: base},
		{name: "dot", elems: []string{"."}, want: base},
		{name: "safe dot-dot in middle", elems: []string{"a", "b", "..", "c"}, want: filepath.Join(base, "a", "c")},
		{name: "absolute element stays inside", elems: []string{"/etc/passwd"}, want: filepath.Join(base, "etc", "passwd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWithin(base, tt.elems...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveWithin = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveWithinRejectsEscape(t *testing.T) {
	base := t.TempDir()

	for _, elems := range [][]string{
		{".."},
		{"..", "outside"},
		{"a", "..", "..", "etc"},
		{"batch/../../../etc/passwd"},
	} {
		if _, err := ResolveWithin(base, elems...); !errors.Is(err, ErrPathEscape) {
			t.Errorf("%v: expected ErrPathEscape, got %v", elems, err)
		}
	}
}

func TestResolveWithinEmptyBase(t *testing.T) {
	if _, err := ResolveWithin("", "file.txt"); !errors.Is(err, ErrNoBase) {
		t.Fatalf("expected ErrNoBase, got %v", err)
	}
}

func TestCheckOutputPath(t *testing.T) {
	valid := []string{
		filepath.Join(t.TempDir(), "setcookie.prom"),
		"metrics/setcookie.prom",
		"file..name.prom",
	}
	for _, p := range valid {
		if err := CheckOutputPath(p); err != nil {
			t.Errorf("%s: unexpected error: %v", p, err)
		}
	}

	invalid := []string{"", "  ", "../setcookie.prom", "metrics/../../x.prom", "/"}
	for _, p := range invalid {
		if err := CheckOutputPath(p); !errors.Is(err, ErrUnsafeOutputPath) {
			t.Errorf("%q: expected ErrUnsafeOutputPath, got %v", p, err)
		}
	}
}
