package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"inside", filepath.Join(base, "nested", "file.txt"), "nested/file.txt"},
		{"base itself", base, "."},
		{"sibling falls back to absolute", filepath.Join(tmp, "other", "file.txt"), normalizePath(filepath.Join(tmp, "other", "file.txt"))},
		{"parent falls back to absolute", tmp, normalizePath(tmp)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RelativePath(tc.target, base)
			if err != nil {
				t.Fatalf("RelativePath: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	out, had := removeBOM([]byte("\xef\xbb\xbfx"))
	if !had || string(out) != "x" {
		t.Fatalf("got %q %v", out, had)
	}
	out, had = removeBOM([]byte("\xef\xbb"))
	if had || len(out) != 2 {
		t.Fatalf("short input: got %q %v", out, had)
	}
}

func TestFormatPathModes(t *testing.T) {
	f := &File{Path: "/srv/repo/pkg/a.txt"}
	for mode, want := range map[string]string{
		"relative": "pkg/a.txt",
		"basename": "a.txt",
		"auto":     "/srv/repo/pkg/a.txt",
		"":         "/srv/repo/pkg/a.txt",
	} {
		if got := f.FormatPath(mode, "/srv/repo"); got != want {
			t.Errorf("FormatPath(%q) = %q, want %q", mode, got, want)
		}
	}
}
