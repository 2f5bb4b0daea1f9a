package lexer

import "testing"

func TestSyntaxForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"dir/Script.PY", "python"},
		{"lib.rs", "rust"},
		{"a.c", "c"},
		{"q.sql", "sql"},
		{"run.sh", "hash"},
		{"cfg.yaml", "config"},
		{"README", "plain"},
		{"notes.md", "plain"},
	}
	for _, tt := range tests {
		if got := SyntaxForPath(tt.path).Name; got != tt.want {
			t.Errorf("SyntaxForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRegistryOverride(t *testing.T) {
	r := NewRegistry()
	custom := &Syntax{Name: "custom", Extensions: []string{"md", ".GO"}, LineComments: []string{"%"}}
	r.Register(custom)

	if got := r.ForPath("x.md"); got != custom {
		t.Fatalf("md resolved to %q", got.Name)
	}
	if got := r.ForPath("x.go"); got != custom {
		t.Fatalf("go resolved to %q", got.Name)
	}
	if got := SyntaxForPath("x.go").Name; got != "go" {
		t.Fatalf("default registry was modified: %q", got)
	}
	var nilReg *Registry
	if got := nilReg.ForPath("x.py").Name; got != "python" {
		t.Fatalf("nil registry = %q", got)
	}
}

func TestPresetsSortedAndNamed(t *testing.T) {
	ps := Presets()
	for i := 1; i < len(ps); i++ {
		if ps[i-1].Name >= ps[i].Name {
			t.Fatalf("presets not sorted: %q >= %q", ps[i-1].Name, ps[i].Name)
		}
	}
	if SyntaxByName("nope") != nil {
		t.Fatalf("unknown name resolved")
	}
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\v', '\f', '\u00a0', '\u2003', '\u3000'} {
		if !IsSpace(r) {
			t.Errorf("IsSpace(%U) = false", r)
		}
	}
	for _, r := range []rune{'\n', '\r', 'a', '\u200b', '\ufeff'} {
		if IsSpace(r) {
			t.Errorf("IsSpace(%U) = true", r)
		}
	}
}
