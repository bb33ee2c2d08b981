package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ace")
	b := filepath.Join(dir, "b.ace")
	_ = os.WriteFile(a, []byte("AS 0 0\n"), 0o644)
	_ = os.WriteFile(b, []byte("AS 0 0\n"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.ace"), "plain.caf"})
	if err != nil || len(got) != 3 || got[2] != "plain.caf" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
}

func TestExpandPositionalsErrors(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{filepath.Join(dir, "*.ace")},
		{"-"},
	} {
		if _, err := ExpandPositionals(args); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestParseContigNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"two", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseContigNumber(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("ParseContigNumber(%q) = %d, %v", tt.in, got, err)
		}
	}
}
