package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte("not a folder"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "RegularFile", path: plain, want: true},
		{name: "Directory", path: dir, want: false},
		{name: "Missing", path: filepath.Join(dir, "nope.fasta"), want: false},
		{
			// stat fails with ENOTDIR, not ErrNotExist; must not panic
			name: "PathUnderRegularFile",
			path: filepath.Join(plain, "query.fasta"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileExists(tt.path); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirExists(t *testing.T) {

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte("not a folder"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "Directory", path: dir, want: true},
		{name: "RegularFile", path: plain, want: false},
		{name: "Missing", path: filepath.Join(dir, "nope"), want: false},
		{name: "PathUnderRegularFile", path: filepath.Join(plain, "sub"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirExists(tt.path); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
