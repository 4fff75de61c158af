package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExportFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "urls.csv"},
		{"  ", "urls.csv"},
		{"batch", "batch.csv"},
		{"batch.csv", "batch.csv"},
		{"out/batch.txt", "out/batch.txt.csv"},
	}
	for _, tt := range tests {
		if got := ExportFileName(tt.in); got != tt.want {
			t.Errorf("ExportFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"https://a.example", "https://b.example/?q=1,2"})
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "https://a.example\n\"https://b.example/?q=1,2\"\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportCSV(filepath.Join(dir, "batch"), []string{"https://a.example"})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if filepath.Base(path) != "batch.csv" {
		t.Errorf("expected batch.csv, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "https://a.example\n" {
		t.Errorf("unexpected file content %q", data)
	}

	if _, err := ExportCSV(filepath.Join(dir, "missing", "x"), nil); err == nil {
		t.Error("expected error for unwritable path")
	}
}
