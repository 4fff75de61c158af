package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExportFileName applies the export naming rules: empty means
// DefaultExportFile and a missing ".csv" suffix is appended.
func ExportFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultExportFile
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name
}

// WriteCSV writes one URL per row.
func WriteCSV(w io.Writer, urls []string) error {
	cw := csv.NewWriter(w)
	for _, u := range urls {
		if err := cw.Write([]string{u}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes urls to the normalized file name and returns it.
func ExportCSV(name string, urls []string) (string, error) {
	path := ExportFileName(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteCSV(f, urls); err != nil {
		f.Close()
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}
