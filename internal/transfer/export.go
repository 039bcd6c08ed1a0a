// Package transfer moves the portfolio in and out of JSON files and implements the
// destructive "clear all" action.
package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/portfolio-keeper/internal/persistence"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// DefaultExportName is the file name used when exporting into a directory.
const DefaultExportName = "portfolio-data.json"

var exportCodec = persistence.NewCodec(nil)

// Export writes record as indented JSON.
func Export(w io.Writer, record types.PortfolioRecord) error {
	if _, err := io.WriteString(w, exportCodec.EncodePretty(record)+"\n"); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFile writes record to path. An empty path or a directory gets DefaultExportName.
// It returns the path actually written.
func ExportFile(path string, record types.PortfolioRecord) (string, error) {
	if path == "" {
		path = DefaultExportName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultExportName)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Export(f, record); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}
