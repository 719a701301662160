// Package export writes the draw history to CSV, JSON or SQLite.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/storage"
)

// Extension returns the default file extension for format.
func Extension(format enum.ExportFormat) string {
	if format == enum.ExportSQLite {
		return ".db"
	}
	return "." + string(format)
}

// Export writes h to path in the given format and returns the number of
// draws written.
func Export(ctx context.Context, h lottery.History, format enum.ExportFormat, path string) (int, error) {
	if len(h) == 0 {
		return 0, fmt.Errorf("export: %w", lottery.ErrInsufficientData)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	n := len(h)
	var err error
	switch format {
	case enum.ExportCSV:
		err = writeFile(path, func(f *os.File) error { return storage.WriteCSV(f, h) })
	case enum.ExportJSON:
		err = writeFile(path, func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(h.Ordered())
		})
	case enum.ExportSQLite:
		n, err = exportSQLite(ctx, h, path)
	default:
		return 0, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return 0, err
	}
	logger.Info("History exported", "format", format, "path", path, "draws", n)
	return n, nil
}

func exportSQLite(ctx context.Context, h lottery.History, path string) (int, error) {
	store, err := OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.WriteDraws(ctx, h)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
