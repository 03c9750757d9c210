package connectors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/datacanary/datacanary/internal/dataset"
)

func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ReadXLSX loads the first sheet of an Excel workbook into a typed Dataset,
// applying the same kind inference as the CSV reader.
func ReadXLSX(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return dataset.New()
	}

	ds, err := buildDataset(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}
	return ds, nil
}

// ReadFile dispatches on the file extension.
func ReadFile(path string) (*dataset.Dataset, error) {
	switch ext := lowerExt(path); ext {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q: use .csv or .xlsx", ext)
	}
}
