package connectors

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/datacanary/datacanary/internal/dataset"
)

// ReadCSV loads a CSV file into a typed Dataset. The first row is the
// header; column kinds are inferred from the cell values and empty cells
// become nulls.
func ReadCSV(path string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(r io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err == io.EOF {
		return dataset.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}

	ds, err := buildDataset(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}
	return ds, nil
}
