package connectors

import (
	"strconv"
	"time"

	"github.com/datacanary/datacanary/internal/dataset"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-Jan-2006",
}

// isIntLiteral avoids strconv allocation churn on the hot path.
func isIntLiteral(s string) bool {
	if len(s) == 0 || len(s) >= 20 {
		return false
	}

	i := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFloatLiteral(s string) bool {
	if len(s) == 0 || len(s) >= 25 {
		return false
	}

	hasDot, hasExp := false, false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			if hasDot || hasExp {
				return false
			}
			hasDot = true
		case c == 'e' || c == 'E':
			if hasExp || i == len(s)-1 {
				return false
			}
			hasExp = true
		default:
			return false
		}
	}
	return hasDot || hasExp
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// inferKind decides a column's declared kind from its non-empty cells:
// numeric when every cell parses as a number, temporal when every cell
// parses as a date, textual otherwise. A column of only empty cells stays
// textual.
func inferKind(cells []string) dataset.Kind {
	numeric, temporal := false, false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		switch {
		case isIntLiteral(cell) || isFloatLiteral(cell):
			if temporal {
				return dataset.Textual
			}
			numeric = true
		default:
			if _, ok := parseDate(cell); ok {
				if numeric {
					return dataset.Textual
				}
				temporal = true
				continue
			}
			return dataset.Textual
		}
	}
	if numeric {
		return dataset.Numeric
	}
	if temporal {
		return dataset.Temporal
	}
	return dataset.Textual
}

// buildDataset turns header-plus-rows cell data into a typed Dataset.
// Empty cells become nulls. Short rows are padded.
func buildDataset(headers []string, rows [][]string) (*dataset.Dataset, error) {
	columns := make([]dataset.Column, 0, len(headers))
	for i, header := range headers {
		cells := make([]string, len(rows))
		for j, row := range rows {
			if i < len(row) {
				cells[j] = row[i]
			}
		}

		kind := inferKind(cells)
		values := make([]any, len(cells))
		for j, cell := range cells {
			if cell == "" {
				continue
			}
			switch kind {
			case dataset.Numeric:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, err
				}
				values[j] = v
			case dataset.Temporal:
				t, _ := parseDate(cell)
				values[j] = t
			default:
				values[j] = cell
			}
		}
		columns = append(columns, dataset.NewColumn(header, kind, values))
	}

	return dataset.New(columns...)
}
