package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Dataset is ordered tabular content shared by the CSV and PDF renderers.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// NewDataset returns an empty dataset with the given columns.
func NewDataset(columns ...string) Dataset {
	return Dataset{Columns: columns}
}

// AddRow appends a row. Missing trailing cells are left blank and extra cells are dropped.
func (d *Dataset) AddRow(cells ...string) {
	row := make([]string, len(d.Columns))
	copy(row, cells)
	d.Rows = append(d.Rows, row)
}

// CSVExporter renders datasets as RFC 4180 CSV.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// Write streams the dataset to w, header first.
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Columns) == 0 {
		return fmt.Errorf("csv requires at least one column")
	}
	writer := csv.NewWriter(w)
	writer.Comma = e.comma
	if err := writer.Write(data.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Columns) {
			return fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(data.Columns))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Render returns the dataset as CSV bytes.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
