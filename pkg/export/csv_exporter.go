package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders every table of a document as consecutive CSV rows, one
// row per time slot, prefixed with the table caption.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the document.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("csv requires at least one table")
	}
	headers := doc.Tables[0].Headers
	if len(headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(append([]string{"Timetable"}, headers...)); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, table := range doc.Tables {
		for _, row := range table.Rows {
			record := make([]string, 0, len(row.Cells)+2)
			record = append(record, table.Caption(), row.Label)
			for _, cell := range row.Cells {
				record = append(record, cell.Join("/"))
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
