package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName  = 31
	summarySheet  = "Summary"
	timeColWidth  = 16
	dayColWidth   = 24
	xlsxLineBreak = "\n"
)

// XLSXExporter renders one worksheet per table plus a summary sheet.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces an XLSX workbook for the document.
func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Tables) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one table")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E7E6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	used := map[string]struct{}{strings.ToLower(summarySheet): {}}
	for i, table := range doc.Tables {
		name := uniqueSheetName(table.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeTableSheet(f, name, doc.Heading, table, headerStyle, cellStyle); err != nil {
			return nil, err
		}
	}

	if len(doc.Summary) > 0 {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("create summary sheet: %w", err)
		}
		for i, item := range doc.Summary {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{item.Label, item.Value}); err != nil {
				return nil, fmt.Errorf("write summary row: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTableSheet(f *excelize.File, sheet, heading string, table Table, headerStyle, cellStyle int) error {
	if err := f.SetCellValue(sheet, "A1", table.Caption()); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellValue(sheet, "A2", heading); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}

	header := make([]interface{}, 0, len(table.Headers))
	for _, h := range table.Headers {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A4", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
	if err := f.SetCellStyle(sheet, "A4", lastCol+"4", headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, row := range table.Rows {
		values := make([]interface{}, 0, len(row.Cells)+1)
		values = append(values, row.Label)
		for _, cell := range row.Cells {
			values = append(values, cell.Join(xlsxLineBreak))
		}
		start, _ := excelize.CoordinatesToCellName(1, i+5)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("write grid row: %w", err)
		}
		end, _ := excelize.CoordinatesToCellName(len(values), i+5)
		if err := f.SetCellStyle(sheet, start, end, cellStyle); err != nil {
			return fmt.Errorf("style grid row: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", timeColWidth); err != nil {
		return fmt.Errorf("size time column: %w", err)
	}
	if len(table.Headers) > 1 {
		if err := f.SetColWidth(sheet, "B", lastCol, dayColWidth); err != nil {
			return fmt.Errorf("size day columns: %w", err)
		}
	}
	return nil
}

// uniqueSheetName strips characters Excel rejects, trims to its length limit
// and suffixes duplicates. Sheet names compare case-insensitively.
func uniqueSheetName(raw string, used map[string]struct{}) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(raw))
	if base == "" {
		base = "Timetable"
	}
	if runes := []rune(base); len(runes) > maxSheetName {
		base = string(runes[:maxSheetName])
	}

	name := base
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(name)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[strings.ToLower(name)] = struct{}{}
	return name
}
