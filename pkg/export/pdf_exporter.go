package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0 // A4 landscape minus margins
	pdfTimeColumn = 32.0
	pdfLineHeight = 4.5
	pdfHeaderRow  = 8.0

	pdfBottomMargin = 12.0
)

// PDFExporter renders a document as a landscape, print-ready PDF with one page
// per table followed by the summary.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document. A document without tables still renders
// its heading and summary.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeHeader := func() {
		pdf.AddPage()
		if doc.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 8, tr(doc.Title), "", 1, "L", false, 0, "")
		}
		if doc.Heading != "" {
			pdf.SetFont("Arial", "", 9)
			pdf.CellFormat(0, 6, tr(doc.Heading), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	for _, table := range doc.Tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("pdf table %q has no headers", table.Title)
		}
		writeHeader()
		writeTable(pdf, tr, table)
	}

	if len(doc.Tables) == 0 {
		writeHeader()
	}
	if len(doc.Summary) > 0 {
		writeSummary(pdf, tr, doc.Summary)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *gofpdf.Fpdf, tr func(string) string, table Table) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(table.Caption()), "", 1, "L", false, 0, "")

	dayCols := len(table.Headers) - 1
	dayWidth := pdfPageWidth - pdfTimeColumn
	if dayCols > 0 {
		dayWidth = (pdfPageWidth - pdfTimeColumn) / float64(dayCols)
	}
	widthOf := func(col int) float64 {
		if col == 0 {
			return pdfTimeColumn
		}
		return dayWidth
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(231, 230, 230)
	for i, header := range table.Headers {
		pdf.CellFormat(widthOf(i), pdfHeaderRow, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		texts := make([]string, 0, len(row.Cells)+1)
		texts = append(texts, row.Label)
		for _, cell := range row.Cells {
			texts = append(texts, cell.Join("\n"))
		}

		lines := 1
		for i, text := range texts {
			if n := len(pdf.SplitLines([]byte(tr(text)), widthOf(i)-2)); n > lines {
				lines = n
			}
		}
		height := float64(lines)*pdfLineHeight + 2

		_, pageHeight := pdf.GetPageSize()
		if pdf.GetY()+height > pageHeight-pdfBottomMargin {
			pdf.AddPage()
		}

		startX, y := pdf.GetXY()
		x := startX
		for i, text := range texts {
			w := widthOf(i)
			pdf.Rect(x, y, w, height, "D")
			pdf.SetXY(x+1, y+1)
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.MultiCell(w-2, pdfLineHeight, tr(strings.TrimSpace(text)), "", align, false)
			x += w
			pdf.SetXY(x, y)
		}
		pdf.SetXY(startX, y+height)
	}
	pdf.Ln(4)
}

func writeSummary(pdf *gofpdf.Fpdf, tr func(string) string, items []SummaryItem) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Timetable Summary", "", 1, "L", false, 0, "")
	width := pdfPageWidth / float64(len(items))
	pdf.SetFont("Arial", "B", 14)
	for _, item := range items {
		pdf.CellFormat(width, 10, tr(item.Value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		pdf.CellFormat(width, 6, tr(item.Label), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}
