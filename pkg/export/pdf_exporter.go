package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Landscape A4 printable width in mm after 10mm margins.
const pdfTableWidth = 277.0

// PDFExporter renders a Dataset into a tabular PDF. Day plans are wide,
// so pages are laid out in landscape.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render produces the document: title, optional subtitle, then the table.
// All text runs through the cp1251 translator so Cyrillic names survive
// the builtin core fonts.
func (e *PDFExporter) Render(data Dataset, title, subtitle string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf export: no headers")
	}

	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetMargins(10, 12, 10)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("cp1251")

	if title != "" {
		doc.SetFont("Arial", "B", 14)
		doc.CellFormat(0, 9, tr(title), "", 1, "C", false, 0, "")
	}
	if subtitle != "" {
		doc.SetFont("Arial", "", 10)
		doc.CellFormat(0, 7, tr(subtitle), "", 1, "C", false, 0, "")
	}
	doc.Ln(3)

	colWidth := pdfTableWidth / float64(len(data.Headers))
	writeRow := func(cells []string, height float64, align string) {
		for _, cell := range cells {
			doc.CellFormat(colWidth, height, tr(cell), "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Arial", "B", 10)
	writeRow(data.Headers, 8, "C")

	doc.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for i, h := range data.Headers {
			cells[i] = row[h]
		}
		writeRow(cells, 7, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf export: %w", err)
	}
	return buf.Bytes(), nil
}
