package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BriefDocument is the printable summary of a published gig.
type BriefDocument struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Sections    []BriefSection
}

// BriefSection is one headed block of a brief. Fields render as label/value lines, then the table.
type BriefSection struct {
	Heading string
	Fields  []BriefField
	Table   *Dataset
}

// BriefField is a labelled value.
type BriefField struct {
	Label string
	Value string
}

// PDFExporter renders gig briefs on A4 pages.
type PDFExporter struct {
	pageWidth float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{pageWidth: 190}
}

// RenderBrief lays out the brief and returns the PDF bytes.
func (e *PDFExporter) RenderBrief(doc BriefDocument) ([]byte, error) {
	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("brief requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, tr(doc.Title), "", "L", false)
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(doc.Subtitle), "", "L", false)
	}
	if !doc.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, "Generated "+doc.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(section.Heading), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		for _, field := range section.Fields {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(45, 6, tr(field.Label), "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 6, tr(valueOrDash(field.Value)), "", "L", false)
		}
		if section.Table != nil && len(section.Table.Columns) > 0 {
			e.table(pdf, tr, *section.Table)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) table(pdf *gofpdf.Fpdf, tr func(string) string, data Dataset) {
	colWidth := e.pageWidth / float64(len(data.Columns))
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for _, column := range data.Columns {
		pdf.CellFormat(colWidth, 7, tr(column), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(data.Rows) == 0 {
		pdf.CellFormat(e.pageWidth, 7, "-", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range data.Rows {
		for i := range data.Columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
