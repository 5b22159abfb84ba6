// ABOUTME: PDF rendering of a design report with gofpdf
// ABOUTME: Headline figures, status banners, derived sections and the input sheet

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfLabelWidth = 80.0
	pdfValueWidth = 60.0
	pdfRowHeight  = 6.0
)

// Core PDF fonts are cp1252; symbols outside it are spelled out
var pdfSymbols = strings.NewReplacer("Ω", "Ohm")

// WritePDF renders doc as an A4 PDF
func WritePDF(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(pdfSymbols.Replace(s)) }

	pdf.SetTitle(doc.title(), true)
	pdf.SetCreator("bess-handbook", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, text(doc.title()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, text(fmt.Sprintf("Topology: %s", doc.Input.Topology())))
	pdf.Ln(6)
	pdf.Cell(0, 6, text(fmt.Sprintf("Chemistry: %s", doc.Input.CellChemistry)))
	pdf.Ln(6)
	if doc.Slot != "" {
		pdf.Cell(0, 6, text(fmt.Sprintf("Slot: %s", doc.Slot)))
		pdf.Ln(6)
	}
	if !doc.GeneratedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Date: %s", doc.GeneratedAt.Format("2006-01-02 15:04")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Headline figures
	pdf.SetFont("Helvetica", "B", 12)
	for _, h := range Headlines(doc.Input, doc.Result) {
		pdf.CellFormat(60, 8, text(fmt.Sprintf("%s: %s %s", h.Label, h.Value, h.Unit)), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	// Status banners
	pdf.SetFont("Helvetica", "", 10)
	for _, b := range Banners(doc.Input, doc.Result) {
		r, g, bl := severityColor(b.Severity)
		pdf.SetFillColor(r, g, bl)
		pdf.CellFormat(0, 8, text(b.Message), "1", 1, "L", true, 0, "")
	}
	pdf.Ln(4)

	writeSections := func(sections []Section) {
		for _, s := range sections {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Cell(0, 8, text(s.Title))
			pdf.Ln(8)
			pdf.SetFont("Helvetica", "", 10)
			for _, row := range s.Rows {
				pdf.CellFormat(pdfLabelWidth, pdfRowHeight, text(row.Label), "B", 0, "L", false, 0, "")
				pdf.CellFormat(pdfValueWidth, pdfRowHeight, text(strings.TrimSpace(row.Value+" "+row.Unit)), "B", 1, "R", false, 0, "")
			}
			pdf.Ln(3)
		}
	}

	writeSections(Sections(doc.Result))

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Design Inputs")
	pdf.Ln(12)
	writeSections(InputSections(doc.Input))

	return pdf.Output(w)
}

func severityColor(s Severity) (int, int, int) {
	switch s {
	case SeverityOK:
		return 220, 245, 220
	case SeverityWarning:
		return 255, 240, 200
	default:
		return 250, 215, 215
	}
}
