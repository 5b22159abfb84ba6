// ABOUTME: Report document model and format dispatch
// ABOUTME: Selects the PDF or XLSX writer and its HTTP content type

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Simtestlab/bess-handbook/models"
)

// Format is a report file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// DefaultTitle is used when a document has no title
const DefaultTitle = "BESS Design Report"

// ParseFormat accepts "pdf" or "xlsx" in any case
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use pdf or xlsx)", s)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Filename returns a download name such as bess-inputs.pdf
func (f Format) Filename(base string) string {
	if base == "" {
		base = "bess-report"
	}
	return base + "." + string(f)
}

// Document is everything a report renders
type Document struct {
	Title       string
	Slot        string
	GeneratedAt time.Time
	Input       models.DesignInput
	Result      models.DerivedResult
}

func (d Document) title() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

// Write renders doc to w in the given format
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	default:
		return fmt.Errorf("unsupported report format %q", f)
	}
}
