// ABOUTME: XLSX workbook export and import for design reports using excelize
// ABOUTME: The Inputs sheet round-trips, so edited workbooks can be read back as designs

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simtestlab/bess-handbook/models"
)

// Sheet names in a report workbook
const (
	SheetSummary = "Summary"
	SheetResults = "Results"
	SheetInputs  = "Inputs"
)

// WriteXLSX renders doc as a workbook with Summary, Results and Inputs sheets
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetResults, SheetInputs} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	// Summary
	summary := [][]interface{}{
		{doc.title()},
		{"Topology", doc.Input.Topology()},
		{"Chemistry", doc.Input.CellChemistry},
	}
	if doc.Slot != "" {
		summary = append(summary, []interface{}{"Slot", doc.Slot})
	}
	if !doc.GeneratedAt.IsZero() {
		summary = append(summary, []interface{}{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04")})
	}
	summary = append(summary, []interface{}{})
	for _, h := range Headlines(doc.Input, doc.Result) {
		summary = append(summary, []interface{}{h.Label, h.Value, h.Unit})
	}
	summary = append(summary, []interface{}{})
	for _, b := range Banners(doc.Input, doc.Result) {
		summary = append(summary, []interface{}{strings.ToUpper(string(b.Severity)), b.Message})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "A1", bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	// Results
	results := [][]interface{}{{"Section", "Key", "Label", "Value", "Unit"}}
	for _, s := range Sections(doc.Result) {
		for _, row := range s.Rows {
			results = append(results, []interface{}{s.Title, row.Key, row.Label, cellValue(row), row.Unit})
		}
	}
	if err := writeRows(f, SheetResults, results); err != nil {
		return err
	}

	// Inputs
	inputs := [][]interface{}{{"Key", "Label", "Value", "Unit"}}
	for _, s := range InputSections(doc.Input) {
		for _, row := range s.Rows {
			inputs = append(inputs, []interface{}{row.Key, row.Label, cellValue(row), row.Unit})
		}
	}
	if err := writeRows(f, SheetInputs, inputs); err != nil {
		return err
	}

	for _, sheet := range []string{SheetResults, SheetInputs} {
		if err := f.SetCellStyle(sheet, "A1", "E1", bold); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 30); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetResults, "A", "C", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetInputs, "A", "B", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	return f.Write(w)
}

// cellValue stores numeric values as numbers so the sheet stays editable
func cellValue(row Row) interface{} {
	if row.Key == "cellChemistry" || row.Key == "operatingRange" {
		return row.Value
	}
	if v, err := strconv.ParseFloat(row.Value, 64); err == nil {
		return v
	}
	return row.Value
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

// ReadXLSX reads a design from the Inputs sheet of a workbook. Missing keys
// keep their defaults; unknown keys are ignored.
func ReadXLSX(r io.Reader) (models.DesignInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.DesignInput{}, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetInputs)
	if err != nil {
		return models.DesignInput{}, fmt.Errorf("workbook has no %s sheet: %w", SheetInputs, err)
	}
	if len(rows) < 2 {
		return models.DesignInput{}, fmt.Errorf("%s sheet is empty", SheetInputs)
	}

	doc := make(map[string]interface{}, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		key := strings.TrimSpace(row[0])
		raw := strings.TrimSpace(row[2])
		if key == "cellChemistry" {
			doc[key] = raw
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.DesignInput{}, fmt.Errorf("%s row %d: %s is not a number: %q", SheetInputs, i+2, key, raw)
		}
		doc[key] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return models.DesignInput{}, err
	}
	return models.ParseDesign(data)
}
