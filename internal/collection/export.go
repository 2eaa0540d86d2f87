// internal/collection/export.go
package collection

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	paymentsSheet = "Payments"
	owingSheet    = "Owing"
)

var (
	paymentsHeader = []string{"Date", "Payment ID", "Member ID", "Member", "Amount", "Status"}
	owingHeader    = []string{"Member ID", "Member", "Category", "Phone", "Address"}
)

// WeeklyWorkbook renders a weekly report as an XLSX file with one sheet of
// payments and one of owing members.
func WeeklyWorkbook(report *WeeklyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paymentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(owingSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, paymentsSheet, 1, toCells(paymentsHeader), headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, e := range report.Payments {
		amount, _ := e.Amount.Float64()
		cells := []any{e.Date.String(), e.ID, e.MemberID, e.MemberName, amount, string(e.Status)}
		if err := writeRow(f, paymentsSheet, row, cells, 0); err != nil {
			return nil, err
		}
		row++
	}
	collected, _ := report.Collected.Float64()
	if err := writeRow(f, paymentsSheet, row, []any{"Total", "", "", "", collected, ""}, headerStyle); err != nil {
		return nil, err
	}

	if err := writeRow(f, owingSheet, 1, toCells(owingHeader), headerStyle); err != nil {
		return nil, err
	}
	for i, m := range report.Owing {
		cells := []any{m.ID, m.FullName(), m.CategoryID, m.Phone, m.Address}
		if err := writeRow(f, owingSheet, i+2, cells, 0); err != nil {
			return nil, err
		}
	}

	for _, sheet := range []string{paymentsSheet, owingSheet} {
		if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("freeze header: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []any, style int) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
