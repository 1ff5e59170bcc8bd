package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stwalsh4118/ciftlik/internal/services"
)

// Sheet names of the analysis workbook.
const (
	SummarySheet = "Özet"
	OwnersSheet  = "Sahipler"
)

const displayDate = "02.01.2006"

// WriteAnalysis renders an irrigation analysis as an XLSX workbook with a
// summary sheet and one row per owner.
func WriteAnalysis(w io.Writer, res *services.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	unitCost := interface{}("-")
	if res.UnitCost != nil {
		unitCost = res.UnitCost.InexactFloat64()
	}
	summary := [][]interface{}{
		{"Kuyu", res.WellName},
		{"Başlangıç", res.Start.Format(displayDate)},
		{"Bitiş", res.End.Format(displayDate)},
		{"Toplam dakika", res.TotalMinutes},
		{"Toplam tutar", res.TotalAmount.InexactFloat64()},
		{"Birim maliyet", unitCost},
		{"Fatura sayısı", res.InvoiceCount},
	}
	if res.Warning != "" {
		summary = append(summary, []interface{}{"Uyarı", res.Warning})
	}
	for i, row := range summary {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}

	if _, err := f.NewSheet(OwnersSheet); err != nil {
		return fmt.Errorf("failed to create owners sheet: %w", err)
	}
	if err := setRow(f, OwnersSheet, 1, []interface{}{"Sahip", "Toplam dakika", "Toplam maliyet", "Tarlalar"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(OwnersSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style owners header: %w", err)
	}
	for i, o := range res.Owners {
		name := o.OwnerID
		if o.Owner != nil {
			name = o.Owner.Name
		}
		row := []interface{}{
			name,
			o.Minutes.InexactFloat64(),
			o.Cost.InexactFloat64(),
			strings.Join(o.FieldNames, ", "),
		}
		if err := setRow(f, OwnersSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(OwnersSheet, "A", "D", 20); err != nil {
		return fmt.Errorf("failed to size owner columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
