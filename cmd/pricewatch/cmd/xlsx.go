package cmd

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pricewatch/internal/producturl"
)

const importSheet = "import"

var importColumns = []any{"line", "kind", "shop", "canonical_url", "fingerprint"}

// xlsxReport collects import rows into a single-sheet workbook.
type xlsxReport struct {
	file *excelize.File
	row  int
}

func newXLSXReport() (*xlsxReport, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), importSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	rep := &xlsxReport{file: f, row: 1}
	if err := rep.writeRow(importColumns); err != nil {
		_ = f.Close()
		return nil, err
	}
	return rep, nil
}

func (x *xlsxReport) Add(line int, o producturl.Outcome) error {
	return x.writeRow([]any{line, o.Kind.String(), o.Shop, o.CanonicalURL, o.Fingerprint})
}

func (x *xlsxReport) writeRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	if err := x.file.SetSheetRow(importSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", x.row, err)
	}
	x.row++
	return nil
}

// Save freezes the header, adds a filter over the filled range and writes the
// workbook to path.
func (x *xlsxReport) Save(path string) error {
	defer x.file.Close()

	if err := x.file.SetPanes(importSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(importColumns), x.row-1)
	if err != nil {
		return err
	}
	if err := x.file.AutoFilter(importSheet, "A1:"+last, nil); err != nil {
		return err
	}
	if err := x.file.SetColWidth(importSheet, "D", "E", 64); err != nil {
		return err
	}
	return x.file.SaveAs(path)
}
