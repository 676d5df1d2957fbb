// Package export renders list results as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Column describes one column of a sheet
type Column struct {
	Header string
	Width  float64
}

// Table is a single-sheet export: a header row followed by data rows
type Table struct {
	Sheet   string
	Columns []Column
	Rows    [][]any
}

// AddRow appends a data row. Values are written by WriteXLSX with cellValue.
func (t *Table) AddRow(values ...any) {
	t.Rows = append(t.Rows, values)
}

// WriteXLSX renders t to w
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name+"1", col.Header); err != nil {
			return err
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return err
			}
		}
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Columns))
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Bytes renders t into memory
func Bytes(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds "<prefix>_YYYYMMDD.xlsx"
func Filename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, at.Format("20060102"))
}

// excelize has no decimal support and writes zero times as numbers
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		f, _ := x.Float64()
		return f
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(dateLayout)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format(dateLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
