// Package export выгружает отфильтрованное и отсортированное представление набора данных.
package export

import (
	"fmt"
	"io"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/xuri/excelize/v2"
)

// Встроенные форматы чисел Excel
const (
	numFmtGeneral  = 0
	numFmtDatetime = 22 // m/d/yy h:mm
)

const defaultSheet = "Sheet1"

// ContentTypeXLSX — MIME-тип ответа с книгой Excel
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSX пишет строки в книгу Excel с одним листом.
//
// Первая строка — заголовки колонок (Label, иначе Key).
// Колонки number пишутся числами, date — ячейками даты; значение,
// которое не удалось привести, пишется как текст, отсутствующее — пустой ячейкой.
func XLSX[R datatable.Row](w io.Writer, sheet string, columns []schema.Column, rows []R) error {
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i := range columns {
		if err := sw.SetColWidth(i+1, i+1, 18); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = excelize.Cell{StyleID: styles.header, Value: col.Title()}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	conv := schema.NewConverter()
	for r, row := range rows {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = cellValue(conv, styles, col, row)
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", r+1, err)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type cellStyles struct {
	header   int
	number   int
	datetime int
}

func newStyles(f *excelize.File) (cellStyles, error) {
	var s cellStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	if s.number, err = f.NewStyle(&excelize.Style{NumFmt: numFmtGeneral}); err != nil {
		return s, fmt.Errorf("failed to create number style: %w", err)
	}
	if s.datetime, err = f.NewStyle(&excelize.Style{NumFmt: numFmtDatetime}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	return s, nil
}

func cellValue[R datatable.Row](conv *schema.Converter, styles cellStyles, col schema.Column, row R) any {
	v, present := row.Field(col.Key)
	text := conv.Text(v, present)
	if text == "" {
		return nil
	}

	switch col.Type() {
	case schema.SortNumber:
		if n, ok := conv.TryNumber(v, true); ok {
			return excelize.Cell{StyleID: styles.number, Value: n}
		}
	case schema.SortDate:
		if t, ok := conv.TryTime(v, true); ok {
			return excelize.Cell{StyleID: styles.datetime, Value: t}
		}
	}
	return text
}
