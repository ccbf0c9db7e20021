package export

import (
	"bytes"
	"testing"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/xuri/excelize/v2"
)

func testColumns() []schema.Column {
	return schema.NewBuilder().
		AddNumber("id", "ID").
		AddText("user", "User").
		AddDate("datetime", "When").
		Build()
}

func testRows() []datatable.Record {
	return []datatable.Record{
		{"id": 1, "user": "alice", "datetime": "2024-01-15 12:00"},
		{"id": "n/a", "user": "bob", "datetime": "yesterday"},
		{"id": 3},
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, "Activities", testColumns(), testRows()); err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Activities" {
		t.Errorf("sheet name = %q, want Activities", got)
	}

	rows, err := f.GetRows("Activities")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}

	if rows[0][0] != "ID" || rows[0][1] != "User" || rows[0][2] != "When" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "alice" {
		t.Errorf("unexpected first row: %v", rows[1])
	}

	// Неприводимые значения сохраняются как текст
	if rows[2][0] != "n/a" || rows[2][2] != "yesterday" {
		t.Errorf("unexpected fallback row: %v", rows[2])
	}

	typ, err := f.GetCellType("Activities", "A2")
	if err != nil {
		t.Fatalf("GetCellType() error = %v", err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("number column written as string (type %v)", typ)
	}

	// Отсутствующее значение — пустая ячейка
	if v, _ := f.GetCellValue("Activities", "B4"); v != "" {
		t.Errorf("missing value written as %q", v)
	}
}

func TestXLSX_DefaultSheet(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, "", testColumns(), []datatable.Record{}); err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != defaultSheet {
		t.Errorf("sheet name = %q, want %s", got, defaultSheet)
	}
}

func TestETag(t *testing.T) {
	rows := testRows()
	cols := testColumns()
	state := datatable.DefaultState(2)

	a := ETag(datatable.DeriveView(rows, cols, state, datatable.DefaultOptions()), "v1")
	b := ETag(datatable.DeriveView(rows, cols, state, datatable.DefaultOptions()), "v1")
	if a != b {
		t.Errorf("same view must give same ETag: %s != %s", a, b)
	}
	if len(a) != 18 || a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("ETag must be a quoted 16-hex-digit string, got %s", a)
	}

	if c := ETag(datatable.DeriveView(rows, cols, state.WithPage(2), datatable.DefaultOptions()), "v1"); c == a {
		t.Error("different page must change ETag")
	}
	if d := ETag(datatable.DeriveView(rows, cols, state, datatable.DefaultOptions()), "v2"); d == a {
		t.Error("different version must change ETag")
	}
}
