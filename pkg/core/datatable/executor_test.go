package datatable

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

func itemRows(n int) []Record {
	rows := make([]Record, n)
	for i := range rows {
		rows[i] = Record{
			"id":       i + 1,
			"name":     fmt.Sprintf("Item%d", i+1),
			"category": fmt.Sprintf("Cat%d", i/5+1),
			"status":   "active",
		}
	}
	return rows
}

func TestDeriveView_FirstPage(t *testing.T) {
	opts := DefaultOptions()
	view := DeriveView(itemRows(25), testColumns(), DefaultState(10), opts)

	if view.TotalRows != 25 || view.TotalItems != 25 || view.TotalPages != 3 {
		t.Errorf("unexpected totals: rows=%d items=%d pages=%d", view.TotalRows, view.TotalItems, view.TotalPages)
	}
	if len(view.Rows) != 10 || view.Rows[0]["name"] != "Item1" || view.Rows[9]["name"] != "Item10" {
		t.Errorf("unexpected first page")
	}
	if view.Empty || !view.ShowPagination {
		t.Errorf("flags wrong: empty=%v pagination=%v", view.Empty, view.ShowPagination)
	}
	if view.Keys[0] != "1" || view.Keys[9] != "10" {
		t.Errorf("row keys must come from id: %v", view.Keys)
	}
}

func TestDeriveView_EmptyResult(t *testing.T) {
	state := DefaultState(20)
	state.SearchQuery = "999999"
	state.CurrentPage = 4

	view := DeriveView(itemRows(25), testColumns(), state, DefaultOptions())
	if view.TotalItems != 0 || !view.Empty || view.ShowPagination {
		t.Errorf("expected empty signal without pagination: %+v", view.Page)
	}
	if view.CurrentPage != 1 || view.State.CurrentPage != 1 {
		t.Errorf("empty result must clamp page to 1, got %d", view.CurrentPage)
	}
	if len(view.Window) != 0 {
		t.Errorf("empty result must have no page window, got %v", view.Window)
	}
}

func TestDeriveView_FilterSortPaginate(t *testing.T) {
	state := DefaultState(2)
	state.SearchQuery = "cat1"
	state.SortColumn = "id"
	state.SortDirection = Desc

	view := DeriveView(itemRows(25), testColumns(), state, DefaultOptions())

	// Cat1 = id 1..5, по убыванию: 5,4 | 3,2 | 1
	if view.TotalItems != 5 || view.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", view.Page)
	}
	if view.Rows[0]["id"] != 5 || view.Rows[1]["id"] != 4 {
		t.Errorf("unexpected page rows: %v", ids(view.Rows))
	}
}

func TestDeriveView_PaginationDisabledStillSlices(t *testing.T) {
	opts := DefaultOptions()
	opts.Pagination = false

	view := DeriveView(itemRows(25), testColumns(), DefaultState(10), opts)
	if view.ShowPagination {
		t.Error("pagination controls must be hidden")
	}
	if len(view.Rows) != 10 {
		t.Errorf("visible rows are still one page, got %d", len(view.Rows))
	}
}

func TestDeriveView_DoesNotMutateInput(t *testing.T) {
	rows := itemRows(5)
	state := DefaultState(10)
	state.SortColumn = "id"
	state.SortDirection = Desc

	_ = DeriveView(rows, testColumns(), state, DefaultOptions())
	for i, r := range rows {
		if r["id"] != i+1 {
			t.Fatalf("input reordered at %d: %v", i, r["id"])
		}
	}
}

func TestExecutor_CustomRowKey(t *testing.T) {
	exec := NewExecutor[Record](schema.NewConverter(), func(r Record, i int) string {
		return "row-" + strconv.Itoa(i)
	})
	view := exec.Execute(itemRows(3), testColumns(), DefaultState(10), DefaultOptions())
	if view.Keys[2] != "row-2" {
		t.Errorf("custom key not used: %v", view.Keys)
	}
}

func TestDefaultRowKey_FallsBackToIndex(t *testing.T) {
	if got := DefaultRowKey(Record{"name": "x"}, 7); got != "7" {
		t.Errorf("expected index key 7, got %q", got)
	}
	if got := DefaultRowKey(Record{"id": nil}, 2); got != "2" {
		t.Errorf("nil id must fall back to index, got %q", got)
	}
	if got := DefaultRowKey(Record{"id": "abc"}, 2); got != "abc" {
		t.Errorf("expected id key, got %q", got)
	}
}

func TestExecutor_Matched(t *testing.T) {
	state := DefaultState(2)
	state.SearchQuery = "Cat2"
	state.SortColumn = "name"

	got := NewExecutor[Record](nil, nil).Matched(itemRows(25), testColumns(), state)
	if len(got) != 5 {
		t.Fatalf("expected all 5 matches regardless of page size, got %d", len(got))
	}
	if got[0]["name"] != "Item10" {
		t.Errorf("expected string order starting with Item10, got %v", got[0]["name"])
	}
}
