package datatable

import (
	"strings"
	"testing"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

func names(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["name"].(string)
	}
	return out
}

func newItemTable(n, perPage int) *Table[Record] {
	opts := DefaultOptions()
	opts.ItemsPerPageOptions = []int{10, 20, 50}
	opts.DefaultItemsPerPage = perPage
	return New(itemRows(n), testColumns(), opts)
}

func TestTable_PaginationScenario(t *testing.T) {
	table := newItemTable(25, 10)

	view := table.View()
	if view.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", view.TotalPages)
	}
	if got := names(view.Rows); got[0] != "Item1" || got[9] != "Item10" {
		t.Errorf("unexpected first page: %v", got)
	}

	table.NextPage()
	view = table.View()
	if got := names(view.Rows); got[0] != "Item11" || got[9] != "Item20" {
		t.Errorf("unexpected second page: %v", got)
	}

	table.SetItemsPerPage(20)
	view = table.View()
	if view.CurrentPage != 1 || view.TotalPages != 2 {
		t.Errorf("expected page 1 of 2, got %d of %d", view.CurrentPage, view.TotalPages)
	}
	if got := names(view.Rows); len(got) != 20 || got[0] != "Item1" || got[19] != "Item20" {
		t.Errorf("unexpected page after resize: %v", got)
	}
}

func TestTable_SortToggleScenario(t *testing.T) {
	table := New([]Record{
		{"id": 1, "name": "b"},
		{"id": 2, "name": "a"},
	}, testColumns(), DefaultOptions())

	if !table.RequestSort("name") {
		t.Fatal("name must be sortable")
	}
	if got := strings.Join(ids(table.View().Rows), ","); got != "2,1" {
		t.Errorf("asc: expected 2,1 got %s", got)
	}

	table.RequestSort("name")
	if got := strings.Join(ids(table.View().Rows), ","); got != "1,2" {
		t.Errorf("desc: expected 1,2 got %s", got)
	}
	if table.State().SortDirection != Desc {
		t.Errorf("expected desc, got %s", table.State().SortDirection)
	}
}

func TestTable_ToggleIdempotence(t *testing.T) {
	table := newItemTable(25, 10)
	table.RequestSort("name")
	start := table.State().SortDirection

	table.RequestSort("name")
	table.RequestSort("name")
	if table.State().SortDirection != start {
		t.Errorf("two clicks must restore direction %s, got %s", start, table.State().SortDirection)
	}

	// Другая колонка — направление снова asc
	table.RequestSort("name")
	table.RequestSort("id")
	if s := table.State(); s.SortColumn != "id" || s.SortDirection != Asc {
		t.Errorf("switching column must reset to asc: %+v", s)
	}
}

func TestTable_NonSortableHeaderIsNoop(t *testing.T) {
	cols := schema.NewBuilder().AddNumber("id", "ID").AddStatic("name", "Name").Build()
	table := New(itemRows(5), cols, DefaultOptions())
	table.RequestSort("id")
	before := table.State()

	if table.RequestSort("name") {
		t.Error("non-sortable column must report false")
	}
	if table.RequestSort("unknown") {
		t.Error("unknown column must report false")
	}
	if table.State() != before {
		t.Errorf("state changed: %+v -> %+v", before, table.State())
	}
}

func TestTable_PageResetInvariant(t *testing.T) {
	mutations := map[string]func(*Table[Record]){
		"search":    func(tb *Table[Record]) { tb.SetSearchQuery("Item") },
		"sort":      func(tb *Table[Record]) { tb.RequestSort("name") },
		"direction": func(tb *Table[Record]) { tb.RequestSort("id") },
		"per page":  func(tb *Table[Record]) { tb.SetItemsPerPage(5) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			table := newItemTable(100, 10)
			table.RequestSort("id") // id asc; "direction" затем переключит на desc
			table.SetCurrentPage(4)
			if table.State().CurrentPage != 4 {
				t.Fatalf("setup: expected page 4, got %d", table.State().CurrentPage)
			}

			mutate(table)
			if got := table.State().CurrentPage; got != 1 {
				t.Errorf("expected page 1 after %s, got %d", name, got)
			}
		})
	}
}

func TestTable_SameValueKeepsPage(t *testing.T) {
	table := newItemTable(100, 10)
	table.SetCurrentPage(3)

	table.SetSearchQuery("")
	table.SetItemsPerPage(10)
	table.SetItemsPerPage(0)
	table.SetItemsPerPage(-5)
	if got := table.State().CurrentPage; got != 3 {
		t.Errorf("no-op mutations must keep page 3, got %d", got)
	}
}

func TestTable_SetCurrentPageClamps(t *testing.T) {
	table := newItemTable(25, 10)

	table.SetCurrentPage(99)
	if got := table.State().CurrentPage; got != 3 {
		t.Errorf("expected clamp to 3, got %d", got)
	}
	table.SetCurrentPage(0)
	if got := table.State().CurrentPage; got != 1 {
		t.Errorf("expected clamp to 1, got %d", got)
	}

	table.SetSearchQuery("nothing matches this")
	table.SetCurrentPage(2)
	if got := table.State().CurrentPage; got != 1 {
		t.Errorf("empty result must keep page 1, got %d", got)
	}
}

func TestTable_NavigationBoundaries(t *testing.T) {
	table := newItemTable(25, 10)

	table.PrevPage()
	if table.State().CurrentPage != 1 {
		t.Errorf("prev on first page must be no-op")
	}

	table.LastPage()
	if table.State().CurrentPage != 3 {
		t.Errorf("expected last page 3, got %d", table.State().CurrentPage)
	}

	table.NextPage()
	if table.State().CurrentPage != 3 {
		t.Errorf("next on last page must be no-op")
	}

	table.FirstPage()
	if table.State().CurrentPage != 1 {
		t.Errorf("expected first page")
	}
}

func TestTable_SetRowsClampsPage(t *testing.T) {
	table := newItemTable(100, 10)
	table.SetCurrentPage(10)

	table.SetRows(itemRows(15))
	if got := table.State().CurrentPage; got != 2 {
		t.Errorf("expected clamp to 2 after shrinking data, got %d", got)
	}
}

func TestTable_SetColumnsDropsInvalidSort(t *testing.T) {
	table := newItemTable(10, 10)
	table.RequestSort("name")

	cols := schema.NewBuilder().AddNumber("id", "ID").AddStatic("name", "Name").Build()
	table.SetColumns(cols)
	if table.State().Sorted() {
		t.Errorf("sort on non-sortable column must be dropped: %+v", table.State())
	}
}

func TestTable_Restore(t *testing.T) {
	table := newItemTable(25, 10)
	table.Restore(State{
		SearchQuery:   "item2",
		SortColumn:    "bogus",
		SortDirection: "sideways",
		CurrentPage:   9,
	})

	s := table.State()
	if s.SortColumn != "" || s.SortDirection != Asc {
		t.Errorf("invalid sort must be dropped: %+v", s)
	}
	if s.ItemsPerPage != 10 {
		t.Errorf("missing page size must use default, got %d", s.ItemsPerPage)
	}
	// item2, item20..item25 = 7 строк, одна страница
	if s.CurrentPage != 1 {
		t.Errorf("expected page clamp to 1, got %d", s.CurrentPage)
	}
	if got := table.View().TotalItems; got != 7 {
		t.Errorf("expected 7 matches, got %d", got)
	}
}

func TestTable_Matched(t *testing.T) {
	table := newItemTable(25, 10)
	table.RequestSort("id")
	table.RequestSort("id")

	all := table.Matched()
	if len(all) != 25 || all[0]["id"] != 25 {
		t.Errorf("expected all rows in desc order, got %d rows starting at %v", len(all), all[0]["id"])
	}
}
