package datatable

import (
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// Table — экземпляр таблицы со своим состоянием.
// Не потокобезопасен: один экземпляр обслуживает один поток событий UI.
type Table[R Row] struct {
	rows     []R
	columns  []schema.Column
	opts     Options
	state    State
	executor *Executor[R]
}

// New создает таблицу над набором строк и схемой колонок
func New[R Row](rows []R, columns []schema.Column, opts Options) *Table[R] {
	opts = opts.Normalize()
	return &Table[R]{
		rows:     rows,
		columns:  columns,
		opts:     opts,
		state:    DefaultState(opts.DefaultItemsPerPage),
		executor: NewExecutor[R](nil, nil),
	}
}

// SetRowKey задает собственную функцию ключа строки (nil — по умолчанию)
func (t *Table[R]) SetRowKey(fn RowKeyFunc[R]) {
	t.executor = NewExecutor(t.executor.converter, fn)
}

// SetConverter задает политику приведения значений (например, другую таймзону)
func (t *Table[R]) SetConverter(conv *schema.Converter) {
	t.executor = NewExecutor(conv, t.executor.rowKey)
}

// SetRows заменяет входной набор. Страница не сбрасывается,
// но ограничивается новым числом страниц.
func (t *Table[R]) SetRows(rows []R) {
	t.rows = rows
	t.clampPage()
}

// SetColumns заменяет схему; сортировка по исчезнувшей или
// несортируемой колонке снимается
func (t *Table[R]) SetColumns(columns []schema.Column) {
	t.columns = columns
	if t.state.Sorted() {
		col, ok := schema.FindColumn(columns, t.state.SortColumn)
		if !ok || !col.IsSortable() {
			t.state.SortColumn = ""
			t.state.SortDirection = Asc
			t.state.CurrentPage = 1
		}
	}
	t.clampPage()
}

// Rows возвращает входной набор
func (t *Table[R]) Rows() []R {
	return t.rows
}

// Columns возвращает схему
func (t *Table[R]) Columns() []schema.Column {
	return t.columns
}

// Options возвращает нормализованные настройки
func (t *Table[R]) Options() Options {
	return t.opts
}

// State возвращает копию текущего состояния
func (t *Table[R]) State() State {
	return t.state
}

// SetSearchQuery задает поисковый запрос; при изменении — переход на страницу 1
func (t *Table[R]) SetSearchQuery(query string) {
	if query == t.state.SearchQuery {
		return
	}
	t.state.SearchQuery = query
	t.state.CurrentPage = 1
}

// RequestSort обрабатывает щелчок по заголовку колонки key.
// Повторный щелчок по активной колонке меняет направление,
// другая колонка становится активной с направлением asc.
// Несортируемая или неизвестная колонка — no-op (возвращает false).
func (t *Table[R]) RequestSort(key string) bool {
	next, ok := t.state.Toggle(key, t.columns)
	if !ok {
		return false
	}
	t.state = next
	return true
}

// SetCurrentPage переходит на страницу n, ограничивая ее диапазоном [1, totalPages]
func (t *Table[R]) SetCurrentPage(n int) {
	t.state.CurrentPage = ClampPage(n, t.totalPages())
}

// SetItemsPerPage меняет размер страницы; неположительный размер игнорируется.
// При изменении — переход на страницу 1.
func (t *Table[R]) SetItemsPerPage(n int) {
	if n <= 0 || n == t.state.ItemsPerPage {
		return
	}
	t.state.ItemsPerPage = n
	t.state.CurrentPage = 1
}

// FirstPage переходит на первую страницу
func (t *Table[R]) FirstPage() {
	t.SetCurrentPage(1)
}

// PrevPage переходит на предыдущую страницу (на первой — no-op)
func (t *Table[R]) PrevPage() {
	t.SetCurrentPage(t.state.CurrentPage - 1)
}

// NextPage переходит на следующую страницу (на последней — no-op)
func (t *Table[R]) NextPage() {
	t.SetCurrentPage(t.state.CurrentPage + 1)
}

// LastPage переходит на последнюю страницу
func (t *Table[R]) LastPage() {
	t.SetCurrentPage(t.totalPages())
}

// Restore восстанавливает состояние (например, из параметров запроса).
// Сортировка по недопустимой колонке снимается, страница ограничивается.
func (t *Table[R]) Restore(s State) {
	if s.ItemsPerPage <= 0 {
		s.ItemsPerPage = t.opts.DefaultItemsPerPage
	}
	if s.SortDirection != Desc {
		s.SortDirection = Asc
	}
	if s.Sorted() {
		col, ok := schema.FindColumn(t.columns, s.SortColumn)
		if !ok || !col.IsSortable() {
			s.SortColumn = ""
			s.SortDirection = Asc
		}
	}
	t.state = s
	t.clampPage()
}

// View строит производное представление по текущему состоянию
func (t *Table[R]) View() View[R] {
	return t.executor.Execute(t.rows, t.columns, t.state, t.opts)
}

// Matched возвращает все совпавшие строки в порядке сортировки (без пагинации)
func (t *Table[R]) Matched() []R {
	return t.executor.Matched(t.rows, t.columns, t.state)
}

func (t *Table[R]) totalPages() int {
	matched := filterWith(t.executor.converter, t.rows, t.columns, t.state.SearchQuery)
	return TotalPages(len(matched), t.state.ItemsPerPage)
}

func (t *Table[R]) clampPage() {
	t.state.CurrentPage = ClampPage(t.state.CurrentPage, t.totalPages())
}
