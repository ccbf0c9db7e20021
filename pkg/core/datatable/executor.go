package datatable

import (
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// View — производное представление: отфильтрованная, отсортированная
// и разбитая на страницы выборка плюс сводные значения для UI
type View[R Row] struct {
	Page

	Rows      []R      // строки текущей страницы
	Keys      []string // ключи строк страницы (для рендеринга), по индексу Rows
	TotalRows int      // строк во входном наборе (до фильтрации)
	Window    []int    // номера страниц для кнопок навигации

	Empty          bool // на странице нет строк — показать заглушку
	ShowPagination bool // элементы пагинации видимы
	Searchable     bool

	State State // состояние после сверки (страница уже ограничена)
}

// Executor строит производные представления
type Executor[R Row] struct {
	converter *schema.Converter
	rowKey    RowKeyFunc[R]
}

// NewExecutor создает новый executor
func NewExecutor[R Row](conv *schema.Converter, rowKey RowKeyFunc[R]) *Executor[R] {
	if conv == nil {
		conv = converter
	}
	if rowKey == nil {
		rowKey = DefaultRowKey[R]
	}
	return &Executor[R]{
		converter: conv,
		rowKey:    rowKey,
	}
}

// DeriveView — чистая функция: фильтр → сортировка → пагинация
// по текущему состоянию. Входные строки не изменяются.
func DeriveView[R Row](rows []R, columns []schema.Column, state State, opts Options) View[R] {
	return NewExecutor[R](nil, nil).Execute(rows, columns, state, opts)
}

// Execute выполняет все три стадии
func (e *Executor[R]) Execute(rows []R, columns []schema.Column, state State, opts Options) View[R] {
	// 1. Фильтрация
	filtered := filterWith(e.converter, rows, columns, state.SearchQuery)

	// 2. Сортировка
	sorted := filtered
	if state.Sorted() {
		sorted = sortWith(e.converter, filtered, columns, state.SortColumn, state.SortDirection)
	}

	// 3. Пагинация
	visible, page := Paginate(sorted, state.CurrentPage, state.ItemsPerPage)

	keys := make([]string, len(visible))
	for i, row := range visible {
		keys[i] = e.rowKey(row, i)
	}

	state.CurrentPage = page.CurrentPage
	state.ItemsPerPage = page.ItemsPerPage
	if state.SortDirection == "" {
		state.SortDirection = Asc
	}

	return View[R]{
		Page:           page,
		Rows:           visible,
		Keys:           keys,
		TotalRows:      len(rows),
		Window:         PageWindow(page.CurrentPage, page.TotalPages),
		Empty:          len(visible) == 0,
		ShowPagination: opts.Pagination && page.TotalItems > 0,
		Searchable:     opts.Searchable,
		State:          state,
	}
}

// Matched возвращает все отфильтрованные и отсортированные строки без пагинации
// (используется экспортом)
func (e *Executor[R]) Matched(rows []R, columns []schema.Column, state State) []R {
	filtered := filterWith(e.converter, rows, columns, state.SearchQuery)
	if !state.Sorted() {
		return filtered
	}
	return sortWith(e.converter, filtered, columns, state.SortColumn, state.SortDirection)
}
