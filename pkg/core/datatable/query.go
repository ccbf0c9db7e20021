package datatable

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// Параметры запроса, в которых State передается между запросами (stateless)
const (
	ParamQuery     = "q"
	ParamSort      = "sort"
	ParamDirection = "dir"
	ParamPage      = "page"
	ParamPerPage   = "per_page"
)

// ParseState восстанавливает State из параметров запроса.
// Некорректные числа заменяются значениями по умолчанию.
func ParseState(values url.Values, opts Options) State {
	opts = opts.Normalize()
	s := DefaultState(opts.DefaultItemsPerPage)

	s.SearchQuery = values.Get(ParamQuery)
	s.SortColumn = strings.TrimSpace(values.Get(ParamSort))
	s.SortDirection = ParseDirection(values.Get(ParamDirection))

	if n, err := strconv.Atoi(values.Get(ParamPage)); err == nil && n > 0 {
		s.CurrentPage = n
	}
	if n, err := strconv.Atoi(values.Get(ParamPerPage)); err == nil && n > 0 {
		s.ItemsPerPage = n
	}

	return s
}

// Values кодирует State в параметры запроса; значения по умолчанию опускаются
func (s State) Values() url.Values {
	v := url.Values{}
	if s.SearchQuery != "" {
		v.Set(ParamQuery, s.SearchQuery)
	}
	if s.SortColumn != "" {
		v.Set(ParamSort, s.SortColumn)
		v.Set(ParamDirection, string(ParseDirection(string(s.SortDirection))))
	}
	if s.CurrentPage > 1 {
		v.Set(ParamPage, strconv.Itoa(s.CurrentPage))
	}
	if s.ItemsPerPage > 0 {
		v.Set(ParamPerPage, strconv.Itoa(s.ItemsPerPage))
	}
	return v
}

// Encode возвращает строку запроса (без "?")
func (s State) Encode() string {
	return s.Values().Encode()
}

// Toggle возвращает состояние после щелчка по заголовку колонки key.
// false — колонка неизвестна или несортируема, состояние не меняется.
func (s State) Toggle(key string, columns []schema.Column) (State, bool) {
	col, ok := schema.FindColumn(columns, key)
	if !ok || !col.IsSortable() {
		return s, false
	}

	if s.SortColumn == key {
		s.SortDirection = ParseDirection(string(s.SortDirection)).Flip()
	} else {
		s.SortColumn = key
		s.SortDirection = Asc
	}
	s.CurrentPage = 1
	return s, true
}

// WithPage возвращает состояние с другой страницей (без ограничения диапазоном)
func (s State) WithPage(page int) State {
	s.CurrentPage = page
	return s
}

// WithItemsPerPage возвращает состояние с другим размером страницы и страницей 1
func (s State) WithItemsPerPage(n int) State {
	if n > 0 && n != s.ItemsPerPage {
		s.ItemsPerPage = n
		s.CurrentPage = 1
	}
	return s
}

// WithSearch возвращает состояние с другим запросом и страницей 1
func (s State) WithSearch(query string) State {
	if query != s.SearchQuery {
		s.SearchQuery = query
		s.CurrentPage = 1
	}
	return s
}
