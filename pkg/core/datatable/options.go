package datatable

import "strings"

// Direction — направление сортировки
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection разбирает направление; все, кроме desc, считается asc
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Flip возвращает противоположное направление
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Значения по умолчанию для Options
const (
	DefaultItemsPerPage      = 20
	DefaultSearchPlaceholder = "Search..."
	MaxWindowPages           = 5
)

// DefaultItemsPerPageOptions — варианты размера страницы по умолчанию
var DefaultItemsPerPageOptions = []int{10, 20, 50, 100}

// Options — настройки экземпляра таблицы
type Options struct {
	Searchable          bool   `yaml:"searchable" json:"searchable"`                   // показывать поиск
	SearchPlaceholder   string `yaml:"search_placeholder" json:"searchPlaceholder"`    // подсказка в поле поиска
	Pagination          bool   `yaml:"pagination" json:"pagination"`                   // показывать элементы пагинации
	ItemsPerPageOptions []int  `yaml:"items_per_page_options" json:"itemsPerPageOptions"`
	DefaultItemsPerPage int    `yaml:"default_items_per_page" json:"defaultItemsPerPage"`
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	opts := Options{
		Searchable:          true,
		SearchPlaceholder:   DefaultSearchPlaceholder,
		Pagination:          true,
		ItemsPerPageOptions: append([]int(nil), DefaultItemsPerPageOptions...),
		DefaultItemsPerPage: DefaultItemsPerPage,
	}
	return opts
}

// Normalize заполняет нулевые значения значениями по умолчанию.
// Булевы флаги не трогает: их ноль — осознанный выбор вызывающего.
func (o Options) Normalize() Options {
	if o.SearchPlaceholder == "" {
		o.SearchPlaceholder = DefaultSearchPlaceholder
	}
	if o.DefaultItemsPerPage <= 0 {
		o.DefaultItemsPerPage = DefaultItemsPerPage
	}

	sizes := make([]int, 0, len(o.ItemsPerPageOptions))
	for _, n := range o.ItemsPerPageOptions {
		if n > 0 {
			sizes = append(sizes, n)
		}
	}
	if len(sizes) == 0 {
		sizes = append(sizes, DefaultItemsPerPageOptions...)
	}
	o.ItemsPerPageOptions = sizes
	return o
}

// State — состояние движка таблицы.
// Изменяется только через операции Table; сам по себе — обычное значение.
type State struct {
	SearchQuery   string    `json:"searchQuery"`
	SortColumn    string    `json:"sortColumn,omitempty"` // "" — сортировки нет
	SortDirection Direction `json:"sortDirection"`
	CurrentPage   int       `json:"currentPage"`
	ItemsPerPage  int       `json:"itemsPerPage"`
}

// DefaultState возвращает начальное состояние
func DefaultState(itemsPerPage int) State {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return State{
		SortDirection: Asc,
		CurrentPage:   1,
		ItemsPerPage:  itemsPerPage,
	}
}

// Sorted сообщает, задана ли колонка сортировки
func (s State) Sorted() bool {
	return s.SortColumn != ""
}
