package datatable

// Page — границы одной страницы отфильтрованного и отсортированного набора
type Page struct {
	CurrentPage  int // 1-based, всегда в [1, max(1, TotalPages)]
	ItemsPerPage int
	TotalItems   int
	TotalPages   int // 0 для пустого набора
	StartIndex   int // включительно, 0-based
	EndIndex     int // исключительно; может превышать TotalItems
}

// TotalPages = ceil(totalItems / itemsPerPage)
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 || itemsPerPage <= 0 {
		return 0
	}
	pages := totalItems / itemsPerPage
	if totalItems%itemsPerPage != 0 {
		pages++
	}
	return pages
}

// ClampPage приводит номер страницы к диапазону [1, max(1, totalPages)]
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// NewPage вычисляет границы страницы
func NewPage(totalItems, currentPage, itemsPerPage int) Page {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	totalPages := TotalPages(totalItems, itemsPerPage)
	currentPage = ClampPage(currentPage, totalPages)
	start := (currentPage - 1) * itemsPerPage

	return Page{
		CurrentPage:  currentPage,
		ItemsPerPage: itemsPerPage,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		StartIndex:   start,
		EndIndex:     start + itemsPerPage,
	}
}

// Paginate возвращает срез строк текущей страницы и ее границы
func Paginate[R Row](rows []R, currentPage, itemsPerPage int) ([]R, Page) {
	page := NewPage(len(rows), currentPage, itemsPerPage)

	start := min(page.StartIndex, len(rows))
	end := min(page.EndIndex, len(rows))
	return rows[start:end], page
}

// PageWindow возвращает номера страниц для кнопок навигации:
// не больше MaxWindowPages, по возможности с текущей страницей в центре.
func PageWindow(currentPage, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	currentPage = ClampPage(currentPage, totalPages)

	n := min(MaxWindowPages, totalPages)
	half := MaxWindowPages / 2

	var first int
	switch {
	case totalPages <= MaxWindowPages:
		first = 1
	case currentPage <= half+1:
		first = 1
	case currentPage >= totalPages-half:
		first = totalPages - MaxWindowPages + 1
	default:
		first = currentPage - half
	}

	window := make([]int, n)
	for i := range window {
		window[i] = first + i
	}
	return window
}

// HasPrev сообщает, доступны ли "первая"/"предыдущая"
func (p Page) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext сообщает, доступны ли "следующая"/"последняя"
func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// DisplayTotalPages — число страниц для UI (минимум 1)
func (p Page) DisplayTotalPages() int {
	return max(1, p.TotalPages)
}

// ShownFrom — номер первой показанной строки (1-based), 0 для пустого набора
func (p Page) ShownFrom() int {
	if p.TotalItems == 0 {
		return 0
	}
	return p.StartIndex + 1
}

// ShownTo — номер последней показанной строки (1-based)
func (p Page) ShownTo() int {
	return min(p.EndIndex, p.TotalItems)
}
