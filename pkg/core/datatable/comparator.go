package datatable

import (
	"cmp"
	"strings"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// sortKey — значение колонки, заранее приведенное к типу сортировки
type sortKey struct {
	text   string
	number float64
	millis int64
}

// Comparator сравнивает значения колонки по ее типу сортировки
type Comparator struct {
	converter *schema.Converter
	sortType  schema.SortType
}

// NewComparator создает компаратор для типа сортировки
func NewComparator(converter *schema.Converter, sortType schema.SortType) *Comparator {
	return &Comparator{
		converter: converter,
		sortType:  schema.NormalizeSortType(sortType),
	}
}

// Compare сравнивает два сырых значения.
// Возвращает: -1 если a < b, 0 если равны, 1 если a > b
func (c *Comparator) Compare(a, b any) int {
	return c.compareKeys(c.key(a, a != nil), c.key(b, b != nil))
}

// key приводит значение к ключу сортировки.
// Отсутствующее значение: "" для строк, 0 для чисел, эпоха для дат.
func (c *Comparator) key(v any, ok bool) sortKey {
	switch c.sortType {
	case schema.SortNumber:
		return sortKey{number: c.converter.Number(v, ok)}
	case schema.SortDate:
		return sortKey{millis: c.converter.Time(v, ok).UnixMilli()}
	default:
		return sortKey{text: strings.ToLower(c.converter.Text(v, ok))}
	}
}

func (c *Comparator) compareKeys(a, b sortKey) int {
	switch c.sortType {
	case schema.SortNumber:
		return cmp.Compare(a.number, b.number)
	case schema.SortDate:
		return cmp.Compare(a.millis, b.millis)
	default:
		return strings.Compare(a.text, b.text)
	}
}
