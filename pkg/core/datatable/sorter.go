package datatable

import (
	"slices"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// Sort возвращает новый срез, упорядоченный по колонке key.
// Пустой key, неизвестная или несортируемая колонка оставляют порядок как есть.
// Порядок строк с равными ключами не гарантируется.
func Sort[R Row](rows []R, columns []schema.Column, key string, dir Direction) []R {
	return sortWith(converter, rows, columns, key, dir)
}

func sortWith[R Row](conv *schema.Converter, rows []R, columns []schema.Column, key string, dir Direction) []R {
	// Копируем срез чтобы не модифицировать оригинал
	result := make([]R, len(rows))
	copy(result, rows)

	if key == "" {
		return result
	}
	col, ok := schema.FindColumn(columns, key)
	if !ok || !col.IsSortable() {
		return result
	}

	comparator := NewComparator(conv, col.Type())

	// Ключи вычисляются один раз на строку: даты не разбираются в каждом сравнении
	type keyed struct {
		row R
		key sortKey
	}
	items := make([]keyed, len(result))
	for i, row := range result {
		items[i] = keyed{row: row, key: comparator.key(row.Field(key))}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		c := comparator.compareKeys(a.key, b.key)
		if dir == Desc {
			return -c
		}
		return c
	})

	for i, it := range items {
		result[i] = it.row
	}
	return result
}
