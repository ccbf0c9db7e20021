package datatable

import (
	"strings"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// FilterEngine отбирает строки по поисковому запросу
type FilterEngine struct {
	converter *schema.Converter
}

// NewFilterEngine создает новый движок фильтрации
func NewFilterEngine(converter *schema.Converter) *FilterEngine {
	return &FilterEngine{converter: converter}
}

// Filter возвращает строки, в которых хотя бы одна колонка содержит query
// (без учета регистра, подстрокой). Пустой запрос пропускает все строки.
// Относительный порядок строк сохраняется.
func Filter[R Row](rows []R, columns []schema.Column, query string) []R {
	return filterWith(converter, rows, columns, query)
}

// Match проверяет одну строку
func (f *FilterEngine) Match(row Row, columns []schema.Column, query string) bool {
	if query == "" {
		return true
	}
	return f.matchLower(row, columns, strings.ToLower(query))
}

func (f *FilterEngine) matchLower(row Row, columns []schema.Column, needle string) bool {
	for _, col := range columns {
		value := strings.ToLower(f.converter.Text(row.Field(col.Key)))
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}

func filterWith[R Row](conv *schema.Converter, rows []R, columns []schema.Column, query string) []R {
	if query == "" {
		return rows
	}

	f := NewFilterEngine(conv)
	needle := strings.ToLower(query)

	result := make([]R, 0, len(rows))
	for _, row := range rows {
		if f.matchLower(row, columns, needle) {
			result = append(result, row)
		}
	}
	return result
}
