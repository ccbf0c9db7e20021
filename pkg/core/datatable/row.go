package datatable

import (
	"strconv"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// Row — строка данных, из которой значения читаются по ключу колонки.
// Второй результат false означает, что поля нет.
type Row interface {
	Field(key string) (any, bool)
}

// Record — строка в виде map (основной тип строк источников данных)
type Record map[string]any

// Field реализует Row
func (r Record) Field(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// RowKeyFunc вычисляет стабильный ключ строки для рендеринга.
// index — позиция строки внутри текущей страницы.
type RowKeyFunc[R Row] func(row R, index int) string

// DefaultRowKey использует поле id, если оно есть, иначе позицию на странице
func DefaultRowKey[R Row](row R, index int) string {
	if v, ok := row.Field("id"); ok && v != nil {
		return converter.Text(v, true)
	}
	return strconv.Itoa(index)
}

// converter общий для пакета; Converter не хранит изменяемого состояния
var converter = schema.NewConverter()
