package schema

import "strings"

// SortType определяет политику сравнения значений колонки
type SortType string

// Поддерживаемые типы сортировки
const (
	SortString SortType = "string"
	SortNumber SortType = "number"
	SortDate   SortType = "date"
)

// NormalizeSortType нормализует синонимы типов.
// Неизвестный или пустой тип сортируется как строка.
func NormalizeSortType(t SortType) SortType {
	switch SortType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case SortNumber, "integer", "int", "real", "float", "double", "decimal":
		return SortNumber
	case SortDate, "datetime", "timestamp", "time":
		return SortDate
	default:
		return SortString
	}
}

// IsValidSortType проверяет, что тип пуст, равен одному из поддерживаемых
// значений или их синонимов
func IsValidSortType(t SortType) bool {
	switch SortType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case "", SortString, "text":
		return true
	}
	return NormalizeSortType(t) != SortString
}

// Column описывает одну колонку таблицы
type Column struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	Sortable *bool    `yaml:"sortable,omitempty" json:"sortable,omitempty"` // nil = true
	SortType SortType `yaml:"sort_type,omitempty" json:"sortType,omitempty"`
}

// IsSortable возвращает false только если сортировка явно запрещена
func (c Column) IsSortable() bool {
	return c.Sortable == nil || *c.Sortable
}

// Type возвращает нормализованный тип сортировки
func (c Column) Type() SortType {
	return NormalizeSortType(c.SortType)
}

// Title возвращает подпись для заголовка (ключ, если подпись не задана)
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// FindColumn ищет колонку по ключу
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Keys возвращает ключи колонок в порядке объявления
func Keys(columns []Column) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	return keys
}
