package schema

import "fmt"

// Issue описывает замечание к схеме колонок.
// Движок таблицы схему не валидирует: замечания только логируются вызывающей стороной.
type Issue struct {
	Index   int
	Key     string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("column[%d] %q: %s", i.Index, i.Key, i.Message)
}

// Lint проверяет схему и возвращает список замечаний (пустой, если их нет)
func Lint(columns []Column) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(columns))

	for i, col := range columns {
		if col.Key == "" {
			issues = append(issues, Issue{Index: i, Message: "empty key"})
			continue
		}

		if first, dup := seen[col.Key]; dup {
			issues = append(issues, Issue{
				Index:   i,
				Key:     col.Key,
				Message: fmt.Sprintf("duplicate key (first declared at %d)", first),
			})
		} else {
			seen[col.Key] = i
		}

		if !IsValidSortType(col.SortType) {
			issues = append(issues, Issue{
				Index:   i,
				Key:     col.Key,
				Message: fmt.Sprintf("unknown sort type %q, compared as %s", col.SortType, col.Type()),
			})
		}
	}

	return issues
}
