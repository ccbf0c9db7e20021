package sources

import (
	"sort"
	"strings"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// inferSample — сколько записей просматривается при выводе типа колонки
const inferSample = 100

// InferColumns выводит схему из записей: ключи в алфавитном порядке, id первым.
// Колонка считается number, если все непустые значения — числа,
// date — если все непустые значения — даты, иначе string.
func InferColumns(records []datatable.Record) []schema.Column {
	sample := records
	if len(sample) > inferSample {
		sample = sample[:inferSample]
	}

	seen := make(map[string]bool)
	var keys []string
	for _, r := range sample {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if (keys[i] == "id") != (keys[j] == "id") {
			return keys[i] == "id"
		}
		return keys[i] < keys[j]
	})

	conv := schema.NewConverter()
	b := schema.NewBuilder()
	for _, k := range keys {
		b.Add(schema.Column{Key: k, SortType: inferType(conv, sample, k)})
	}
	return b.Build()
}

func inferType(conv *schema.Converter, rows []datatable.Record, key string) schema.SortType {
	numbers, dates, total := 0, 0, 0
	for _, r := range rows {
		v, ok := r[key]
		if !ok || v == nil || strings.TrimSpace(conv.Text(v, true)) == "" {
			continue
		}
		total++
		if _, isNum := conv.TryNumber(v, true); isNum {
			numbers++
			continue
		}
		if _, isDate := conv.TryTime(v, true); isDate {
			dates++
		}
	}

	switch {
	case total == 0:
		return schema.SortString
	case numbers == total:
		return schema.SortNumber
	case dates == total:
		return schema.SortDate
	default:
		return schema.SortString
	}
}

// sqlColumnType сопоставляет тип колонки БД (DatabaseTypeName) типу сортировки
func sqlColumnType(dbType string) schema.SortType {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"),
		strings.Contains(t, "DEC"),
		strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOAT"),
		strings.Contains(t, "DOUBLE"),
		strings.Contains(t, "MONEY"):
		return schema.SortNumber
	case strings.Contains(t, "DATE"),
		strings.Contains(t, "TIME"):
		return schema.SortDate
	default:
		return schema.SortString
	}
}
