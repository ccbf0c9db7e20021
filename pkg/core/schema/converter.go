package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Форматы дат, которые распознает Converter.Time (в порядке проверки).
// Форматы без зоны интерпретируются в Location конвертера.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// Converter приводит произвольные значения строк к тексту, числу или времени.
// Ни один метод не возвращает ошибку: неприводимое значение заменяется
// пустой строкой, нулем или эпохой соответственно.
type Converter struct {
	Location *time.Location
}

// NewConverter создает новый конвертер (даты без зоны считаются UTC)
func NewConverter() *Converter {
	return &Converter{Location: time.UTC}
}

// Text приводит значение к строке; отсутствующее значение дает ""
func (c *Converter) Text(v any, ok bool) string {
	if !ok || v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(val), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(val), 10)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return c.Text(*val, true)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Number приводит значение к float64; неприводимое значение дает 0
func (c *Converter) Number(v any, ok bool) float64 {
	f, _ := c.TryNumber(v, ok)
	return f
}

// TryNumber как Number, но сообщает, удалось ли приведение
func (c *Converter) TryNumber(v any, ok bool) (float64, bool) {
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	parsed := true
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8, int16, int32, int64:
		f = float64(toInt64(val))
	case uint, uint8, uint16, uint32, uint64:
		f = float64(toUint64(val))
	case bool:
		if val {
			f = 1
		}
	case time.Time:
		f = float64(val.UnixMilli())
	case string:
		f, parsed = parseNumber(val)
	case []byte:
		f, parsed = parseNumber(string(val))
	default:
		f, parsed = parseNumber(c.Text(v, true))
	}

	if !parsed || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Time приводит значение к моменту времени; неприводимое значение дает эпоху.
// Числа интерпретируются как Unix-миллисекунды.
func (c *Converter) Time(v any, ok bool) time.Time {
	if t, parsed := c.TryTime(v, ok); parsed {
		return t
	}
	return time.UnixMilli(0).UTC()
}

// TryTime как Time, но сообщает, удалось ли приведение
func (c *Converter) TryTime(v any, ok bool) (time.Time, bool) {
	if !ok || v == nil {
		return time.Time{}, false
	}

	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		return c.parseTime(val)
	case []byte:
		return c.parseTime(string(val))
	case bool:
		return time.Time{}, false
	}

	// вне диапазона int64 преобразование не определено
	ms := c.Number(v, true)
	if ms == 0 || ms >= math.MaxInt64 || ms < math.MinInt64 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// parseTime пробует все известные форматы
func (c *Converter) parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber разбирает число из строки
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// formatFloat печатает число в кратчайшей десятичной форме ("1.5", "3")
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}
