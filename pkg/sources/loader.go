package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Политика обработки ошибок загрузки
const (
	OnErrorFail = "fail" // первая ошибка прерывает загрузку
	OnErrorSkip = "skip" // источник пропускается с предупреждением
)

// Catalog — именованные наборы данных в порядке конфигурации
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	datasets map[string]*Dataset
}

// NewCatalog создает пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{datasets: make(map[string]*Dataset)}
}

// Add добавляет или заменяет набор
func (c *Catalog) Add(ds *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.datasets[ds.Name]; !exists {
		c.order = append(c.order, ds.Name)
	}
	c.datasets[ds.Name] = ds
}

// Get возвращает набор по имени
func (c *Catalog) Get(name string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.datasets[name]
	return ds, ok
}

// List возвращает наборы в порядке добавления
func (c *Catalog) List() []*Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Dataset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.datasets[name])
	}
	return out
}

// Len возвращает число наборов
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Loader загружает все настроенные источники
type Loader struct {
	Sources []Config
	OnError string // fail (по умолчанию) | skip
}

// Validate проверяет все источники и уникальность имен
func (l *Loader) Validate() error {
	switch l.OnError {
	case "", OnErrorFail, OnErrorSkip:
	default:
		return fmt.Errorf("on_source_error must be %q or %q, got %q", OnErrorFail, OnErrorSkip, l.OnError)
	}

	seen := make(map[string]bool, len(l.Sources))
	for _, src := range l.Sources {
		if err := src.Validate(); err != nil {
			return err
		}
		if seen[src.Name] {
			return fmt.Errorf("source %q: duplicate name", src.Name)
		}
		seen[src.Name] = true
	}
	return nil
}

// LoadAll открывает источники по порядку. При политике skip неудачные
// источники пропускаются, их ошибки возвращаются в failed (имя → ошибка).
func (l *Loader) LoadAll(ctx context.Context) (catalog *Catalog, failed map[string]error, err error) {
	if err := l.Validate(); err != nil {
		return nil, nil, err
	}

	catalog = NewCatalog()
	failed = make(map[string]error)

	for _, src := range l.Sources {
		ds, err := Open(ctx, src)
		if err != nil {
			if l.OnError != OnErrorSkip {
				return nil, nil, err
			}
			log.Warn().Err(err).Str("source", src.Name).Str("type", src.Type).Msg("source skipped")
			failed[src.Name] = err
			continue
		}

		log.Info().
			Str("source", ds.Name).
			Str("type", ds.Type).
			Int("rows", ds.Len()).
			Int("columns", len(ds.Columns())).
			Msg("source loaded")
		catalog.Add(ds)
	}

	return catalog, failed, nil
}

// StreamConfigs возвращает конфигурации живых источников (по имени)
func (l *Loader) StreamConfigs() []Config {
	var out []Config
	for _, src := range l.Sources {
		if src.Type == TypeStream {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
