package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// LoadFunc загружает строки источника.
// Возвращенные колонки используются, только если в Config они не заданы;
// nil — вывести схему из строк.
type LoadFunc func(ctx context.Context, cfg Config) ([]datatable.Record, []schema.Column, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]LoadFunc)
)

// Register регистрирует загрузчик для типа источника.
// Встроенные типы регистрируются в init() своих файлов.
func Register(typ string, fn LoadFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typ] = fn
}

// RegisteredTypes возвращает зарегистрированные типы в алфавитном порядке
func RegisteredTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Open проверяет конфигурацию и загружает набор данных.
// Для stream возвращается пустой живой набор.
func Open(ctx context.Context, cfg Config) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Type == TypeStream {
		ds := NewDataset(cfg.Name, cfg.Type, cfg.Columns, nil, cfg.MaxRows)
		ds.Description = cfg.Description
		return ds, nil
	}

	registryMu.RLock()
	load, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source %q: %w: %s (available types: %v)", cfg.Name, ErrUnknownType, cfg.Type, RegisteredTypes())
	}

	rows, columns, err := load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("source %q: load %s: %w", cfg.Name, cfg.Type, err)
	}

	switch {
	case len(cfg.Columns) > 0:
		columns = cfg.Columns
	case len(columns) == 0:
		columns = InferColumns(rows)
	}

	ds := NewDataset(cfg.Name, cfg.Type, columns, rows, cfg.MaxRows)
	ds.Description = cfg.Description
	return ds, nil
}
