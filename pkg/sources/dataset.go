package sources

import (
	"sync"
	"time"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// Dataset — именованный набор строк со схемой.
// Rows возвращает снимок: читатели не видят последующих Append.
// Безопасен для конкурентных читателей и одного писателя.
type Dataset struct {
	Name        string
	Type        string
	Description string

	mu        sync.RWMutex
	columns   []schema.Column
	rows      []datatable.Record
	maxRows   int
	updatedAt time.Time
}

// NewDataset создает набор; maxRows <= 0 — без ограничения
func NewDataset(name, typ string, columns []schema.Column, rows []datatable.Record, maxRows int) *Dataset {
	d := &Dataset{
		Name:      name,
		Type:      typ,
		columns:   columns,
		maxRows:   maxRows,
		updatedAt: time.Now(),
	}
	d.rows = d.trim(rows)
	return d
}

// Columns возвращает схему
func (d *Dataset) Columns() []schema.Column {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.columns
}

// Rows возвращает снимок строк
func (d *Dataset) Rows() []datatable.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	// Append всегда создает новый срез, поэтому отдаем текущий без копирования
	return d.rows[:len(d.rows):len(d.rows)]
}

// Len возвращает число строк
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rows)
}

// UpdatedAt возвращает время последнего изменения
func (d *Dataset) UpdatedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.updatedAt
}

// Append добавляет записи; при превышении maxRows отбрасываются самые старые.
// Пустая схема выводится из первых добавленных записей.
func (d *Dataset) Append(records ...datatable.Record) {
	if len(records) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := make([]datatable.Record, 0, len(d.rows)+len(records))
	next = append(next, d.rows...)
	next = append(next, records...)
	d.rows = d.trim(next)

	if len(d.columns) == 0 {
		d.columns = InferColumns(records)
	}
	d.updatedAt = time.Now()
}

func (d *Dataset) trim(rows []datatable.Record) []datatable.Record {
	if d.maxRows > 0 && len(rows) > d.maxRows {
		return rows[len(rows)-d.maxRows:]
	}
	return rows
}
