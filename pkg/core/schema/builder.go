package schema

// Builder помогает строить схемы колонок
type Builder struct {
	columns []Column
}

// NewBuilder создает новый builder
func NewBuilder() *Builder {
	return &Builder{
		columns: []Column{},
	}
}

// AddText добавляет строковую колонку
func (b *Builder) AddText(key, label string) *Builder {
	b.columns = append(b.columns, Column{
		Key:      key,
		Label:    label,
		SortType: SortString,
	})
	return b
}

// AddNumber добавляет числовую колонку
func (b *Builder) AddNumber(key, label string) *Builder {
	b.columns = append(b.columns, Column{
		Key:      key,
		Label:    label,
		SortType: SortNumber,
	})
	return b
}

// AddDate добавляет колонку даты/времени
func (b *Builder) AddDate(key, label string) *Builder {
	b.columns = append(b.columns, Column{
		Key:      key,
		Label:    label,
		SortType: SortDate,
	})
	return b
}

// AddStatic добавляет колонку без сортировки (участвует только в поиске)
func (b *Builder) AddStatic(key, label string) *Builder {
	sortable := false
	b.columns = append(b.columns, Column{
		Key:      key,
		Label:    label,
		Sortable: &sortable,
	})
	return b
}

// Add добавляет произвольно настроенную колонку
func (b *Builder) Add(col Column) *Builder {
	b.columns = append(b.columns, col)
	return b
}

// Build возвращает построенную схему
func (b *Builder) Build() []Column {
	out := make([]Column, len(b.columns))
	copy(out, b.columns)
	return out
}
