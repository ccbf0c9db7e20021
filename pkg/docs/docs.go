// Package docs — библиотека документации компонентов интерфейса.
//
// Каждый компонент описан Markdown-файлом <id>.md с YAML front matter
// (title, description, icon, parent, preview). Встроенный набор описывает
// компоненты таблицы данных; каталог из конфигурации заменяет его целиком.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

//go:embed components/*.md
var embedded embed.FS

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Metadata — поля front matter
type Metadata struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
	Parent      string `yaml:"parent" json:"parent,omitempty"`   // id родительского компонента
	Preview     string `yaml:"preview" json:"preview,omitempty"` // набор данных для живого примера
}

// Variation — вариант использования с примером кода
type Variation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Language    string `json:"language,omitempty"`
}

// Component — разобранный документ компонента
type Component struct {
	ID           string      `json:"id"`
	Metadata     Metadata    `json:"metadata"`
	Content      string      `json:"content"` // Markdown без front matter
	HTML         string      `json:"html"`
	CodeSample   string      `json:"codeSample,omitempty"`
	CodeLanguage string      `json:"codeLanguage,omitempty"`
	Variations   []Variation `json:"variations"`
	Children     []string    `json:"children,omitempty"`
}

// Field реализует datatable.Row: поиск по компонентам идет тем же фильтром,
// что и по наборам данных
func (c *Component) Field(key string) (any, bool) {
	switch key {
	case "id":
		return c.ID, true
	case "title":
		return c.Metadata.Title, true
	case "description":
		return c.Metadata.Description, true
	case "parent":
		return c.Metadata.Parent, c.Metadata.Parent != ""
	}
	return nil, false
}

// Library — компоненты в порядке id
type Library struct {
	components map[string]*Component
	order      []string
}

// Default загружает встроенный набор документов
func Default() (*Library, error) {
	sub, err := fs.Sub(embedded, "components")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load читает все *.md из корня fsys. Родитель, на который ссылается
// компонент, должен существовать.
func Load(fsys fs.FS) (*Library, error) {
	files, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}

	lib := &Library{components: make(map[string]*Component, len(files))}
	for _, name := range files {
		id := strings.TrimSuffix(path.Base(name), ".md")
		if !idPattern.MatchString(id) {
			return nil, fmt.Errorf("component file %q: id must match %s", name, idPattern)
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", id, err)
		}
		c, err := Parse(id, data)
		if err != nil {
			return nil, err
		}
		lib.components[id] = c
		lib.order = append(lib.order, id)
	}

	for _, id := range lib.order {
		c := lib.components[id]
		if c.Metadata.Parent == "" {
			continue
		}
		parent, ok := lib.components[c.Metadata.Parent]
		if !ok || parent == c {
			return nil, fmt.Errorf("component %q: unknown parent %q", id, c.Metadata.Parent)
		}
		parent.Children = append(parent.Children, id)
	}
	return lib, nil
}

// Get возвращает компонент по id
func (l *Library) Get(id string) (*Component, bool) {
	c, ok := l.components[id]
	return c, ok
}

// List возвращает все компоненты
func (l *Library) List() []*Component {
	out := make([]*Component, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.components[id])
	}
	return out
}

// Children возвращает дочерние компоненты
func (l *Library) Children(id string) []*Component {
	c, ok := l.components[id]
	if !ok {
		return nil
	}
	out := make([]*Component, 0, len(c.Children))
	for _, child := range c.Children {
		out = append(out, l.components[child])
	}
	return out
}

// Len возвращает число компонентов
func (l *Library) Len() int {
	return len(l.order)
}
