package docs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Заголовки разделов второго уровня, из которых извлекаются пример и варианты
var (
	codeSampleSections = []string{"code sample", "コードサンプル"}
	variationSections  = []string{"variations", "バリエーション"}
)

// errUnterminatedFrontMatter — открывающий "---" без закрывающего
var errUnterminatedFrontMatter = errors.New("unterminated front matter")

// markdown — GFM-рендерер; сырой HTML в документах экранируется
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse разбирает документ компонента: YAML front matter между "---",
// затем Markdown. Из раздела "## Code sample" берется первый блок кода,
// из "## Variations" — подразделы "### Имя" с описанием и блоком кода.
func Parse(id string, src []byte) (*Component, error) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", id, err)
	}

	c := &Component{ID: id, Content: string(body), Variations: []Variation{}}
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &c.Metadata); err != nil {
			return nil, fmt.Errorf("component %q: front matter: %w", id, err)
		}
	}
	if c.Metadata.Title == "" {
		c.Metadata.Title = id
	}

	doc := markdown.Parser().Parse(text.NewReader(body))
	extractSections(c, doc, body)

	var html bytes.Buffer
	if err := markdown.Renderer().Render(&html, body, doc); err != nil {
		return nil, fmt.Errorf("component %q: render: %w", id, err)
	}
	c.HTML = html.String()
	return c, nil
}

// splitFrontMatter отделяет YAML-заголовок; документ без "---" в первой
// строке целиком считается телом
func splitFrontMatter(src []byte) (meta, body []byte, err error) {
	lines := strings.SplitAfter(string(src), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\n") != "---" {
		return nil, src, nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\n") == "---" {
			return []byte(strings.Join(lines[1:i], "")), []byte(strings.Join(lines[i+1:], "")), nil
		}
	}
	return nil, nil, errUnterminatedFrontMatter
}

func extractSections(c *Component, doc ast.Node, src []byte) {
	var section string
	var current *Variation

	flush := func() {
		if current != nil {
			c.Variations = append(c.Variations, *current)
			current = nil
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.ToLower(strings.TrimSpace(string(node.Text(src))))
			switch node.Level {
			case 1:
			case 2:
				flush()
				section = title
			default:
				if isSection(section, variationSections) {
					flush()
					current = &Variation{Name: strings.TrimSpace(string(node.Text(src)))}
				}
			}

		case *ast.Paragraph:
			if current != nil && current.Code == "" {
				p := strings.TrimSpace(string(node.Text(src)))
				current.Description = strings.TrimSpace(current.Description + " " + p)
			}

		case *ast.FencedCodeBlock:
			code, lang := codeBlock(node, src)
			switch {
			case current != nil && current.Code == "":
				current.Code, current.Language = code, lang
			case isSection(section, codeSampleSections) && c.CodeSample == "":
				c.CodeSample, c.CodeLanguage = code, lang
			}
		}
	}
	flush()
}

func codeBlock(node *ast.FencedCodeBlock, src []byte) (code, lang string) {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n"), string(node.Language(src))
}

func isSection(title string, names []string) bool {
	for _, name := range names {
		if title == name {
			return true
		}
	}
	return false
}
