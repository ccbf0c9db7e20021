package main

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/ruslano69/tdtp-datagrid/pkg/docs"
	"github.com/ruslano69/tdtp-datagrid/pkg/session"
)

// componentColumns — поля, по которым ищет поиск библиотеки компонентов
var componentColumns = schema.NewBuilder().
	AddText("id", "ID").
	AddText("title", "Title").
	AddText("description", "Description").
	Build()

type componentInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Parent      string   `json:"parent,omitempty"`
	Children    []string `json:"children,omitempty"`
}

// findComponents фильтрует библиотеку движком таблицы
func (s *Server) findComponents(query string) []*docs.Component {
	return datatable.Filter(s.components.List(), componentColumns, query)
}

func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	found := s.findComponents(r.URL.Query().Get(datatable.ParamQuery))
	out := make([]componentInfo, 0, len(found))
	for _, c := range found {
		out = append(out, componentInfo{
			ID:          c.ID,
			Title:       c.Metadata.Title,
			Description: c.Metadata.Description,
			Icon:        c.Metadata.Icon,
			Parent:      c.Metadata.Parent,
			Children:    c.Children,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	c, ok := s.components.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleComponentsPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	query := r.URL.Query().Get(datatable.ParamQuery)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderComponents(w, sess, query)
}

func (s *Server) handleComponentPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.components.Get(id)
	if !ok {
		http.Error(w, "component not found: "+id, http.StatusNotFound)
		return
	}
	sess, _ := session.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderComponent(w, sess, c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Страницы библиотеки компонентов
// ─────────────────────────────────────────────────────────────────────────────

const componentsCSS = `<style>
  .comp-list { list-style:none; }
  .comp-list .comp-list { margin-left:22px; border-left:1px solid #334155; padding-left:12px; }
  .comp-item { padding:10px 20px; }
  .comp-item a { color:#e2e8f0; font-weight:600; text-decoration:none; }
  .comp-item a:hover { color:#60a5fa; }
  .comp-desc { font-size:12px; color:#64748b; margin-top:2px; }
  .doc-body { padding:20px 28px; line-height:1.6; font-size:14px; color:#cbd5e1; }
  .doc-body h1 { display:none; }
  .doc-body h2 { font-size:16px; color:#f1f5f9; margin:22px 0 10px; }
  .doc-body h3 { font-size:14px; color:#e2e8f0; margin:16px 0 8px; }
  .doc-body p  { margin:8px 0; }
  .doc-body pre { background:#0f172a; border:1px solid #334155; border-radius:8px; padding:12px 14px; overflow-x:auto; }
  .doc-body code { font-family:monospace; font-size:12px; color:#93c5fd; }
  .doc-body table { border-collapse:collapse; margin:10px 0; }
  .doc-body th, .doc-body td { border:1px solid #334155; padding:6px 10px; text-align:left; }
  .empty-state { padding:48px 20px; text-align:center; color:#64748b; font-size:14px; }
</style>`

func (s *Server) renderComponents(w http.ResponseWriter, sess *session.Session, query string) {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Components — ` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + componentsCSS + `
</head>
<body>
<div class="container">
`)
	writeNavbar(&b, s.cfg.Server.Name, "components", sess)

	b.WriteString(`<div class="card">`)
	b.WriteString(`<form method="GET" action="/components" class="filter-bar" style="padding:14px 20px;display:flex;gap:12px;">`)
	b.WriteString(`<input class="filter-input" style="flex:1" type="search" name="` + datatable.ParamQuery + `" placeholder="Search components..."`)
	if query != "" {
		b.WriteString(` value="` + html.EscapeString(query) + `"`)
	}
	b.WriteString(`><button class="btn btn-primary" type="submit">Search</button>`)
	if query != "" {
		b.WriteString(`<a class="btn btn-ghost" href="/components">Clear</a>`)
	}
	b.WriteString(`</form>`)

	switch {
	case query != "":
		found := s.findComponents(query)
		if len(found) == 0 {
			b.WriteString(`<div class="empty-state">No components found</div>`)
			break
		}
		b.WriteString(`<ul class="comp-list">`)
		for _, c := range found {
			writeComponentItem(&b, c)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	default:
		b.WriteString(`<ul class="comp-list">`)
		for _, c := range s.components.List() {
			if c.Metadata.Parent == "" {
				s.writeComponentTree(&b, c)
			}
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`</div>`)
	b.WriteString(`<div class="footer"><a href="/">← back</a></div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}

func (s *Server) writeComponentTree(b *strings.Builder, c *docs.Component) {
	writeComponentItem(b, c)
	if children := s.components.Children(c.ID); len(children) > 0 {
		b.WriteString(`<ul class="comp-list">`)
		for _, child := range children {
			s.writeComponentTree(b, child)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</li>`)
}

// writeComponentItem открывает <li>; закрывает вызывающий
func writeComponentItem(b *strings.Builder, c *docs.Component) {
	b.WriteString(`<li class="comp-item" data-id="` + html.EscapeString(c.ID) + `">`)
	b.WriteString(`<a href="/components/` + html.EscapeString(c.ID) + `">` + html.EscapeString(c.Metadata.Title) + `</a>`)
	if c.Metadata.Description != "" {
		b.WriteString(`<div class="comp-desc">` + html.EscapeString(c.Metadata.Description) + `</div>`)
	}
}

func (s *Server) renderComponent(w http.ResponseWriter, sess *session.Session, c *docs.Component) {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>` + html.EscapeString(c.Metadata.Title) + ` — ` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + componentsCSS + `
</head>
<body>
<div class="container">
`)
	writeNavbar(&b, s.cfg.Server.Name, "components", sess)

	b.WriteString(`<div class="header-card">`)
	b.WriteString(`<div class="header-top">`)
	b.WriteString(`<span class="table-name">` + html.EscapeString(c.Metadata.Title) + `</span>`)
	if c.Metadata.Icon != "" {
		b.WriteString(`<span class="badge badge-reference">` + html.EscapeString(c.Metadata.Icon) + `</span>`)
	}
	if c.Metadata.Preview != "" {
		if _, ok := s.catalog.Get(c.Metadata.Preview); ok {
			b.WriteString(`<a class="btn btn-ghost" href="/data/` + html.EscapeString(c.Metadata.Preview) + `">Live preview</a>`)
		}
	}
	b.WriteString(`</div>`)
	b.WriteString(`<div class="meta-grid">`)
	if c.Metadata.Description != "" {
		writeMetaItem(&b, "Description", c.Metadata.Description)
	}
	writeMetaItem(&b, "Variations", strconv.Itoa(len(c.Variations)))
	b.WriteString(`</div>`)

	if parent, ok := s.components.Get(c.Metadata.Parent); ok {
		b.WriteString(`<div class="comp-desc" style="margin-top:12px;">Part of <a href="/components/` +
			html.EscapeString(parent.ID) + `">` + html.EscapeString(parent.Metadata.Title) + `</a></div>`)
	}
	if children := s.components.Children(c.ID); len(children) > 0 {
		b.WriteString(`<div class="comp-desc" style="margin-top:6px;">Parts:`)
		for _, child := range children {
			b.WriteString(` <a href="/components/` + html.EscapeString(child.ID) + `">` + html.EscapeString(child.Metadata.Title) + `</a>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)

	// HTML уже экранирован рендерером Markdown
	b.WriteString(`<div class="card"><div class="doc-body">` + c.HTML + `</div></div>`)

	b.WriteString(`<div class="footer"><a href="/components">← components</a></div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Профиль
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderProfile(w, sess)
}

func (s *Server) renderProfile(w http.ResponseWriter, sess *session.Session) {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Profile — ` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + `
</head>
<body>
<div class="container">
`)
	writeNavbar(&b, s.cfg.Server.Name, "profile", sess)

	b.WriteString(`<div class="header-card">`)
	b.WriteString(`<div class="header-top"><span class="table-name">Profile</span></div>`)
	b.WriteString(`<div class="meta-grid">`)
	if sess != nil {
		email := sess.Email
		if email == "" {
			email = "(not given)"
		}
		writeMetaItem(&b, "Email", email)
		writeMetaItem(&b, "Signed in", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		writeMetaItem(&b, "Session expires", sess.CreatedAt.Add(s.cfg.sessionTTL()).Format("2006-01-02 15:04:05"))
	}
	backend := s.cfg.Session.Backend
	if backend == "" {
		backend = session.BackendMemory
	}
	writeMetaItem(&b, "Session store", backend)
	b.WriteString(`</div></div>`)

	b.WriteString(`<div class="footer"><a href="/">← back</a></div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}
