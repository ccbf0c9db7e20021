package main

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/ruslano69/tdtp-datagrid/pkg/session"
	"github.com/ruslano69/tdtp-datagrid/pkg/sources"
)

var cellConverter = schema.NewConverter()

// ─────────────────────────────────────────────────────────────────────────────
// Login page
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) renderLogin(w http.ResponseWriter) {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Sign in — ` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + `
<style>
  .login-card {
    max-width:380px; margin:80px auto 0; background:#1e293b;
    border:1px solid #334155; border-radius:12px; padding:28px;
  }
  .login-title { font-size:20px; font-weight:700; color:#f1f5f9; margin-bottom:20px; }
  .login-card label { display:block; margin-bottom:14px; }
  .login-card .filter-input { width:100%; margin-top:4px; }
  .login-card .btn { width:100%; margin-top:8px; }
</style>
</head>
<body>
<div class="container">
<form class="login-card" method="POST" action="/login">
<div class="login-title">` + html.EscapeString(s.cfg.Server.Name) + `</div>
<label><span class="filter-label">Email</span>
<input class="filter-input" type="email" name="email" placeholder="example@email.com" autocomplete="username"></label>
<label><span class="filter-label">Password</span>
<input class="filter-input" type="password" name="password" placeholder="••••••••" autocomplete="current-password"></label>
<button class="btn btn-primary" type="submit">Sign in</button>
</form>
</div></body></html>`)

	fmt.Fprint(w, b.String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Index page
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) renderIndex(w http.ResponseWriter, sess *session.Session) {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + `
<style>
  .grid { display:grid; grid-template-columns:repeat(auto-fill,minmax(300px,1fr)); gap:16px; }
  .card-link { text-decoration:none; color:inherit; display:block; }
  .src-card {
    background:#1e293b; border:1px solid #334155; border-radius:12px;
    padding:20px; transition:border-color .15s, transform .1s;
  }
  .src-card:hover { border-color:#3b82f6; transform:translateY(-1px); }
  .src-card.is-live:hover { border-color:#34d399; }
  .card-name { font-size:16px; font-weight:700; color:#f1f5f9; }
  .card-meta { display:flex; gap:8px; flex-wrap:wrap; margin-top:10px; }
  .tag {
    font-size:11px; font-weight:600; padding:2px 8px; border-radius:10px;
    background:#1e293b; color:#94a3b8; border:1px solid #334155;
  }
  .tag-rows { color:#34d399; border-color:#1a3a2a; background:#0d2019; }
  .tag-type { color:#60a5fa; border-color:#1e3a5f; background:#0d1f3c; }
  .tag-live { color:#fbbf24; border-color:#3f2d0a; background:#241a06; }
  .card-desc { font-size:12px; color:#64748b; margin-top:8px; font-style:italic; }
  .section-title {
    font-size:12px; font-weight:700; color:#475569;
    text-transform:uppercase; letter-spacing:.06em; margin:24px 0 12px;
  }
</style>
</head>
<body>
<div class="container">
`)
	writeNavbar(&b, s.cfg.Server.Name, "", sess)

	datasets := s.catalog.List()
	totalRows := 0
	for _, d := range datasets {
		totalRows += d.Len()
	}

	b.WriteString(`<div class="meta-grid" style="margin-bottom:24px;">`)
	writeMetaItem(&b, "Datasets", strconv.Itoa(len(datasets)))
	writeMetaItem(&b, "Rows", strconv.Itoa(totalRows))
	writeMetaItem(&b, "Started", s.startedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="section-title">Datasets</div><div class="grid">`)
	for _, d := range datasets {
		writeDatasetCard(&b, d)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="footer">tdtpgrid</div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}

func writeDatasetCard(b *strings.Builder, d *sources.Dataset) {
	live := d.Type == sources.TypeStream

	b.WriteString(`<a class="card-link" href="/data/` + html.EscapeString(d.Name) + `">`)
	if live {
		b.WriteString(`<div class="src-card is-live">`)
	} else {
		b.WriteString(`<div class="src-card">`)
	}
	b.WriteString(`<span class="card-name">` + html.EscapeString(d.Name) + `</span>`)
	b.WriteString(`<div class="card-meta">`)
	b.WriteString(`<span class="tag tag-type">` + html.EscapeString(d.Type) + `</span>`)
	if live {
		b.WriteString(`<span class="tag tag-live">live</span>`)
	}
	b.WriteString(`<span class="tag tag-rows">` + strconv.Itoa(d.Len()) + ` rows</span>`)
	b.WriteString(`<span class="tag">` + strconv.Itoa(len(d.Columns())) + ` columns</span>`)
	b.WriteString(`</div>`)
	if d.Description != "" {
		b.WriteString(`<div class="card-desc">` + html.EscapeString(d.Description) + `</div>`)
	}
	b.WriteString(`</div></a>`)
}

// ─────────────────────────────────────────────────────────────────────────────
// Data page
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) renderData(
	w http.ResponseWriter,
	sess *session.Session,
	ds *sources.Dataset,
	columns []schema.Column,
	view datatable.View[datatable.Record],
) {
	opts := s.cfg.Table
	base := "/data/" + ds.Name

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>` + html.EscapeString(ds.Name) + ` — ` + html.EscapeString(s.cfg.Server.Name) + `</title>
` + commonCSS() + `
<style>
  .filter-bar {
    padding:14px 20px; border-bottom:1px solid #334155;
    display:flex; gap:12px; flex-wrap:wrap; align-items:center;
  }
  .filter-bar .filter-input { flex:1; min-width:220px; }
  .pager {
    display:flex; gap:6px; flex-wrap:wrap; align-items:center;
    padding:12px 20px; background:#0f172a; font-size:12px; color:#64748b;
  }
  .pager .info { margin-right:auto; }
  .pager a, .pager span.pg {
    min-width:30px; text-align:center; padding:4px 8px; border-radius:6px;
    border:1px solid #334155; color:#94a3b8; text-decoration:none;
  }
  .pager a:hover { border-color:#3b82f6; color:#e2e8f0; }
  .pager .current { background:#2563eb; border-color:#2563eb; color:#fff; }
  .pager .disabled { opacity:.35; }
  .pager select { background:#0f172a; color:#e2e8f0; border:1px solid #334155; border-radius:6px; padding:3px 6px; }
  .data-wrapper { overflow-x:auto; }
  .data-table { width:100%; border-collapse:collapse; font-size:13px; }
  .data-table th {
    padding:10px 14px; text-align:left;
    font-size:11px; font-weight:600; color:#475569;
    text-transform:uppercase; letter-spacing:.04em;
    border-bottom:2px solid #334155; background:#0f172a; white-space:nowrap;
  }
  .data-table th a { color:#94a3b8; text-decoration:none; }
  .data-table th a:hover { color:#e2e8f0; }
  .data-table th.sorted a { color:#60a5fa; }
  .data-table td {
    padding:8px 14px; border-bottom:1px solid #1e293b;
    font-family:monospace; color:#cbd5e1;
    max-width:320px; overflow:hidden; text-overflow:ellipsis; white-space:nowrap;
  }
  .data-table tr:hover td { background:#1e2d42; }
  .data-table tr:nth-child(even) td { background:#18222f; }
  .null-val { color:#475569; font-style:italic; }
  .num-val  { color:#60a5fa; text-align:right; }
  .empty-state { padding:48px 20px; text-align:center; color:#64748b; font-size:14px; }
</style>
</head>
<body>
<div class="container">
`)

	writeNavbar(&b, s.cfg.Server.Name, ds.Name, sess)

	b.WriteString(`<div class="header-card">`)
	b.WriteString(`<div class="header-top">`)
	b.WriteString(`<span class="table-name">` + html.EscapeString(ds.Name) + `</span>`)
	b.WriteString(`<span class="badge badge-reference">` + html.EscapeString(strings.ToUpper(ds.Type)) + `</span>`)
	b.WriteString(`<a class="btn btn-ghost" href="/api/datasets/` + html.EscapeString(ds.Name) + `/export.xlsx?` +
		html.EscapeString(view.State.WithPage(1).Encode()) + `">Export XLSX</a>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div class="meta-grid">`)
	writeMetaItem(&b, "Total rows", strconv.Itoa(view.TotalRows))
	writeMetaItem(&b, "Matched", strconv.Itoa(view.TotalItems))
	writeMetaItem(&b, "Columns", strconv.Itoa(len(columns)))
	writeMetaItem(&b, "Updated", ds.UpdatedAt().Format("2006-01-02 15:04:05"))
	if ds.Description != "" {
		writeMetaItem(&b, "Description", ds.Description)
	}
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)

	b.WriteString(`<div class="card">`)

	if view.Searchable {
		writeSearchBar(&b, base, opts.SearchPlaceholder, view.State)
	}
	if view.ShowPagination {
		writePager(&b, base, opts, view)
	}

	if view.Empty {
		b.WriteString(`<div class="empty-state">No data found</div>`)
	} else {
		writeTable(&b, base, columns, view)
	}

	if view.ShowPagination {
		writePager(&b, base, opts, view)
	}

	b.WriteString(`</div>`)
	b.WriteString(`<div class="footer"><a href="/">← back</a></div>`)
	b.WriteString(`</div></body></html>`)

	fmt.Fprint(w, b.String())
}

// writeSearchBar рисует форму поиска; сортировка и размер страницы идут скрытыми полями
func writeSearchBar(b *strings.Builder, base, placeholder string, state datatable.State) {
	b.WriteString(`<form method="GET" action="` + html.EscapeString(base) + `" class="filter-bar">`)
	b.WriteString(`<input class="filter-input" type="search" name="` + datatable.ParamQuery + `"`)
	b.WriteString(` placeholder="` + html.EscapeString(placeholder) + `"`)
	if state.SearchQuery != "" {
		b.WriteString(` value="` + html.EscapeString(state.SearchQuery) + `"`)
	}
	b.WriteString(`>`)
	if state.Sorted() {
		writeHidden(b, datatable.ParamSort, state.SortColumn)
		writeHidden(b, datatable.ParamDirection, string(state.SortDirection))
	}
	writeHidden(b, datatable.ParamPerPage, strconv.Itoa(state.ItemsPerPage))
	b.WriteString(`<button class="btn btn-primary" type="submit">Search</button>`)
	if state.SearchQuery != "" {
		b.WriteString(`<a class="btn btn-ghost" href="` + stateHref(base, state.WithSearch("")) + `">Clear</a>`)
	}
	b.WriteString(`</form>`)
}

func writeTable(b *strings.Builder, base string, columns []schema.Column, view datatable.View[datatable.Record]) {
	state := view.State

	b.WriteString(`<div class="data-wrapper"><table class="data-table"><thead><tr>`)
	for _, col := range columns {
		next, sortable := state.Toggle(col.Key, columns)
		if !sortable {
			b.WriteString(`<th>` + html.EscapeString(col.Title()) + `</th>`)
			continue
		}

		indicator := ""
		cls := ""
		if state.SortColumn == col.Key {
			cls = ` class="sorted"`
			indicator = ` &#9650;`
			if state.SortDirection == datatable.Desc {
				indicator = ` &#9660;`
			}
		}
		b.WriteString(`<th` + cls + `><a href="` + stateHref(base, next) + `">` +
			html.EscapeString(col.Title()) + indicator + `</a></th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	for i, row := range view.Rows {
		b.WriteString(`<tr data-key="` + html.EscapeString(view.Keys[i]) + `">`)
		for _, col := range columns {
			v, ok := row.Field(col.Key)
			if !ok || v == nil {
				b.WriteString(`<td><span class="null-val">&ndash;</span></td>`)
				continue
			}
			text := html.EscapeString(cellConverter.Text(v, ok))
			if col.Type() == schema.SortNumber {
				b.WriteString(`<td class="num-val">` + text + `</td>`)
			} else {
				b.WriteString(`<td>` + text + `</td>`)
			}
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
}

// writePager renders "Showing X–Y of N", first/prev/window/next/last links and the page-size selector.
func writePager(b *strings.Builder, base string, opts datatable.Options, view datatable.View[datatable.Record]) {
	state := view.State

	b.WriteString(`<div class="pager">`)
	fmt.Fprintf(b, `<span class="info">Showing <strong>%d</strong>&ndash;<strong>%d</strong> of <strong>%d</strong> &middot; page %d of %d</span>`,
		view.ShownFrom(), view.ShownTo(), view.TotalItems, view.CurrentPage, view.DisplayTotalPages())

	writePageLink(b, base, state, 1, "&laquo;", view.HasPrev())
	writePageLink(b, base, state, view.CurrentPage-1, "&lsaquo;", view.HasPrev())
	for _, p := range view.Window {
		if p == view.CurrentPage {
			fmt.Fprintf(b, `<span class="pg current">%d</span>`, p)
			continue
		}
		writePageLink(b, base, state, p, strconv.Itoa(p), true)
	}
	writePageLink(b, base, state, view.CurrentPage+1, "&rsaquo;", view.HasNext())
	writePageLink(b, base, state, view.TotalPages, "&raquo;", view.HasNext())

	b.WriteString(`<form method="GET" action="` + html.EscapeString(base) + `">`)
	if state.SearchQuery != "" {
		writeHidden(b, datatable.ParamQuery, state.SearchQuery)
	}
	if state.Sorted() {
		writeHidden(b, datatable.ParamSort, state.SortColumn)
		writeHidden(b, datatable.ParamDirection, string(state.SortDirection))
	}
	b.WriteString(`<select name="` + datatable.ParamPerPage + `" onchange="this.form.submit()">`)
	for _, n := range opts.ItemsPerPageOptions {
		sel := ""
		if n == state.ItemsPerPage {
			sel = " selected"
		}
		fmt.Fprintf(b, `<option value="%d"%s>%d / page</option>`, n, sel, n)
	}
	b.WriteString(`</select><noscript><button type="submit">Go</button></noscript></form>`)
	b.WriteString(`</div>`)
}

func writePageLink(b *strings.Builder, base string, state datatable.State, page int, label string, enabled bool) {
	if !enabled {
		b.WriteString(`<span class="pg disabled">` + label + `</span>`)
		return
	}
	b.WriteString(`<a href="` + stateHref(base, state.WithPage(page)) + `">` + label + `</a>`)
}

func stateHref(base string, state datatable.State) string {
	if q := state.Encode(); q != "" {
		return html.EscapeString(base + "?" + q)
	}
	return html.EscapeString(base)
}

func writeHidden(b *strings.Builder, name, value string) {
	b.WriteString(`<input type="hidden" name="` + html.EscapeString(name) + `" value="` + html.EscapeString(value) + `">`)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared HTML helpers
// ─────────────────────────────────────────────────────────────────────────────

func commonCSS() string {
	return `<style>
  * { box-sizing:border-box; margin:0; padding:0; }
  body { font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif; background:#0f1117; color:#e2e8f0; min-height:100vh; padding:24px; }
  .container { max-width:1600px; margin:0 auto; }
  .navbar {
    display:flex; align-items:center; gap:12px; margin-bottom:24px;
    padding-bottom:16px; border-bottom:1px solid #1e293b;
  }
  .nav-sep   { color:#334155; }
  .nav-sub   { font-size:16px; color:#94a3b8; font-weight:500; }
  .nav-home  { color:#60a5fa; text-decoration:none; font-weight:700; font-size:18px; }
  .nav-home:hover { color:#93c5fd; }
  .nav-link  { color:#94a3b8; text-decoration:none; }
  .nav-link:hover { color:#e2e8f0; }
  .nav-user  { margin-left:auto; display:flex; align-items:center; gap:10px; font-size:12px; color:#64748b; }
  .badge { display:inline-flex; align-items:center; padding:4px 10px; border-radius:20px; font-size:12px; font-weight:600; }
  .badge-reference { background:#1e3a5f; color:#60a5fa; }
  .header-card { background:linear-gradient(135deg,#1e293b 0%,#0f172a 100%); border:1px solid #334155; border-radius:12px; padding:24px 28px; margin-bottom:20px; }
  .header-top  { display:flex; align-items:center; gap:16px; flex-wrap:wrap; margin-bottom:16px; }
  .table-name  { font-size:26px; font-weight:700; color:#f1f5f9; }
  .meta-grid   { display:grid; grid-template-columns:repeat(auto-fill,minmax(200px,1fr)); gap:12px; }
  .meta-item   { display:flex; flex-direction:column; gap:2px; }
  .meta-label  { font-size:11px; font-weight:600; color:#64748b; text-transform:uppercase; letter-spacing:.05em; }
  .meta-value  { font-size:13px; color:#cbd5e1; font-family:monospace; word-break:break-all; }
  .card        { background:#1e293b; border:1px solid #334155; border-radius:12px; margin-bottom:20px; overflow:hidden; }
  .filter-label { font-size:11px; font-weight:600; color:#64748b; text-transform:uppercase; letter-spacing:.05em; }
  .filter-input {
    background:#0f172a; border:1px solid #334155; border-radius:6px;
    color:#e2e8f0; padding:7px 10px; font-size:13px; outline:none;
  }
  .filter-input:focus { border-color:#3b82f6; }
  .btn {
    display:inline-block; padding:8px 18px; border-radius:6px; font-size:13px; font-weight:600;
    cursor:pointer; border:none; text-decoration:none;
  }
  .btn:hover { opacity:.85; }
  .btn-primary { background:#2563eb; color:#fff; }
  .btn-ghost   { background:#1e293b; color:#94a3b8; border:1px solid #334155; }
  .btn-small   { padding:4px 10px; font-size:12px; }
  .footer      { text-align:center; padding:20px; font-size:11px; color:#334155; }
  .footer a    { color:#475569; text-decoration:none; }
</style>`
}

func writeNavbar(b *strings.Builder, serverName, datasetName string, sess *session.Session) {
	b.WriteString(`<div class="navbar">`)
	b.WriteString(`<a class="nav-home" href="/">` + html.EscapeString(serverName) + `</a>`)
	if datasetName != "" {
		b.WriteString(`<span class="nav-sep">/</span>`)
		b.WriteString(`<span class="nav-sub">` + html.EscapeString(datasetName) + `</span>`)
	}
	if sess != nil {
		b.WriteString(`<form class="nav-user" method="POST" action="/logout">`)
		b.WriteString(`<a class="nav-link" href="/components">Components</a>`)
		b.WriteString(`<a class="nav-link" href="/profile">Profile</a>`)
		if sess.Email != "" {
			b.WriteString(`<span>` + html.EscapeString(sess.Email) + `</span>`)
		}
		b.WriteString(`<button class="btn btn-ghost btn-small" type="submit">Sign out</button></form>`)
	}
	b.WriteString(`</div>`)
}

func writeMetaItem(b *strings.Builder, label, value string) {
	b.WriteString(`<div class="meta-item">`)
	b.WriteString(`<span class="meta-label">` + html.EscapeString(label) + `</span>`)
	b.WriteString(`<span class="meta-value">` + html.EscapeString(value) + `</span>`)
	b.WriteString(`</div>`)
}
