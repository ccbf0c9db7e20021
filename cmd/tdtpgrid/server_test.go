package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ruslano69/tdtp-datagrid/pkg/session"
	"github.com/ruslano69/tdtp-datagrid/pkg/sources"
)

// newTestServer — демонстрационный набор из 50 строк, сессии в памяти
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := demoConfig()
	cfg.Sources[0].Rows = 50

	catalog, _, err := cfg.loader().LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	store, err := session.New(cfg.Session)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	components, err := cfg.componentLibrary()
	if err != nil {
		t.Fatalf("componentLibrary: %v", err)
	}

	return newServer(cfg, catalog, store, components).Router()
}

// login выполняет POST /login и возвращает выданную cookie сессии
func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()

	form := url.Values{"email": {"user@example.com"}, "password": {"anything"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)

	if rw.Code != http.StatusSeeOther {
		t.Fatalf("POST /login: status %d, want 303", rw.Code)
	}
	for _, c := range rw.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("POST /login did not set a session cookie")
	return nil
}

func get(h http.Handler, target string, cookie *http.Cookie, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	return rw
}

func TestLoginRequired(t *testing.T) {
	h := newTestServer(t)

	rw := get(h, "/", nil)
	if rw.Code != http.StatusFound || rw.Header().Get("Location") != "/login" {
		t.Errorf("GET / without session: status %d location %q", rw.Code, rw.Header().Get("Location"))
	}

	rw = get(h, "/api/datasets", nil)
	if rw.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/datasets without session: status %d, want 401", rw.Code)
	}

	rw = get(h, "/", &http.Cookie{Name: sessionCookie, Value: "deadbeef"})
	if rw.Code != http.StatusFound {
		t.Errorf("unknown session id: status %d, want 302", rw.Code)
	}
}

func TestLoginLogout(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, `href="/data/activities"`) {
		t.Error("index does not link the activities dataset")
	}
	if !strings.Contains(body, "user@example.com") {
		t.Error("index does not show the signed-in email")
	}

	// после входа форма входа пропускается
	if rw := get(h, "/login", cookie); rw.Code != http.StatusFound {
		t.Errorf("GET /login with session: status %d, want 302", rw.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	if out.Code != http.StatusSeeOther || out.Header().Get("Location") != "/login" {
		t.Fatalf("POST /logout: status %d location %q", out.Code, out.Header().Get("Location"))
	}

	if rw := get(h, "/", cookie); rw.Code != http.StatusFound {
		t.Errorf("GET / after logout: status %d, want 302", rw.Code)
	}
}

func TestLoginPage(t *testing.T) {
	h := newTestServer(t)

	rw := get(h, "/login", nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /login: status %d", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), `action="/login"`) {
		t.Error("login page has no login form")
	}
}

func TestDataPage(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/data/activities?sort=id&dir=desc&per_page=10", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /data/activities: status %d", rw.Code)
	}
	body := rw.Body.String()

	if !strings.Contains(body, `data-key="50"`) || strings.Contains(body, `data-key="40"`) {
		t.Error("first page sorted by id desc must hold ids 50..41")
	}
	if got := strings.Count(body, "<tr data-key="); got != 10 {
		t.Errorf("rendered %d rows, want 10", got)
	}
	if !strings.Contains(body, "Showing <strong>1</strong>&ndash;<strong>10</strong> of <strong>50</strong>") {
		t.Error("missing range summary")
	}
	// клик по активной колонке меняет направление и возвращает на страницу 1
	if !strings.Contains(body, `href="/data/activities?dir=asc&amp;per_page=10&amp;sort=id"`) {
		t.Error("active column header must link to the ascending sort")
	}
	if !strings.Contains(body, `<span class="pg current">1</span>`) {
		t.Error("current page is not highlighted")
	}
}

func TestDataPageEmpty(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/data/activities?q=no-such-value", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("status %d", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, "No data found") {
		t.Error("empty result must render the placeholder")
	}
	if strings.Contains(body, `class="pager"`) {
		t.Error("pagination must be hidden for an empty result")
	}
	if !strings.Contains(body, `value="no-such-value"`) {
		t.Error("search box must keep the query")
	}
}

func TestDataPageNotFound(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	if rw := get(h, "/data/missing", cookie); rw.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rw.Code)
	}
	if rw := get(h, "/api/datasets/missing", cookie); rw.Code != http.StatusNotFound {
		t.Errorf("api status %d, want 404", rw.Code)
	}
}

func TestAPIListDatasets(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/api/datasets", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("status %d", rw.Code)
	}
	var list []datasetInfo
	if err := json.Unmarshal(rw.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Name != "activities" || list[0].Rows != 50 || list[0].Columns != 5 {
		t.Errorf("unexpected list: %+v", list)
	}
	if list[0].Type != sources.TypeMock {
		t.Errorf("type = %q, want mock", list[0].Type)
	}
}

func TestAPIDatasetView(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/api/datasets/activities?sort=id&dir=asc&page=2&per_page=20", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rw.Code, rw.Body.String())
	}

	var resp struct {
		Rows []map[string]any `json:"rows"`
		Keys []string         `json:"keys"`
		Page pageInfo         `json:"page"`
		Win  []int            `json:"window"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Page.CurrentPage != 2 || resp.Page.TotalPages != 3 || resp.Page.TotalItems != 50 {
		t.Errorf("unexpected page: %+v", resp.Page)
	}
	if resp.Page.ShownFrom != 21 || resp.Page.ShownTo != 40 {
		t.Errorf("shown range %d-%d, want 21-40", resp.Page.ShownFrom, resp.Page.ShownTo)
	}
	if len(resp.Rows) != 20 || resp.Keys[0] != "21" {
		t.Errorf("rows=%d first key=%v", len(resp.Rows), resp.Keys)
	}
	if len(resp.Win) != 3 {
		t.Errorf("window = %v, want [1 2 3]", resp.Win)
	}

	etag := rw.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	again := get(h, "/api/datasets/activities?sort=id&dir=asc&page=2&per_page=20", cookie, "If-None-Match", etag)
	if again.Code != http.StatusNotModified {
		t.Errorf("matching If-None-Match: status %d, want 304", again.Code)
	}

	other := get(h, "/api/datasets/activities?sort=id&dir=asc&page=3&per_page=20", cookie, "If-None-Match", etag)
	if other.Code != http.StatusOK {
		t.Errorf("different page with stale ETag: status %d, want 200", other.Code)
	}
}

func TestAPIDatasetViewClampsPage(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/api/datasets/activities?page=999&per_page=20", cookie)
	var resp struct {
		Page  pageInfo `json:"page"`
		Empty bool     `json:"empty"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page.CurrentPage != 3 || resp.Empty {
		t.Errorf("page 999 must clamp to the last page, got %+v empty=%v", resp.Page, resp.Empty)
	}
}

func TestAPIExport(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rw := get(h, "/api/datasets/activities/export.xlsx?sort=id&dir=desc", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rw.Code, rw.Body.String())
	}
	if ct := rw.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.openxmlformats") {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rw.Body.Bytes(), []byte("PK")) {
		t.Error("export is not a zip container")
	}
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t)

	if rw := get(h, "/healthz", nil); rw.Code != http.StatusOK {
		t.Errorf("healthz status %d", rw.Code)
	}

	rw := get(h, "/readyz", nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("readyz status %d", rw.Code)
	}
	var checks map[string]string
	if err := json.Unmarshal(rw.Body.Bytes(), &checks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if checks["session"] != "ok" || checks["datasets"] != "1" {
		t.Errorf("unexpected checks: %v", checks)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	get(h, "/data/activities", cookie)

	rw := get(h, "/metrics", nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("status %d", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), `tdtpgrid_views_total{dataset="activities"}`) {
		t.Error("views counter not exported")
	}
}

func TestAPIComponents(t *testing.T) {
	h := newTestServer(t)

	// документация доступна без входа
	rw := get(h, "/api/components", nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("list status %d", rw.Code)
	}
	var list []componentInfo
	if err := json.Unmarshal(rw.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) < 2 {
		t.Fatalf("expected embedded components, got %+v", list)
	}

	rw = get(h, "/api/components?q=sort", nil)
	if err := json.Unmarshal(rw.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("search for sort found nothing")
	}
	for _, c := range list {
		if !strings.Contains(strings.ToLower(c.ID+c.Title+c.Description), "sort") {
			t.Errorf("unexpected match %+v", c)
		}
	}

	rw = get(h, "/api/components/data-table", nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("component status %d", rw.Code)
	}
	var doc struct {
		ID         string `json:"id"`
		HTML       string `json:"html"`
		CodeSample string `json:"codeSample"`
		Variations []struct {
			Name string `json:"name"`
		} `json:"variations"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode component: %v", err)
	}
	if doc.ID != "data-table" || doc.HTML == "" || doc.CodeSample == "" || len(doc.Variations) == 0 {
		t.Errorf("incomplete component: %+v", doc)
	}

	rw = get(h, "/api/components/missing", nil)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("missing component status %d, want 404", rw.Code)
	}
	var e errorResponse
	if err := json.Unmarshal(rw.Body.Bytes(), &e); err != nil || e.Error != "component not found" {
		t.Errorf("404 body = %s", rw.Body.String())
	}
}

func TestComponentPages(t *testing.T) {
	h := newTestServer(t)

	if rw := get(h, "/components", nil); rw.Code != http.StatusFound {
		t.Errorf("GET /components without session: status %d, want 302", rw.Code)
	}

	cookie := login(t, h)
	rw := get(h, "/components", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /components: status %d", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, `href="/components/data-table"`) || !strings.Contains(body, `href="/components/pagination"`) {
		t.Error("components page does not list the embedded docs")
	}

	rw = get(h, "/components?q=no-such-component", cookie)
	if !strings.Contains(rw.Body.String(), "No components found") {
		t.Error("empty search must render the placeholder")
	}

	rw = get(h, "/components/data-table", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /components/data-table: status %d", rw.Code)
	}
	body = rw.Body.String()
	if !strings.Contains(body, `<div class="doc-body">`) || !strings.Contains(body, "<table>") {
		t.Error("component doc not rendered")
	}
	if !strings.Contains(body, `href="/data/activities">Live preview`) {
		t.Error("preview link to the demo dataset missing")
	}

	if rw := get(h, "/components/missing", cookie); rw.Code != http.StatusNotFound {
		t.Errorf("missing component page: status %d, want 404", rw.Code)
	}
}

func TestProfilePage(t *testing.T) {
	h := newTestServer(t)

	if rw := get(h, "/profile", nil); rw.Code != http.StatusFound {
		t.Errorf("GET /profile without session: status %d, want 302", rw.Code)
	}

	cookie := login(t, h)
	rw := get(h, "/profile", cookie)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET /profile: status %d", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, "user@example.com") || !strings.Contains(body, "Session expires") {
		t.Error("profile does not show the session")
	}
	if !strings.Contains(body, ">memory<") {
		t.Error("profile does not show the session store")
	}
}
