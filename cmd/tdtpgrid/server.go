package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/docs"
	"github.com/ruslano69/tdtp-datagrid/pkg/session"
	"github.com/ruslano69/tdtp-datagrid/pkg/sources"
)

// Server — HTTP сервер: наборы данных как HTML-таблицы, JSON-представления
// и выгрузки XLSX, плюс библиотека документации компонентов
type Server struct {
	cfg        *Config
	catalog    *sources.Catalog
	sessions   session.Store
	components *docs.Library
	startedAt  time.Time
}

func newServer(cfg *Config, catalog *sources.Catalog, sessions session.Store, components *docs.Library) *Server {
	return &Server{
		cfg:        cfg,
		catalog:    catalog,
		sessions:   sessions,
		components: components,
		startedAt:  time.Now(),
	}
}

// Router подключает middleware и маршруты
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(zerologMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(gzipMiddleware)

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	// документация компонентов открыта без входа
	r.Get("/api/components", s.handleListComponents)
	r.Get("/api/components/{id}", s.handleComponent)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/", s.handleIndex)
		r.Get("/data/{name}", s.handleData)
		r.Get("/components", s.handleComponentsPage)
		r.Get("/components/{id}", s.handleComponentPage)
		r.Get("/profile", s.handleProfile)

		r.Get("/api/datasets", s.handleListDatasets)
		r.Get("/api/datasets/{name}", s.handleDatasetView)
		r.Get("/api/datasets/{name}/export.xlsx", s.handleExport)
	})

	return r
}

// table создает движок над снимком набора с состоянием из параметров запроса
func (s *Server) table(ds *sources.Dataset, query url.Values) *datatable.Table[datatable.Record] {
	t := datatable.New(ds.Rows(), ds.Columns(), s.cfg.Table)
	t.Restore(datatable.ParseState(query, s.cfg.Table))
	return t
}

// view строит текущую страницу и пишет метрики
func (s *Server) view(ds *sources.Dataset, query url.Values) (datatable.View[datatable.Record], *datatable.Table[datatable.Record]) {
	start := time.Now()
	t := s.table(ds, query)
	v := t.View()
	observeView(ds.Name, v.Empty, time.Since(start))
	return v, t
}

func (s *Server) dataset(w http.ResponseWriter, r *http.Request, api bool) (*sources.Dataset, bool) {
	name := chi.URLParam(r, "name")
	ds, ok := s.catalog.Get(name)
	if !ok {
		if api {
			writeError(w, http.StatusNotFound, "dataset not found: "+name)
		} else {
			http.Error(w, "dataset not found: "+name, http.StatusNotFound)
		}
		return nil, false
	}
	return ds, true
}

// ─────────────────────────────────────────────────────────────────────────────
// HTML handlers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderIndex(w, sess)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r, false)
	if !ok {
		return
	}
	sess, _ := session.FromContext(r.Context())
	view, t := s.view(ds, r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderData(w, sess, ds, t.Columns(), view)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentSession(r); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderLogin(w)
}

// handleLogin принимает любые учетные данные: он только выставляет флаг входа
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))

	sess, err := s.sessions.Create(r.Context(), email)
	if err != nil {
		log.Error().Err(err).Msg("session create failed")
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.cfg.sessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("email", email).Msg("login")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			log.Warn().Err(err).Msg("session delete failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
