package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/tdtp-datagrid/pkg/session"
)

// sessionCookie хранит id сессии, выданный POST /login
const sessionCookie = "tdtpgrid_session"

// zerologMiddleware логирует каждый запрос: метод, путь, статус и длительность
func zerologMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("latency_ms", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap открывает исходный writer для http.ResponseController
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// gzipMiddleware сжимает ответы для клиентов с поддержкой gzip
func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// requireLogin отклоняет запросы без живой сессии: HTML-страницы
// перенаправляются на /login, вызовы API получают 401.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.currentSession(r)
		if err != nil {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeError(w, http.StatusUnauthorized, "login required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// currentSession находит сессию по cookie; любая ошибка означает "вход не выполнен"
func (s *Server) currentSession(r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, session.ErrNotFound
	}
	sess, err := s.sessions.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Error().Err(err).Msg("session lookup failed")
		}
		return nil, err
	}
	if !sess.LoggedIn {
		return nil, session.ErrNotFound
	}
	return sess, nil
}
