package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
	"github.com/ruslano69/tdtp-datagrid/pkg/export"
	"github.com/ruslano69/tdtp-datagrid/pkg/resilience"
)

// excelize не принимает более длинные имена листов
const maxSheetName = 31

type errorResponse struct {
	Error string `json:"error"`
}

type datasetInfo struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type pageInfo struct {
	CurrentPage  int  `json:"currentPage"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	ShownFrom    int  `json:"shownFrom"`
	ShownTo      int  `json:"shownTo"`
	HasPrev      bool `json:"hasPrev"`
	HasNext      bool `json:"hasNext"`
}

type viewResponse struct {
	Dataset        string             `json:"dataset"`
	Columns        []schema.Column    `json:"columns"`
	Rows           []datatable.Record `json:"rows"`
	Keys           []string           `json:"keys"`
	TotalRows      int                `json:"totalRows"`
	Page           pageInfo           `json:"page"`
	Window         []int              `json:"window"`
	Empty          bool               `json:"empty"`
	ShowPagination bool               `json:"showPagination"`
	State          datatable.State    `json:"state"`
	Options        datatable.Options  `json:"options"`
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz проверяет хранилище сессий
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"session":  "ok",
		"datasets": strconv.Itoa(s.catalog.Len()),
	}
	status := http.StatusOK
	if err := s.sessions.Ping(r.Context()); err != nil {
		checks["session"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if g, ok := s.sessions.(interface{ State() resilience.State }); ok {
		checks["session_breaker"] = g.State().String()
	}
	writeJSON(w, status, checks)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, _ *http.Request) {
	list := s.catalog.List()
	out := make([]datasetInfo, 0, len(list))
	for _, ds := range list {
		out = append(out, datasetInfo{
			Name:        ds.Name,
			Type:        ds.Type,
			Description: ds.Description,
			Rows:        ds.Len(),
			Columns:     len(ds.Columns()),
			UpdatedAt:   ds.UpdatedAt().UTC(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDatasetView возвращает одну производную страницу. ETag учитывает
// версию данных и состояние, поэтому неизмененная страница отвечает 304.
func (s *Server) handleDatasetView(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r, true)
	if !ok {
		return
	}

	version := strconv.FormatInt(ds.UpdatedAt().UnixNano(), 10)
	view, t := s.view(ds, r.URL.Query())
	etag := export.ETag(view, version)

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rows := view.Rows
	if rows == nil {
		rows = []datatable.Record{}
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Dataset:   ds.Name,
		Columns:   t.Columns(),
		Rows:      rows,
		Keys:      view.Keys,
		TotalRows: view.TotalRows,
		Page: pageInfo{
			CurrentPage:  view.CurrentPage,
			ItemsPerPage: view.ItemsPerPage,
			TotalItems:   view.TotalItems,
			TotalPages:   view.TotalPages,
			ShownFrom:    view.ShownFrom(),
			ShownTo:      view.ShownTo(),
			HasPrev:      view.HasPrev(),
			HasNext:      view.HasNext(),
		},
		Window:         view.Window,
		Empty:          view.Empty,
		ShowPagination: view.ShowPagination,
		State:          view.State,
		Options:        t.Options(),
	})
}

// handleExport выгружает все найденные строки в текущем порядке сортировки
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r, true)
	if !ok {
		return
	}

	t := s.table(ds, r.URL.Query())
	sheet := ds.Name
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}

	var buf bytes.Buffer
	if err := export.XLSX(&buf, sheet, t.Columns(), t.Matched()); err != nil {
		log.Error().Err(err).Str("dataset", ds.Name).Msg("xlsx export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ds.Name+`.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
