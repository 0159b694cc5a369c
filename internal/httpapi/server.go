// Package httpapi exposes the extraction service over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/joelkehle/docintake/internal/export"
	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/record"
)

type Server struct {
	orch  *extraction.Orchestrator
	store *record.Store
}

func NewServer(orch *extraction.Orchestrator, store *record.Store) http.Handler {
	s := &Server{orch: orch, store: store}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/extract", s.handleExtract)
	mux.HandleFunc("/v1/records", s.handleListRecords)
	mux.HandleFunc("/v1/records/", s.handleRecord)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Text   string `json:"text"`
		Source string `json:"source"`
		Mode   string `json:"mode"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	mode := extraction.Mode(req.Mode)
	switch mode {
	case "":
		mode = extraction.ModeAI
	case extraction.ModeAI, extraction.ModeRegex:
	default:
		writeError(w, http.StatusBadRequest, "mode must be \"ai\" or \"regex\"")
		return
	}

	res := s.orch.Extract(r.Context(), req.Text, mode)
	rec, err := s.store.Save(r.Context(), req.Source, res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "record": rec})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}

// handleRecord serves /v1/records/{id} and /v1/records/{id}/export.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/records/")
	wantExport := false
	if strings.HasSuffix(path, "/export") {
		wantExport = true
		path = strings.TrimSuffix(path, "/export")
	}
	path = strings.TrimSuffix(path, "/")
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, record.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !wantExport {
		writeJSON(w, http.StatusOK, map[string]any{"record": rec})
		return
	}

	formatName := strings.TrimSpace(r.URL.Query().Get("format"))
	if formatName == "" {
		formatName = string(export.FormatText)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_ = export.Write(w, format, rec.Fields)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
