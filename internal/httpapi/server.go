// Package httpapi is the REST adapter over the tracker façade, intended for
// local development and container deployments.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/casetrack/casetrack/internal/export"
	"github.com/casetrack/casetrack/internal/index"
	"github.com/casetrack/casetrack/internal/tracker"
)

// Server serves the tracker operations over HTTP.
type Server struct {
	tracker     *tracker.Tracker
	apiKey      string
	requireAuth bool
	log         *slog.Logger
}

// NewServer builds the HTTP adapter. When requireAuth is true every /api
// route demands a matching bearer token.
func NewServer(tr *tracker.Tracker, apiKey string, requireAuth bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		tracker:     tr,
		apiKey:      apiKey,
		requireAuth: requireAuth,
		log:         logger,
	}
}

// Handler returns the routed handler for the adapter.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth("healthy"))
	mux.HandleFunc("GET /ready", s.handleHealth("ready"))

	mux.HandleFunc("GET /api/customers", s.auth(s.handleListCustomers))
	mux.HandleFunc("GET /api/customers/{name}/tickets", s.auth(s.handleGetTickets))
	mux.HandleFunc("POST /api/customers/{name}/tickets", s.auth(s.handleAddTickets))
	mux.HandleFunc("DELETE /api/customers/{name}/tickets", s.auth(s.handleRemoveTickets))
	mux.HandleFunc("POST /api/customers/{name}/tickets/{key}/comments", s.auth(s.handleAddComment))
	mux.HandleFunc("PUT /api/customers/{name}/notes", s.auth(s.handleUpdateNotes))
	mux.HandleFunc("GET /api/customers/{name}/export", s.auth(s.handleExport))

	mux.HandleFunc("GET /api/cases", s.auth(s.handleAllCaseIDs))
	mux.HandleFunc("GET /api/cases/{caseID}", s.auth(s.handleCaseInfo))
	mux.HandleFunc("GET /api/search", s.auth(s.handleSearch))
	mux.HandleFunc("POST /api/index/rebuild", s.auth(s.handleRebuild))
	mux.HandleFunc("GET /api/stats", s.auth(s.handleStats))

	return mux
}

// ListenAndServe runs the adapter on the given port until the server fails.
func (s *Server) ListenAndServe(port string) error {
	addr := ":" + port
	s.log.Info("starting HTTP API", "addr", addr, "require_auth", s.requireAuth)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.requireAuth {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}
			if token != s.apiKey {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"customers": s.tracker.ListCustomers(r.Context()),
	})
}

func (s *Server) handleGetTickets(w http.ResponseWriter, r *http.Request) {
	rec := s.tracker.GetCustomerTickets(r.Context(), r.PathValue("name"))
	writeJSON(w, http.StatusOK, rec)
}

type addTicketsRequest struct {
	TicketKeys []string `json:"ticket_keys"`
	Notes      string   `json:"notes,omitempty"`
}

func (s *Server) handleAddTickets(w http.ResponseWriter, r *http.Request) {
	var req addTicketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.TicketKeys) == 0 {
		writeError(w, http.StatusBadRequest, "ticket_keys is required")
		return
	}

	rec, err := s.tracker.AddTickets(r.Context(), r.PathValue("name"), req.TicketKeys, req.Notes)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRemoveTickets(w http.ResponseWriter, r *http.Request) {
	var keys []string
	if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := s.tracker.RemoveTickets(r.Context(), r.PathValue("name"), keys)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type addCommentRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := s.tracker.AddComment(r.Context(), r.PathValue("name"), r.PathValue("key"), req.Comment)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := s.tracker.UpdateNotes(r.Context(), r.PathValue("name"), req.Notes)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	includeInfo := strings.EqualFold(q.Get("include_external_info"), "true")
	saveFile := !strings.EqualFold(q.Get("save_file"), "false")

	result, err := s.tracker.Export(r.Context(), r.PathValue("name"), format, includeInfo, saveFile)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAllCaseIDs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"case_ids": s.tracker.AllCaseIDs(r.Context()),
	})
}

func (s *Server) handleCaseInfo(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	entry, err := s.tracker.CaseInfo(r.Context(), caseID)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"case_id": caseID,
		"entry":   entry,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": s.tracker.SearchTickets(r.Context(), term),
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.RebuildIndex(r.Context()); err != nil {
		s.writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "index rebuilt",
		"stats":   s.tracker.Stats(r.Context()),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Stats(r.Context()))
}

// writeOperationError maps façade errors onto HTTP statuses: not-found
// conditions become 404, validation failures 400, anything else 500.
func (s *Server) writeOperationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrTicketNotFound), errors.Is(err, index.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, export.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
