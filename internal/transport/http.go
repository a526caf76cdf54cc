package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nbarrett/tallysheet/internal/ledger"
	"github.com/nbarrett/tallysheet/internal/tracker"
)

// Tracker is the check-in surface the HTTP layer exposes.
type Tracker interface {
	CurrentCount(tenant, subject string) int
	AddCheckIn(tenant, subject, note string) int
	ClearWeek(tenant, subject string)
	EndWeek(ctx context.Context, tenant, subject string, now time.Time) (tracker.WeekResult, error)
	ListSubjects(ctx context.Context, tenant string) ([]string, error)
	WeeklyHistory(ctx context.Context, tenant, subject string) ([]ledger.WeekTotal, error)
	RegisterSubject(ctx context.Context, tenant, subject string) error
}

// Server wires HTTP handlers.
type Server struct {
	svc Tracker
	now func() time.Time
}

// NewServer creates an HTTP router with middleware. The auth middleware is
// required; it must put a tenant into the request context.
func NewServer(svc Tracker, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{svc: svc, now: time.Now}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", srv.handleListSubjects)
			r.Post("/", srv.handleRegisterSubject)

			r.Route("/{subject}", func(r chi.Router) {
				r.Get("/count", srv.handleCount)
				r.Post("/checkins", srv.handleCheckIn)
				r.Delete("/checkins", srv.handleClearWeek)
				r.Post("/endweek", srv.handleEndWeek)
				r.Get("/history", srv.handleHistory)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type subjectsResponse struct {
	Subjects []string `json:"subjects"`
	Degraded bool     `json:"degraded,omitempty"`
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}

	subjects, err := s.svc.ListSubjects(r.Context(), tenant)
	if subjects == nil {
		subjects = []string{}
	}
	// Read failures degrade: serve what survived and flag it for the banner.
	writeJSON(w, http.StatusOK, subjectsResponse{Subjects: subjects, Degraded: err != nil})
}

type registerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRegisterSubject(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "missing subject name", http.StatusBadRequest)
		return
	}

	if err := s.svc.RegisterSubject(r.Context(), tenant, req.Name); err != nil {
		http.Error(w, "roster store unavailable", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type countResponse struct {
	Count int `json:"count"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}

	n := s.svc.CurrentCount(tenant, chi.URLParam(r, "subject"))
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

type checkInRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	subject := chi.URLParam(r, "subject")
	if strings.TrimSpace(subject) == "" {
		http.Error(w, "missing subject name", http.StatusBadRequest)
		return
	}

	var req checkInRequest
	if r.Body != nil {
		// The note is optional; an empty or absent body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	n := s.svc.AddCheckIn(tenant, subject, req.Note)
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) handleClearWeek(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}

	s.svc.ClearWeek(tenant, chi.URLParam(r, "subject"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEndWeek(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	subject := chi.URLParam(r, "subject")
	if strings.TrimSpace(subject) == "" {
		http.Error(w, "missing subject name", http.StatusBadRequest)
		return
	}

	result, err := s.svc.EndWeek(r.Context(), tenant, subject, s.now())
	if err != nil {
		// The counter is untouched; the client may simply retry.
		http.Error(w, "ledger store unavailable, week preserved", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type historyResponse struct {
	Entries  []ledger.WeekTotal `json:"entries"`
	Degraded bool               `json:"degraded,omitempty"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}

	entries, err := s.svc.WeeklyHistory(r.Context(), tenant, chi.URLParam(r, "subject"))
	if entries == nil {
		entries = []ledger.WeekTotal{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries, Degraded: err != nil})
}

func requireTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return "", false
	}
	return tenantID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
