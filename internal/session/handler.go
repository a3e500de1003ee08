package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"omnidoc/internal/report"
)

// ReportFinder resolves the report attached to a completed session for the
// combined sessions-with-reports listing. Satisfied by report.Repository.
type ReportFinder interface {
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*report.Report, error)
}

type Handler struct {
	repo    Repository
	reports ReportFinder
}

func NewHandler(repo Repository, reports ReportFinder) *Handler {
	return &Handler{repo: repo, reports: reports}
}

type CreateSessionRequest struct {
	PatientID string `json:"patient_id"`
	Status    string `json:"status,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SessionWithReport is the combined payload for the clinician dashboard.
type SessionWithReport struct {
	Session
	Report *report.Report `json:"report,omitempty"`
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch sessions", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(sessions)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) ListPatientSessions(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	sessions, err := h.repo.ListByPatient(r.Context(), patientID)
	if err != nil {
		http.Error(w, "Failed to fetch patient sessions", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(sessions)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	s := &Session{PatientID: patientID, Status: req.Status}
	if err := h.repo.Create(r.Context(), s); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) UpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "Status is required", http.StatusBadRequest)
		return
	}
	if !ValidStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	s, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update session status", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) ListPatientSessionsWithReports(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	sessions, err := h.repo.ListByPatient(r.Context(), patientID)
	if err != nil {
		http.Error(w, "Failed to fetch sessions with reports", http.StatusInternalServerError)
		return
	}

	out := make([]SessionWithReport, 0, len(sessions))
	for _, s := range sessions {
		item := SessionWithReport{Session: s}
		if s.Status == StatusCompleted {
			rep, err := h.reports.GetBySessionID(r.Context(), s.ID)
			if err == nil {
				item.Report = rep
			} else if !errors.Is(err, report.ErrNotFound) {
				http.Error(w, "Failed to fetch sessions with reports", http.StatusInternalServerError)
				return
			}
		}
		out = append(out, item)
	}
	json.NewEncoder(w).Encode(out)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/{sessionID}", h.GetSession)
	r.Post("/sessions", h.CreateSession)
	r.Patch("/sessions/{sessionID}/status", h.UpdateSessionStatus)
	r.Get("/patients/{patientID}/sessions", h.ListPatientSessions)
	r.Get("/patients/{patientID}/sessions-with-reports", h.ListPatientSessionsWithReports)
}
