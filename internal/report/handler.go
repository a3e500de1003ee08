package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	repo Repository
	svc  *Service
}

func NewHandler(repo Repository, svc *Service) *Handler {
	return &Handler{repo: repo, svc: svc}
}

type CreateReportRequest struct {
	SessionID  string            `json:"session_id"`
	Summary    string            `json:"summary"`
	Structured map[string]string `json:"structured"`
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	rep, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch report", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rep)
}

func (h *Handler) GetSessionReport(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	rep, err := h.repo.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch session report", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rep)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	id, err := h.svc.SaveReport(r.Context(), req.SessionID, req.Summary, req.Structured)
	if err != nil {
		http.Error(w, "Failed to create report", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"report_id": id})
}

func (h *Handler) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	rep, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch report", http.StatusInternalServerError)
		return
	}

	pdfBytes, err := RenderPDF(rep)
	if err != nil {
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", rep.ID))
	w.Write(pdfBytes)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/reports/{reportID}", h.GetReport)
	r.Get("/reports/{reportID}/pdf", h.GetReportPDF)
	r.Get("/sessions/{sessionID}/report", h.GetSessionReport)
	r.Post("/reports", h.CreateReport)
}
