package patient

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type CreatePatientRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	DOB         string  `json:"dob"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch patients", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(patients)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Patient not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch patient", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.FullName == "" || req.Email == "" || req.PhoneNumber == "" || req.DOB == "" {
		http.Error(w, "full_name, email, phone_number and dob are required", http.StatusBadRequest)
		return
	}

	p := &Patient{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		DOB:         req.DOB,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		http.Error(w, "Failed to create patient", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/patients", h.ListPatients)
	r.Get("/patients/{patientID}", h.GetPatient)
	r.Post("/patients", h.CreatePatient)
}
