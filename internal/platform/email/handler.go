package email

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" || req.Subject == "" || req.HTML == "" {
		http.Error(w, "to, subject and html are required", http.StatusBadRequest)
		return
	}

	if err := h.client.Send(req.To, req.Subject, req.HTML, req.Text); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		log.Printf("email to %s failed: %v", req.To, err)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(SendEmailResponse{Success: false, Message: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(SendEmailResponse{Success: true, Message: "Email sent successfully"})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/send-email", h.SendEmail)
}
