package interview

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ReportSink persists an assembled report and is implemented by the report
// service. The interview core itself never touches storage.
type ReportSink interface {
	SaveReport(ctx context.Context, sessionID, narrativeSummary string, structuredFields map[string]string) (string, error)
}

// SpeechSynthesizer and Transcriber are the voice collaborators for the
// audio round-trip endpoints.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

type Handler struct {
	svc     *Service
	reports ReportSink
	tts     SpeechSynthesizer
	stt     Transcriber
}

func NewHandler(svc *Service, reports ReportSink, tts SpeechSynthesizer, stt Transcriber) *Handler {
	return &Handler{svc: svc, reports: reports, tts: tts, stt: stt}
}

type StartRequest struct {
	SessionID string `json:"session_id"`
}

type RespondRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	question, err := h.svc.Start(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, "Failed to start interview", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"question": question})
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Respond(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		if errors.Is(err, ErrEmptyAnswer) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to process answer", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	st, err := h.svc.State(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch state", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(struct {
		*State
		IsComplete bool `json:"is_complete"`
	}{State: st, IsComplete: h.svc.Complete(st)})
}

func (h *Handler) AssembleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	rep, err := h.svc.AssembleReport(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to assemble report", http.StatusInternalServerError)
		return
	}

	reportID, err := h.reports.SaveReport(r.Context(), sessionID, rep.NarrativeSummary, rep.StructuredFields)
	if err != nil {
		http.Error(w, "Failed to save report", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		ReportID string `json:"report_id"`
		*Report
	}{ReportID: reportID, Report: rep})
}

// HandleAudio transcribes an uploaded answer, feeds it through the state
// machine and synthesizes the follow-up question in one round trip.
func (h *Handler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(10 << 20)

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		http.Error(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "Error retrieving audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		http.Error(w, "Failed to read audio file", http.StatusInternalServerError)
		return
	}

	text, err := h.stt.Transcribe(r.Context(), buf.Bytes())
	if err != nil {
		http.Error(w, "Transcription failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if text == "" {
		// Silence or no speech detected.
		json.NewEncoder(w).Encode(map[string]any{"text": "", "question": ""})
		return
	}

	result, err := h.svc.Respond(r.Context(), sessionID, text)
	if err != nil {
		http.Error(w, "Failed to process answer", http.StatusInternalServerError)
		return
	}

	// Synthesize the question up front to save the client a round trip.
	var audioBase64 string
	if audio, err := h.tts.Synthesize(r.Context(), result.Question, ""); err == nil {
		audioBase64 = base64.StdEncoding.EncodeToString(audio)
	}

	json.NewEncoder(w).Encode(map[string]any{
		"text":         text,
		"question":     result.Question,
		"is_complete":  result.IsComplete,
		"audio_base64": audioBase64,
	})
}

type TTSRequest struct {
	Text string `json:"text"`
}

func (h *Handler) HandleTTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	audio, err := h.tts.Synthesize(r.Context(), req.Text, "")
	if err != nil {
		http.Error(w, "TTS failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/interview/start", h.Start)
	r.Post("/interview/respond", h.Respond)
	r.Get("/interview/{sessionID}/state", h.GetState)
	r.Post("/interview/{sessionID}/report", h.AssembleReport)
	r.Post("/interview/audio", h.HandleAudio)
	r.Post("/tts", h.HandleTTS)
}
