package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pitabwire/util"

	"github.com/voicetyped/synthd/internal/speech/engine"
	"github.com/voicetyped/synthd/internal/synth"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

// Handler provides the REST endpoints for speech synthesis.
type Handler struct {
	svc *synth.Service
}

// NewHandler creates a new synthesis API handler.
func NewHandler(svc *synth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all synthesis routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /synthesize", h.Synthesize)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusForError maps the error taxonomy onto HTTP statuses: validation
// failures are the client's fault, a missing neural backend is
// service-unavailable so callers can react differently, everything else
// is an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotInstalled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.svc.Health(r.Context())
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           status.Status,
		ActiveEngine:     status.ActiveEngine,
		AvailableEngines: status.AvailableEngines,
	})
}

// Synthesize handles POST /synthesize.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Synthesize(r.Context(), synth.Request{
		Text:        req.Text,
		Engine:      req.Engine,
		StyleParams: req.StyleParams,
	})
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			util.Log(r.Context()).WithError(err).Error("synthesis failed")
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SynthesizeResponse{
		Audio:      res.Audio,
		SampleRate: res.SampleRate,
		Duration:   res.Duration,
		Engine:     res.Engine,
	})
}
