package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/engine"
	"github.com/hupe1980/panelmesh/logging"
)

// Options configure a Server.
type Options struct {
	// Logger receives handler telemetry. Defaults to the no-op logger.
	Logger logging.Logger
}

// Server wires the panel engine's operations to HTTP routes.
type Server struct {
	eng    *engine.Engine
	logger logging.Logger
}

// New creates a Server over the given engine.
func New(eng *engine.Engine, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Server{
		eng:    eng,
		logger: opts.Logger,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/panel", func(api chi.Router) {
		api.Get("/configs", s.handleConfigs)
		api.Post("/start", s.handleStart)
		api.Post("/continue", s.handleContinue)
		api.Post("/summarize", s.handleSummarize)
		api.Post("/end", s.handleEnd)
		api.Get("/sessions", s.handleSessions)
	})

	return r
}

type startPayload struct {
	PanelConfigID string   `json:"panel_config"`
	PersonaIDs    []string `json:"persona_ids"`
	Message       string   `json:"message"`
	// IncludeModerator defaults to true when absent from the body.
	IncludeModerator *bool    `json:"include_moderator"`
	SkipPersonas     []string `json:"skip_personas"`
	Stream           bool     `json:"stream"`
}

type continuePayload struct {
	SessionID    string   `json:"session_id"`
	Message      string   `json:"message"`
	SkipPersonas []string `json:"skip_personas"`
	Stream       bool     `json:"stream"`
}

type sessionPayload struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"configs": s.eng.ListConfigs()}
	if def, ok := s.eng.DefaultPanelConfig(); ok {
		payload["default"] = def.ID
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload startPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	includeModerator := true
	if payload.IncludeModerator != nil {
		includeModerator = *payload.IncludeModerator
	}

	req := engine.StartRequest{
		PanelConfigID:    payload.PanelConfigID,
		PersonaIDs:       payload.PersonaIDs,
		Message:          payload.Message,
		IncludeModerator: includeModerator,
		SkipPersonas:     payload.SkipPersonas,
	}

	if payload.Stream {
		s.streamStart(w, r, req)
		return
	}

	result, err := s.eng.Start(r.Context(), req)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	var payload continuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	req := engine.ContinueRequest{
		SessionID:    payload.SessionID,
		Message:      payload.Message,
		SkipPersonas: payload.SkipPersonas,
	}

	if payload.Stream {
		s.streamContinue(w, r, req)
		return
	}

	result, err := s.eng.Continue(r.Context(), req)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var payload sessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	summary, err := s.eng.Summarize(r.Context(), payload.SessionID)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var payload sessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.eng.End(r.Context(), payload.SessionID)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.eng.ListSessions()
	respondJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// streamStart runs Start with all three observers wired to SSE events, so
// the client sees session, moderator_intro and each panel_response the
// moment they exist.
//
// Observer write failures are deliberately ignored: a round, once started,
// always runs to completion, whether or not the client is still listening.
func (s *Server) streamStart(w http.ResponseWriter, r *http.Request, req engine.StartRequest) {
	sse, err := newSSEWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	result, err := s.eng.Start(r.Context(), req,
		engine.WithSessionObserver(func(sessionID string, state engine.PanelState) {
			_ = sse.WriteEvent("session", map[string]any{
				"session_id":  sessionID,
				"panel_state": state,
			})
		}),
		engine.WithIntroObserver(func(resp core.PanelResponse) {
			_ = sse.WriteEvent("moderator_intro", resp)
		}),
		engine.WithObserver(func(resp core.PanelResponse) {
			_ = sse.WriteEvent("panel_response", resp)
		}),
	)
	if err != nil {
		s.streamError(w, sse, err)
		return
	}

	s.finishStream(sse, result.State)
}

// streamContinue runs Continue with the response observer wired to SSE.
func (s *Server) streamContinue(w http.ResponseWriter, r *http.Request, req engine.ContinueRequest) {
	sse, err := newSSEWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	result, err := s.eng.Continue(r.Context(), req,
		engine.WithObserver(func(resp core.PanelResponse) {
			_ = sse.WriteEvent("panel_response", resp)
		}),
	)
	if err != nil {
		s.streamError(w, sse, err)
		return
	}

	s.finishStream(sse, result.State)
}

func (s *Server) finishStream(sse *sseWriter, state engine.PanelState) {
	if err := sse.WriteEvent("panel_state", state); err != nil {
		s.logger.Warn("Failed to write SSE state event", "error", err)
		return
	}
	if err := sse.WriteEvent("done", struct{}{}); err != nil {
		s.logger.Warn("Failed to write SSE done event", "error", err)
	}
}

// streamError reports err on whichever channel is still usable: a plain
// JSON error while the stream headers are uncommitted, an SSE error event
// once they are.
func (s *Server) streamError(w http.ResponseWriter, sse *sseWriter, err error) {
	if !sse.Started() {
		s.respondEngineError(w, err)
		return
	}
	if werr := sse.WriteEvent("error", map[string]string{"error": err.Error()}); werr != nil {
		s.logger.Warn("Failed to write SSE error event", "error", werr)
	}
}

func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case core.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case core.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("Handler failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
