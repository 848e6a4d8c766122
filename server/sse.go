package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// sseWriter frames handler events as Server-Sent Events. The stream headers
// are written lazily on the first event, so errors raised before anything
// was streamed can still go out as a plain JSON error response with a real
// status code.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support flushing")
	}
	return &sseWriter{w: w, flusher: flusher}, nil
}

// Started reports whether the stream headers have been committed.
func (s *sseWriter) Started() bool { return s.started }

// WriteEvent emits one named event with a JSON payload and flushes it to
// the client.
func (s *sseWriter) WriteEvent(event string, payload any) error {
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		s.started = true
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()

	return nil
}
