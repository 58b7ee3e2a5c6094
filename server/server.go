// Package server exposes the briefing engine over HTTP.
//
//	POST /api/briefings     run a generation, body {"tickers": "GOOG,TSLA", "voice": "Kore"}
//	GET  /api/state         current engine state
//	GET  /api/voices        voices accepted by the synthesizer
//	GET  /api/events        websocket stream of state transitions
//	GET  /artifacts/{file}  published briefing audio
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/engine"
	"github.com/d1nch8g/briefcast/tts"
)

const (
	maxBodyBytes = 1 << 20
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Server wraps the HTTP mux around an engine and its artifact store.
type Server struct {
	engine   *engine.Engine
	store    *artifact.Store
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New creates a server for e. Artifacts are served from store.
func New(e *engine.Engine, store *artifact.Store) *Server {
	s := &Server{
		engine: e,
		store:  store,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /api/briefings", s.handleGenerate)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/voices", s.handleVoices)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /artifacts/{file}", s.handleArtifact)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// GenerateRequest is the body of POST /api/briefings.
type GenerateRequest struct {
	// Tickers is the raw comma-separated input, e.g. "GOOG, TSLA".
	Tickers string `json:"tickers"`
	Voice   string `json:"voice,omitempty"`
}

// GenerateResponse is the state after a run, plus the failure kind if any.
type GenerateResponse struct {
	engine.State
	Kind string `json:"kind,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	st, err := s.engine.Generate(r.Context(), req.Tickers, tts.Voice(req.Voice))
	resp := GenerateResponse{State: st}
	status := http.StatusOK
	if err != nil {
		status = statusOf(err)
		if k := engine.KindOf(err); k != 0 {
			resp.Kind = k.String()
		} else {
			resp.Error = err.Error()
		}
	}
	writeJSON(w, status, resp)
}

func statusOf(err error) int {
	if errors.Is(err, engine.ErrBusy) {
		return http.StatusConflict
	}
	switch engine.KindOf(err) {
	case engine.KindValidation:
		return http.StatusBadRequest
	case engine.KindDecode:
		return http.StatusUnprocessableEntity
	case engine.KindCollaborator:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]tts.Voice{"voices": s.engine.Voices()})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id := strings.TrimSuffix(file, path.Ext(file))

	a, ok := s.store.Open(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	http.ServeContent(w, r, a.Filename, a.CreatedAt, bytes.NewReader(a.Blob))
}

// handleEvents streams every state transition to a websocket client. The
// current state is sent first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("server: websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	updates := make(chan engine.State, 16)
	cancel := s.engine.Subscribe(func(st engine.State) {
		select {
		case updates <- st:
		default:
			slog.Warn("server: event subscriber lagging, dropping state", "stage", st.Stage)
		}
	})
	defer cancel()

	// Reads only detect the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(st engine.State) error {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(st)
	}
	if err := send(s.engine.State()); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case st := <-updates:
			if err := send(st); err != nil {
				slog.Debug("server: websocket write failed", "err", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("server: failed to write response", "err", err)
	}
}
