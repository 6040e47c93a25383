package trace

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"net"
	"net/http"

	"github.com/rs/zerolog"
)

// Server exposes a Recorder's timelines over HTTP for debugging a running host.
//
//	GET /timelines             recent timelines, most recent first
//	GET /timelines/{instance}  one timeline
type Server struct {
	recorder *Recorder
	server   *http.Server
	listener net.Listener
	log      zerolog.Logger
	addr     string
}

// NewServer creates a debug server bound to addr (e.g. "127.0.0.1:9876").
// Serve and connection errors go to log, never to the terminal.
func NewServer(recorder *Recorder, addr string, log zerolog.Logger) *Server {
	s := &Server{
		recorder: recorder,
		addr:     addr,
		log:      log.With().Str("component", "trace-server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /timelines", s.handleList)
	mux.HandleFunc("GET /timelines/{instance}", s.handleGet)

	s.server = &http.Server{
		Addr:     addr,
		Handler:  mux,
		ErrorLog: stdlog.New(s.log, "", 0),
	}
	return s
}

// Start begins listening (non-blocking).
// Returns an error if the address cannot be bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("trace server listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.addr = ln.Addr().String()
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("trace server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the address the server is listening on
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.recorder.Recent())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	tl := s.recorder.Timeline(r.PathValue("instance"))
	if tl == nil {
		http.Error(w, "timeline not found", http.StatusNotFound)
		return
	}
	writeJSON(w, tl)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
