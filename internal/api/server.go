// Package api exposes the controller over HTTP: a small JSON command
// surface and a websocket status feed.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pistream/pistream/internal/controller"
	"github.com/pistream/pistream/internal/library"
)

// Controller is the subset of the playback controller the API needs.
type Controller interface {
	Status() controller.Status
	Albums() []controller.AlbumInfo
	AlbumByIndex(i int) *library.Album
	PlayAlbum(album *library.Album) error
	Stop() bool
	Pause()
	Resume()
	NextTrack()
	PreviousTrack()
	Subscribe() *controller.Subscription
	Unsubscribe(sub *controller.Subscription)
}

// Server serves the HTTP API for one controller.
type Server struct {
	log  *slog.Logger
	ctrl Controller
	hub  *hub
}

func NewServer(ctrl Controller, log *slog.Logger) *Server {
	return &Server{
		log:  log,
		ctrl: ctrl,
		hub:  newHub(log),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/albums", s.handleAlbums)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/play", s.handlePlay)
	mux.HandleFunc("POST /api/stop", s.handleStop)
	mux.HandleFunc("POST /api/pause", s.handlePause)
	mux.HandleFunc("POST /api/resume", s.handleResume)
	mux.HandleFunc("POST /api/next_track", s.handleNextTrack)
	mux.HandleFunc("POST /api/previous_track", s.handlePreviousTrack)
	mux.HandleFunc("GET /api/ws", s.handleWS)
	return mux
}

// Run serves the API on addr until ctx is cancelled. It also runs the
// websocket hub and the status broadcaster.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.run(ctx)
	go s.broadcastStatus(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// broadcastStatus forwards controller status changes to websocket clients.
func (s *Server) broadcastStatus(ctx context.Context) {
	sub := s.ctrl.Subscribe()
	defer s.ctrl.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-sub.C:
			if !ok {
				return
			}
			msg, err := marshalEnvelope("status", st)
			if err != nil {
				s.log.Warn("status marshal failed", "error", err)
				continue
			}
			s.hub.broadcastBytes(msg)
		}
	}
}

func (s *Server) handleAlbums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"albums": s.ctrl.Albums()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

type playRequest struct {
	AlbumIndex int `json:"album_index"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	album := s.ctrl.AlbumByIndex(req.AlbumIndex)
	if album == nil {
		writeError(w, http.StatusNotFound, "no album at that index")
		return
	}
	if err := s.ctrl.PlayAlbum(album); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stopped := s.ctrl.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"stopped": stopped})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Pause()
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Resume()
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleNextTrack(w http.ResponseWriter, r *http.Request) {
	s.ctrl.NextTrack()
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) handlePreviousTrack(w http.ResponseWriter, r *http.Request) {
	s.ctrl.PreviousTrack()
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
