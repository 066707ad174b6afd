// Package web serves run progress: a websocket feed, Prometheus metrics
// and the latest snapshot as JSON.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Hub *Hub

	latest atomic.Pointer[[]byte]
}

// NewServer returns a Server with an empty status and its own Hub.
func NewServer() *Server {
	return &Server{
		Hub: NewHub(),
	}
}

// Publish stores v as the latest snapshot and broadcasts it.
func (s *Server) Publish(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.latest.Store(&b)
	s.Hub.Broadcast(b)
	return nil
}

// Handler routes /ws, /metrics and /api/best.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.Hub, w, r)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/best", func(w http.ResponseWriter, r *http.Request) {
		b := s.latest.Load()
		if b == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(*b)
	})
	return mux
}

// Start serves on port until ctx is done.
func (s *Server) Start(ctx context.Context, port int) error {
	go s.Hub.Run()
	defer s.Hub.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	log.Printf("HTTP Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
