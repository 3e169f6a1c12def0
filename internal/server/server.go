// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a Workspace over HTTP: an embedded single-page UI,
// a small JSON API for each user action, and a websocket that pushes state
// snapshots to every open browser tab.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/workspace"
	"github.com/pdiddy/doc-digest/pkg/types"
)

// Server serves one Workspace.
type Server struct {
	ws     *workspace.Workspace
	hub    *Hub
	cfg    types.ServerConfig
	logger *zap.Logger
	mux    *http.ServeMux
}

// New builds a Server for ws and subscribes its websocket hub to workspace
// changes. Zero-valued config fields fall back to types.DefaultConfig.
func New(ws *workspace.Workspace, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := types.DefaultConfig().Server
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	s := &Server{
		ws:     ws,
		hub:    NewHub(logger),
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	ws.OnChange(s.hub.Broadcast)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", handleIndex)
	s.mux.Handle("GET /static/", cacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticAssets())))))

	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/files", s.handleAddFiles)
	s.mux.HandleFunc("DELETE /api/files/{index}", s.handleRemoveFile)
	s.mux.HandleFunc("DELETE /api/files", s.handleClearFiles)
	s.mux.HandleFunc("POST /api/process", s.handleProcess)
	s.mux.HandleFunc("GET /api/download", s.handleDownload)
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

// Handler returns the full handler chain with middleware applied.
func (s *Server) Handler() http.Handler {
	return requestLogger(s.logger, securityHeaders(s.mux))
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. It may be called once per Server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutdown initiated", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
