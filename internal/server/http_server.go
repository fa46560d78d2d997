// Package server constructs and starts the mock TMI service with helpers
// that apply sensible production defaults.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/mock-tmi/internal/chat"
	"github.com/Tyrowin/mock-tmi/internal/identity"
	"github.com/Tyrowin/mock-tmi/internal/protocol"
)

// Server wires the shared registries, the interpreter and the hub behind an
// HTTP server that upgrades connections to WebSocket.
type Server struct {
	cfg         Config
	log         *slog.Logger
	hub         *Hub
	channels    *chat.ChannelRegistry
	users       *chat.UserRegistry
	interpreter *protocol.Interpreter
	upgrader    websocket.Upgrader
	httpServer  *http.Server
}

// New creates a Server. opts tune the interpreter, mainly for tests.
func New(cfg Config, log *slog.Logger, gen identity.Generator, opts ...protocol.Option) *Server {
	cfg = sanitizeConfig(cfg)
	channels := chat.NewChannelRegistry()
	users := chat.NewUserRegistry()
	origins := newOriginPolicy(log, cfg.Origins())

	s := &Server{
		cfg:         cfg,
		log:         log,
		hub:         NewHub(log),
		channels:    channels,
		users:       users,
		interpreter: protocol.NewInterpreter(channels, users, gen, opts...),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
	}
	s.httpServer = CreateServer(cfg.Addr(), s.SetupRoutes())
	return s
}

// Hub returns the hub for shutdown coordination.
func (s *Server) Hub() *Hub { return s.hub }

// Channels returns the shared channel registry.
func (s *Server) Channels() *chat.ChannelRegistry { return s.channels }

// Users returns the shared user registry.
func (s *Server) Users() *chat.UserRegistry { return s.users }

// CreateServer creates and configures an HTTP server with the specified address and handler.
// Only the header read is bounded; upgraded connections live until closed.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// StartHub starts the hub loop in a separate goroutine.
// This should be called before serving connections.
func (s *Server) StartHub() {
	go s.hub.Run()
	s.log.Info("Hub started and ready to manage WebSocket connections")
}

// ListenAndServe starts the hub and the HTTP server. It returns nil after a
// graceful Shutdown.
func (s *Server) ListenAndServe() error {
	s.StartHub()
	s.log.Info("Server started", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, then closes every client and waits
// for their goroutines.
func (s *Server) Shutdown() error {
	httpErr := ShutdownServer(s.log, s.httpServer, s.cfg.ShutdownTimeout)
	hubErr := s.hub.Shutdown(s.cfg.ShutdownTimeout)
	return errors.Join(httpErr, hubErr)
}

// ShutdownServer gracefully shuts down the HTTP server without interrupting active connections.
// It waits for active connections to close or until the timeout is reached.
func ShutdownServer(log *slog.Logger, server *http.Server, timeout time.Duration) error {
	log.Info("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", "err", err)
		return err
	}

	log.Info("HTTP server shutdown completed")
	return nil
}
