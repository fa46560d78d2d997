// Package server wires HTTP handlers into a ServeMux via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application routes.
// The root path accepts WebSocket upgrades and answers plain requests with
// the health message.
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.WebSocketHandler)
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/test", TestPageHandler)
	return mux
}
