// Package server implements the HTTP and WebSocket side of the mock TMI server.
//
// Each accepted connection becomes a Client registered with the Hub. The
// client's read pump feeds inbound lines to the shared protocol interpreter,
// its write pump sends one WebSocket text frame per reply, and a liveness
// supervisor pings it on a fixed interval and terminates it if no PONG
// arrives in time.
//
// The implementation is organized into specialized files for configuration, hub
// management, clients, liveness, routing, and HTTP handlers.
package server
