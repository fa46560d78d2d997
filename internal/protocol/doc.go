// Package protocol implements the per-connection TMI command interpreter of
// the mock server.
//
// A raw line is first parsed into one of a closed set of Command variants
// (Parse), then the Interpreter effects it against the shared channel and
// user registries and returns a Result: an optional reply and an optional
// Write for the connection's Session. The Session owns the handshake state
// and produces the welcome frames exactly once.
package protocol
