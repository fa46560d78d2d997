// Package chat holds the shared chat state of the mock server: channels,
// users, and the two process-wide registries that own them.
//
// Registries are safe for concurrent use by every connection. A Channel
// guards its own membership; it references Users but never owns them.
package chat
