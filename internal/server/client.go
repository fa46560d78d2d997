// Package server manages individual WebSocket clients, handling read/write
// pumps, rate limiting, liveness and lifecycle control for each connection.
package server

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/mock-tmi/internal/protocol"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
)

// Client represents one TMI connection. Its read pump owns the protocol
// session; the liveness supervisor runs beside it.
type Client struct {
	conn           *websocket.Conn
	send           chan []byte
	hub            *Hub
	addr           string
	log            *slog.Logger
	session        *protocol.Session
	interpreter    *protocol.Interpreter
	liveness       *liveness
	maxMessageSize int64
	rateLimiter    *rateLimiter
	rateLimit      RateLimitConfig

	mu            sync.Mutex
	closed        bool
	sendClosed    bool
	terminateOnce sync.Once
}

// NewClient creates a new Client instance with the provided WebSocket connection,
// hub reference, and client address. The client's send channel is buffered
// to handle message queuing.
func NewClient(conn *websocket.Conn, hub *Hub, interpreter *protocol.Interpreter, cfg Config, log *slog.Logger, addr string) *Client {
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	session := protocol.NewSession()
	c := &Client{
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		hub:            hub,
		addr:           addr,
		log:            log.With("id", session.ID(), "addr", addr),
		session:        session,
		interpreter:    interpreter,
		maxMessageSize: cfg.MaxMessageSize,
		rateLimiter:    newRateLimiter(cfg.RateLimit()),
		rateLimit:      cfg.RateLimit(),
	}
	c.liveness = newLiveness(cfg.Liveness(), c.log, func() bool {
		return c.Send(protocol.PingLine)
	}, c.terminate)
	return c
}

// GetSendChan returns the client's send channel for reading outgoing messages.
// This channel is read-only from the caller's perspective.
func (c *Client) GetSendChan() <-chan []byte {
	return c.send
}

// Session returns the client's protocol session.
func (c *Client) Session() *protocol.Session {
	return c.session
}

// Send queues text as one outbound frame. It returns false once the client
// is terminated or closed. A client whose buffer is full is terminated.
func (c *Client) Send(text string) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	select {
	case c.send <- []byte(text):
		c.mu.Unlock()
		return true
	default:
		c.mu.Unlock()
	}

	c.log.Warn("Send buffer full - terminating connection", "capacity", sendBufferSize)
	c.terminate()
	return false
}

// terminate stops all further sends and closes the socket. The read pump
// then observes the closed socket and unregisters the client.
func (c *Client) terminate() {
	c.terminateOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.liveness.stop()
		c.closeConnection()
	})
}

// release closes the send channel. Only the hub calls it, once the client
// has left the registry.
func (c *Client) release() {
	c.liveness.stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if !c.sendClosed {
		close(c.send)
		c.sendClosed = true
	}
}

// handleFrame interprets every line of one inbound text frame. Only
// non-control lines spend rate limit tokens, so a PONG always reaches the
// liveness supervisor.
func (c *Client) handleFrame(frame []byte) {
	for _, line := range splitLines(string(frame)) {
		if !protocol.IsControl(line) && !c.checkRateLimit() {
			continue
		}
		c.handleLine(line)
	}
}

func (c *Client) handleLine(line string) {
	result := c.interpreter.Interpret(line, c.session)
	c.log.Info("Message from client", "message", line, "command", result.Command, "type", result.Family)

	if result.HasResponse() {
		c.Send(result.Response)
	}

	if result.Family == protocol.FamilyPong {
		c.liveness.acknowledge()
	}

	if result.Write != nil {
		c.session.Apply(*result.Write)
		c.acknowledgeSession()
	}
}

func (c *Client) acknowledgeSession() {
	frames, ok := c.session.Acknowledge()
	if !ok {
		return
	}

	c.log.Info("Acknowledging client", "username", c.session.Username())
	for _, frame := range frames {
		c.Send(frame)
	}
}

func splitLines(frame string) []string {
	raw := strings.Split(strings.ReplaceAll(frame, "\r\n", "\n"), "\n")
	lines := raw[:0]
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// handleReadError logs appropriate error messages based on the error type
// and returns true if the read loop should break
func (c *Client) handleReadError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		c.log.Warn("Message exceeded maximum size", "limit", c.maxMessageSize)
		return true
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		c.log.Info("Client disconnected", "reason", err)
		return true
	}

	if errors.Is(err, io.EOF) || isExpectedCloseError(err) {
		c.log.Info("Client connection closed", "reason", err)
		return true
	}

	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig) {
		c.log.Warn("Unexpected WebSocket error", "err", err)
		return true
	}

	c.log.Warn("WebSocket read error", "err", err)
	return true
}

// checkRateLimit verifies if the client has exceeded rate limits
// and returns true if the line should be processed
func (c *Client) checkRateLimit() bool {
	if c.rateLimiter != nil && !c.rateLimiter.allow() {
		c.log.Warn("Rate limit exceeded; discarding line", "burst", c.rateLimit.Burst, "interval", c.rateLimit.RefillInterval)
		return false
	}
	return true
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.closeConnection()
	}()

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if c.handleReadError(err) {
			return
		}

		if messageType != websocket.TextMessage {
			c.log.Debug("Ignoring non-text frame", "type", messageType)
			continue
		}

		c.handleFrame(frame)
	}
}

func (c *Client) writePump() {
	defer c.closeConnection()

	for message := range c.GetSendChan() {
		if !c.writeTextMessage(message) {
			return
		}
	}
	c.writeCloseMessage()
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
		c.log.Warn("Error closing connection", "err", err)
	}
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil && !isExpectedCloseError(err) {
		c.log.Warn("Error writing close message", "err", err)
	}
}

// writeTextMessage writes one frame and returns false if the connection should be closed
func (c *Client) writeTextMessage(message []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.Warn("Error setting write deadline", "err", err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		if !isExpectedCloseError(err) {
			c.log.Warn("Error writing message", "err", err)
		}
		return false
	}
	return true
}
