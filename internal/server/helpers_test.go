package server

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/mock-tmi/internal/identity"
)

const readTimeout = 2 * time.Second

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer starts a Server behind httptest. customize may adjust the
// default configuration before the server is built.
func newTestServer(t *testing.T, customize func(cfg *Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := NewConfig()
	if customize != nil {
		customize(cfg)
	}

	srv := New(*cfg, testLogger(), identity.Static{Name: "fake.chatter", Hex: "#9ACD32"})
	srv.StartHub()
	ts := httptest.NewServer(srv.SetupRoutes())

	t.Cleanup(func() {
		_ = srv.Hub().Shutdown(readTimeout)
		ts.Close()
	})
	return srv, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/"
}

// dial opens a connection with the given Origin header; an empty origin
// sends none.
func dial(t *testing.T, ts *httptest.Server, origin string) *websocket.Conn {
	t.Helper()

	conn, resp, err := dialRaw(ts, origin)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func dialRaw(ts *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	dialer := websocket.Dialer{HandshakeTimeout: readTimeout}
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return dialer.Dial(wsURL(ts), header)
}

func sendLine(t *testing.T, conn *websocket.Conn, line string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

// handshake completes CAP/PASS/NICK and consumes the welcome frames.
func handshake(t *testing.T, conn *websocket.Conn, nick string) {
	t.Helper()
	sendLine(t, conn, "CAP REQ :twitch.tv/tags twitch.tv/commands")
	sendLine(t, conn, "PASS oauth:test")
	sendLine(t, conn, "NICK "+nick)

	require.Equal(t, ":tmi.twitch.tv CAP * ACK :twitch.tv/tags twitch.tv/commands", readFrame(t, conn))
	require.True(t, strings.HasPrefix(readFrame(t, conn), ":tmi.twitch.tv 001 "+nick+" :Welcome, GLHF!"))
	require.Equal(t, "PING", readFrame(t, conn))
}

func expectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	_, data, err := conn.ReadMessage()
	require.Error(t, err, "unexpected frame %q", data)

	netErr, ok := err.(net.Error)
	require.True(t, ok && netErr.Timeout(), "expected timeout, got %v", err)
}

// expectClosed reads until the connection fails and returns the frames seen.
func expectClosed(t *testing.T, conn *websocket.Conn, timeout time.Duration) []string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))

	var frames []string
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			netErr, ok := err.(net.Error)
			require.False(t, ok && netErr.Timeout(), "connection still open after %s", timeout)
			return frames
		}
		frames = append(frames, string(data))
	}
}

// drain returns every frame queued on a client without a socket.
func drain(c *Client) []string {
	var frames []string
	for {
		select {
		case frame, ok := <-c.GetSendChan():
			if !ok {
				return frames
			}
			frames = append(frames, string(frame))
		default:
			return frames
		}
	}
}
