// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in test console.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSocketHandler upgrades the request to a TMI connection. Plain requests
// to the same path get the health message so the port can be probed.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		s.HealthHandler(w, r)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}

	client := NewClient(conn, s.hub, s.interpreter, s.cfg, s.log, r.RemoteAddr)

	// The hub launches the pump and liveness goroutines.
	if !s.hub.registerClient(client) {
		client.log.Warn("Hub is shutting down; rejecting connection")
		client.closeConnection()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	channels := s.Channels()
	_, _ = fmt.Fprintf(w, "Mock TMI server is running! Clients: %d, channels: %d (%d joined), users: %d",
		s.hub.ClientCount(), channels.Len(), channels.Connected(), s.Users().Len())
}

// TestPageHandler serves an HTML console that opens a connection to this
// server, performs the handshake and sends raw protocol lines.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPage); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

const testPage = `<!DOCTYPE html>
<html>
<head>
    <title>Mock TMI Console</title>
    <style>
        body { font-family: monospace; margin: 20px; }
        #lines { border: 1px solid #ccc; height: 360px; padding: 10px; overflow-y: scroll; margin: 10px 0; background-color: #f9f9f9; white-space: pre-wrap; }
        input[type="text"] { width: 420px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; background-color: #6441a5; color: white; border: none; cursor: pointer; }
        .status { margin: 10px 0; padding: 5px; border-radius: 3px; }
        .connected { background-color: #d4edda; color: #155724; }
        .disconnected { background-color: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <h1>Mock TMI Console</h1>
    <div id="status" class="status disconnected">Disconnected</div>
    <div>
        <input type="text" id="lineInput" placeholder="PRIVMSG #channel :hello giftcount=10" disabled>
        <button id="sendButton" onclick="sendLine()" disabled>Send</button>
        <button id="connectButton" onclick="toggleConnection()">Connect</button>
    </div>
    <div id="lines"></div>
    <script>
        let ws = null;
        const linesDiv = document.getElementById('lines');
        const lineInput = document.getElementById('lineInput');
        const sendButton = document.getElementById('sendButton');
        const connectButton = document.getElementById('connectButton');
        const statusDiv = document.getElementById('status');

        function addLine(text, prefix) {
            const el = document.createElement('div');
            el.textContent = prefix + ' ' + text;
            linesDiv.appendChild(el);
            linesDiv.scrollTop = linesDiv.scrollHeight;
        }

        function updateStatus(connected) {
            statusDiv.textContent = connected ? 'Connected' : 'Disconnected';
            statusDiv.className = 'status ' + (connected ? 'connected' : 'disconnected');
            lineInput.disabled = !connected;
            sendButton.disabled = !connected;
            connectButton.textContent = connected ? 'Disconnect' : 'Connect';
        }

        function send(line) {
            ws.send(line);
            addLine(line, '>');
        }

        function connect() {
            ws = new WebSocket('ws://' + location.host + '/');
            ws.onopen = function() {
                updateStatus(true);
                send('CAP REQ :twitch.tv/tags twitch.tv/commands');
                send('PASS oauth:console');
                send('NICK console');
            };
            ws.onmessage = function(event) {
                if (event.data === 'PING') {
                    send('PONG :tmi.twitch.tv');
                }
                addLine(event.data, '<');
            };
            ws.onclose = function() {
                addLine('connection closed', '*');
                updateStatus(false);
                ws = null;
            };
        }

        function toggleConnection() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.close();
            } else {
                connect();
            }
        }

        function sendLine() {
            const line = lineInput.value.trim();
            if (line && ws && ws.readyState === WebSocket.OPEN) {
                send(line);
                lineInput.value = '';
            }
        }

        lineInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') {
                sendLine();
            }
        });
    </script>
</body>
</html>`
