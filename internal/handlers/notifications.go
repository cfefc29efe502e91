package handlers

import (
	"net/http"
	"time"

	"vod-server/internal/logging"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	notifyWriteWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	notifyPongWait = 60 * time.Second
	// Send pings to the peer with this period. Must be less than notifyPongWait.
	notifyPingPeriod = (notifyPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Notifications upgrades the connection to a websocket and streams
// server events until the client disconnects.
// GET /notifications
func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response
		logging.Debug("Websocket upgrade failed: %v", err)
		return
	}

	subID, events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(subID)

	logging.Debug("Notification subscriber %s connected from %s", subID, r.RemoteAddr)

	// Reader goroutine: we never expect client messages, but reading is
	// required to process control frames and detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		if err := conn.SetReadDeadline(time.Now().Add(notifyPongWait)); err != nil {
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(notifyPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(notifyPingPeriod)
	defer ticker.Stop()
	defer func() {
		if err := conn.Close(); err != nil {
			logging.Debug("Failed to close websocket: %v", err)
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Hub shut down; tell the client we are going away
				_ = conn.SetWriteDeadline(time.Now().Add(notifyWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(notifyWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logging.Debug("Notification subscriber %s write failed: %v", subID, err)
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(notifyWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
