// internal/app/features/chat/ws.go
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/classmentor/internal/app/system/limits"
	"github.com/dalemusser/classmentor/internal/app/system/sanitize"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin pages only; the session cookie is the credential.
	CheckOrigin: func(r *http.Request) bool {
		return r.Header.Get("Origin") == "" || r.Header.Get("Origin") == "http://"+r.Host || r.Header.Get("Origin") == "https://"+r.Host
	},
}

// inboundMessage is what the client sends over the socket.
type inboundMessage struct {
	Text string `json:"text"`
}

// ServeWS handles GET /chat/{roomID}/ws: upgrades the connection,
// streams full room snapshots, and accepts text messages.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID, userID, user, ok := h.roomAccess(r)
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.Hub.Subscribe(roomID)
	defer h.Hub.Unsubscribe(roomID, sub)

	// Send the current history immediately so the client renders
	// without waiting for the first append.
	{
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		messages, err := h.Messages.ListByRoom(ctx, roomID)
		cancel()
		if err != nil {
			h.Log.Warn("load initial snapshot failed", zap.Error(err))
			return
		}
		payload, err := json.Marshal(h.messageViews(messages))
		if err != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	go h.writePump(conn, sub)
	h.readPump(conn, roomID, userID, user.Email)
}

// writePump pushes snapshots and pings until the subscription closes.
func (h *Handler) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case payload, open := <-sub.C:
			if !open {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump accepts inbound text messages, persists them, and triggers a
// snapshot broadcast. It returns when the socket closes.
func (h *Handler) readPump(conn *websocket.Conn, roomID string, userID primitive.ObjectID, senderEmail string) {
	conn.SetReadLimit(int64(limits.MaxMessageChars) * 4)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		text := sanitize.Text(in.Text)
		if text == "" || len(text) > limits.MaxMessageChars {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		_, err = h.Messages.Append(ctx, models.Message{
			RoomID:      roomID,
			SenderID:    userID,
			SenderEmail: senderEmail,
			Kind:        models.MessageText,
			Text:        text,
		})
		if err != nil {
			cancel()
			h.Log.Warn("append chat message failed", zap.Error(err))
			continue
		}
		h.broadcastSnapshot(ctx, roomID)
		cancel()
	}
}
