package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"social-feed-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // clients are served from other origins
	},
}

// WebSocketHandler subscribes connections to live engagement changes of a post
type WebSocketHandler struct {
	hub         *services.WSHub
	postService *services.PostService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, postService *services.PostService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		postService: postService,
	}
}

// HandleWebSocket handles GET /ws?post_id=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("post_id")
	if postID == "" {
		respondError(w, "post_id required", http.StatusBadRequest)
		return
	}
	if _, err := h.postService.GetPost(r.Context(), postID); err != nil {
		respondServiceError(w, r, err, "subscribe to post")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := h.hub.Register(postID, conn)
	defer h.hub.Unregister(postID, client)

	subscribed := services.WSMessage{
		Type:      "subscribed",
		PostID:    postID,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.hub.SendTo(postID, client, subscribed); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to send subscribed message")
		return
	}

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("post_id", postID).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.reply(postID, client, services.WSMessage{Type: "error", Message: "Invalid message format"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.reply(postID, client, services.WSMessage{Type: "pong", Timestamp: time.Now().UnixMilli()})
		default:
			h.reply(postID, client, services.WSMessage{Type: "error", Message: "Unknown message type"})
		}
	}
}

func (h *WebSocketHandler) reply(postID string, client *services.WSClient, msg services.WSMessage) {
	if err := h.hub.SendTo(postID, client, msg); err != nil {
		log.Error().
			Err(err).
			Str("post_id", postID).
			Str("type", msg.Type).
			Msg("Failed to send WebSocket message")
	}
}
