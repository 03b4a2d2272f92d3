package advice

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionService "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
	"github.com/cabinet-ia/patrimoine/backend/internal/service/turn"
	"github.com/cabinet-ia/patrimoine/backend/pkg/utils"
)

// WebSocketHandler runs the turn cycle over a persistent connection so
// interactive frontends avoid re-posting for every question. Questions
// on one connection are processed strictly in order, which preserves
// the one-outstanding-call rule.
type WebSocketHandler struct {
	sessions     *sessionService.Service
	orchestrator *turn.Orchestrator
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates the websocket turn handler.
func NewWebSocketHandler(sessions *sessionService.Service, orchestrator *turn.Orchestrator) *WebSocketHandler {
	return &WebSocketHandler{
		sessions:     sessions,
		orchestrator: orchestrator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundMessage struct {
	Type      string       `json:"type"`
	Result    *turn.Result `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	state, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		if msg.Type != "question" {
			h.send(conn, outboundMessage{Type: "error", Error: "unsupported message type"})
			continue
		}

		result, err := h.orchestrator.Run(r.Context(), state, msg.Text)
		if err != nil {
			h.send(conn, outboundMessage{Type: "error", Error: err.Error()})
			continue
		}

		h.send(conn, outboundMessage{Type: "answer", Result: &result})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outboundMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
