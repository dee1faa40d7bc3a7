package api

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the middleware level; the browser origin check
	// adds nothing for a local assistant.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket runs a chat conversation over a websocket. Each text
// frame carries one ChatRequest; each reply frame carries the turn
// outcome. The connection pins its session after the first turn, so
// clients that send no session_id still get continuous state.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	s.logger.Info("websocket connected", "remote", conn.RemoteAddr().String())

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		if req.SessionID != "" {
			sessionID = req.SessionID
		}
		if err := s.validate.Struct(req); err != nil {
			if err := conn.WriteJSON(map[string]string{"error": "message is required"}); err != nil {
				return
			}
			continue
		}

		reply := s.agent.HandleTurn(r.Context(), req.Message, sessionID)
		sessionID = reply.SessionID

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
