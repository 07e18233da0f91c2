package handlers

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/rsharma/socialnet/internal/realtime"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/sirupsen/logrus"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub      *realtime.Hub
	sessions *service.SessionManager
}

func NewWebSocketHandler(hub *realtime.Hub, sessions *service.SessionManager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, sessions: sessions}
}

// Handle upgrades an authenticated connection and subscribes it to the
// change-event stream. The token rides in a query parameter because browser
// websocket clients cannot set headers.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	session, err := h.sessions.Verify(r.Context(), token)
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "User is not authenticated", "unauthenticated", nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	realtime.NewClient(h.hub, conn, session.UserID).Start()
}
