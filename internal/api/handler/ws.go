package handler

import (
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/hub"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin; the access token is the only gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades to the live status feed. Browsers cannot set headers
// on a websocket handshake, so the access token may also come as ?token=.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		t, _, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		token = t
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.abortError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := hub.NewWebSocketClient(conn, h.Hub, complaint.Resolve(user))
	h.Hub.Register(client)
	client.Run()
}
