package hub

import (
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	sendBuffer = 32
)

// WebSocketClient streams status events over one websocket connection.
// The feed is one-way; anything the browser sends is read and discarded.
type WebSocketClient struct {
	id     string
	caller complaint.Caller
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.StatusEvent
	Log    *zap.Logger
}

func NewWebSocketClient(conn *websocket.Conn, h *ManagerService, caller complaint.Caller) *WebSocketClient {
	return &WebSocketClient{
		id:     uuid.NewString(),
		caller: caller,
		Conn:   conn,
		Hub:    h,
		Send:   make(chan models.StatusEvent, sendBuffer),
		Log:    h.Log,
	}
}

func (c *WebSocketClient) ID() string                             { return c.id }
func (c *WebSocketClient) Caller() complaint.Caller               { return c.caller }
func (c *WebSocketClient) SendChannel() chan<- models.StatusEvent { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close is called by the hub exactly once.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Debug("websocket read failed", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(ev); err != nil {
				c.Log.Debug("websocket write failed", zap.String("client_id", c.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
