package notification

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one employee's open websocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	employeeID string
	send       chan []byte
}

// Hub tracks connected clients per employee and pushes inbox updates to them
// the moment a notification row is written.
type Hub struct {
	mu         sync.Mutex
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("notification.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub")
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     l,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.employeeID] == nil {
				h.clients[client.employeeID] = make(map[*Client]bool)
			}
			h.clients[client.employeeID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.String("employee_id", client.employeeID))
		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.employeeID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.employeeID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.String("employee_id", client.employeeID))
		}
	}
}

// SendTo delivers a payload to every open connection of one employee. Offline
// employees are skipped; the inbox row is their durable copy.
func (h *Hub) SendTo(employeeID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[employeeID] {
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(h.clients[employeeID], client)
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		n := len(c.send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.Error(err))
			}
			break
		}
	}
}

// ServeWs upgrades the connection. Browsers cannot set an Authorization
// header on the websocket handshake, so the token rides in a query param.
func ServeWs(hub *Hub, c *gin.Context, secret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: hub, conn: conn, employeeID: employeeID, send: make(chan []byte, 256)}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}
