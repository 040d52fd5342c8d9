package handlers

import (
	"net/http"
	"time"

	"ihub-asset-api-server/internal/auth"
	"ihub-asset-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// pongWait is the maximum time to wait between client heartbeats.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub       *socket.Hub
	JWTSecret []byte
	Log       *zap.Logger
}

// ServeWs upgrades GET /ws?token= to a WebSocket over which the employee
// receives workflow notifications.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT(h.JWTSecret, tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	employeeID := claims.EmployeeID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Error("failed to upgrade websocket connection", zap.Error(err))
		return
	}

	h.Hub.Register(employeeID, conn)
	defer func() {
		h.Hub.Unregister(employeeID)
		conn.Close()
	}()

	// Heartbeat: a PING from the client extends the read deadline; gorilla
	// answers the PONG itself.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Warn("unexpected websocket close", zap.String("employeeID", employeeID), zap.Error(err))
			}
			break
		}
	}
}
