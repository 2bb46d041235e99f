package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/veloracart/ecommerce-api/models"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsClient serializes writes to one connection; the websocket package
// allows only a single concurrent writer per conn.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*wsClient]bool)
)

// GET /admin/orders/live
// Streams newly placed orders to connected admin dashboards.
func OrderWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn}
	wsMu.Lock()
	wsClients[client] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, client)
			wsMu.Unlock()
			break
		}
	}
}

// broadcastNewOrder fans the order out to connected clients. The client
// set is snapshotted first and each write carries a deadline, so one
// stalled socket cannot hold the registry lock and delay checkout
// responses.
func broadcastNewOrder(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	wsMu.Lock()
	clients := make([]*wsClient, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsMu.Unlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			wsMu.Lock()
			delete(wsClients, client)
			wsMu.Unlock()
			client.conn.Close()
		}
	}
}
