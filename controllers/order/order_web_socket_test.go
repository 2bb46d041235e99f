package orderControllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloracart/ecommerce-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func clientCount() int {
	wsMu.Lock()
	defer wsMu.Unlock()
	return len(wsClients)
}

func waitForClients(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for clientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connected clients, have %d", want, clientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	r := gin.New()
	r.GET("/admin/orders/live", OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForClients(t, 1)

	order := models.Order{OrderNumber: "20260101000000-live", TotalCents: 1250}
	broadcastNewOrder(order)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Order
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
	assert.Equal(t, order.TotalCents, got.TotalCents)
}

func TestBroadcastDropsClosedClient(t *testing.T) {
	r := gin.New()
	r.GET("/admin/orders/live", OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitForClients(t, 1)

	conn.Close()
	waitForClients(t, 0)

	// Broadcasting with no remaining clients must not block checkout.
	done := make(chan struct{})
	go func() {
		broadcastNewOrder(models.Order{OrderNumber: "20260101000001-gone"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked after the client disconnected")
	}
}
