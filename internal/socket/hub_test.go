package socket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// dialTestClient stands up a websocket endpoint that registers the server
// side of the connection in the hub, and returns the client side for reading.
func dialTestClient(t *testing.T, hub *Hub, employeeID string) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(employeeID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was never registered")
	}
	return client
}

func TestNotify_UnknownEmployeeIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// must simply return; the workflow state is the source of truth
	hub.Notify("EMP-NOBODY", "request.approved", map[string]string{"requestID": "REQ-AAAA1111"})
}

func TestNotify_DeliversEvent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := dialTestClient(t, hub, "EMP-12345678")

	hub.Notify("EMP-12345678", "request.approved", map[string]string{"requestID": "REQ-AAAA1111"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := client.ReadMessage()
	assert.NoError(t, err)

	var event Event
	assert.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, "request.approved", event.Kind)
}

// Several workflow handlers can notify the same employee at once; every write
// to one connection has to be serialized or gorilla/websocket panics.
func TestNotify_ConcurrentSenders(t *testing.T) {
	const senders = 4
	const perSender = 25

	hub := NewHub(zap.NewNop())
	client := dialTestClient(t, hub, "EMP-12345678")

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Notify("EMP-12345678", "request.approved", map[string]string{"requestID": "REQ-AAAA1111"})
			}
		}()
	}
	wg.Wait()

	received := 0
	for received < senders*perSender {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := client.ReadMessage(); err != nil {
			break
		}
		received++
	}
	assert.Equal(t, senders*perSender, received)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	dialTestClient(t, hub, "EMP-12345678")

	hub.Unregister("EMP-12345678")
	hub.Notify("EMP-12345678", "request.approved", map[string]string{"requestID": "REQ-AAAA1111"})

	hub.mu.RLock()
	_, ok := hub.clients["EMP-12345678"]
	hub.mu.RUnlock()
	assert.False(t, ok)
}
