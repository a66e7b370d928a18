package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradelens/backend/pkg/logger"
)

func dialTestHub(t *testing.T, hub *Hub, userID string) (*websocket.Conn, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, userID)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("failed to dial: %v", err)
	}
	return conn, srv
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_NotifyDeliversEvent(t *testing.T) {
	hub := NewHub(100, 100, logger.Nop())
	conn, srv := dialTestHub(t, hub, "user-1")
	defer srv.Close()
	defer conn.Close()

	waitForClients(t, hub, 1)
	hub.Notify("user-1", EventSummaryRefreshed)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if event.Type != EventSummaryRefreshed {
		t.Errorf("event.Type = %q, want %q", event.Type, EventSummaryRefreshed)
	}
	if event.UserID != "user-1" {
		t.Errorf("event.UserID = %q, want user-1", event.UserID)
	}
}

func TestHub_NotifyOtherUserNotDelivered(t *testing.T) {
	hub := NewHub(100, 100, logger.Nop())
	conn, srv := dialTestHub(t, hub, "user-1")
	defer srv.Close()
	defer conn.Close()

	waitForClients(t, hub, 1)
	hub.Notify("user-2", EventSummaryRefreshed)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var event Event
	if err := conn.ReadJSON(&event); err == nil {
		t.Errorf("got event %+v for another user, want read timeout", event)
	}
}

func TestHub_RateLimitCoalescesBursts(t *testing.T) {
	// One event per second, burst of one: a burst of five notifies
	// must deliver exactly one event
	hub := NewHub(1, 1, logger.Nop())
	conn, srv := dialTestHub(t, hub, "user-1")
	defer srv.Close()
	defer conn.Close()

	waitForClients(t, hub, 1)
	for i := 0; i < 5; i++ {
		hub.Notify("user-1", EventSummaryRefreshed)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if err := conn.ReadJSON(&event); err == nil {
		t.Error("second event delivered, want burst coalesced into one")
	}
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub := NewHub(100, 100, logger.Nop())
	conn, srv := dialTestHub(t, hub, "user-1")
	defer srv.Close()
	defer conn.Close()

	waitForClients(t, hub, 1)
	hub.Shutdown(context.Background())

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount after shutdown = %d, want 0", got)
	}
}
