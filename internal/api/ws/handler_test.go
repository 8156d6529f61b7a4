package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
)

type countingMetrics struct {
	mu       sync.Mutex
	open     int
	messages map[string]int
}

func (m *countingMetrics) IncWSConnections() { m.mu.Lock(); m.open++; m.mu.Unlock() }
func (m *countingMetrics) DecWSConnections() { m.mu.Lock(); m.open--; m.mu.Unlock() }

func (m *countingMetrics) RecordWSMessage(direction, msgType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messages == nil {
		m.messages = make(map[string]int)
	}
	m.messages[direction+":"+msgType]++
}

func (m *countingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[key]
}

func (m *countingMetrics) connections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func dial(t *testing.T, center *notify.Center, metrics Metrics) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stream", NewHandler(center, metrics, nil).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamDeliversNotifications(t *testing.T) {
	center := notify.NewCenter(notify.WithTTL(time.Hour))
	t.Cleanup(center.Close)
	metrics := &countingMetrics{}
	conn := dial(t, center, metrics)

	welcome := read(t, conn)
	assert.Equal(t, "system", welcome.Type)
	assert.True(t, strings.HasPrefix(welcome.ConnectionID.String(), "conn_"))

	shown := center.Success("Settings saved successfully")

	msg := read(t, conn)
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, notify.EventShown, msg.Event)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, shown.ID, msg.Notification.ID)
	assert.Equal(t, notify.LevelSuccess, msg.Notification.Level)

	assert.Equal(t, 1, metrics.connections())
	assert.Eventually(t, func() bool { return metrics.count("out:notification") == 1 }, time.Second, 10*time.Millisecond)
}

func TestStreamPingAndDismiss(t *testing.T) {
	center := notify.NewCenter(notify.WithTTL(time.Hour))
	t.Cleanup(center.Close)
	conn := dial(t, center, nil)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, "pong", read(t, conn).Type)

	n := center.Info("Tab closed")
	assert.Equal(t, notify.EventShown, read(t, conn).Event)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "dismiss", ID: n.ID.String()}))
	removed := read(t, conn)
	assert.Equal(t, notify.EventRemoved, removed.Event)
	assert.Empty(t, center.Active())

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "dismiss", ID: "bogus"}))
	assert.Equal(t, "error", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "teleport"}))
	assert.Equal(t, "unknown message type", read(t, conn).Message)
}

func TestStreamClosesWithCenter(t *testing.T) {
	center := notify.NewCenter()
	metrics := &countingMetrics{}
	conn := dial(t, center, metrics)
	read(t, conn)

	center.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Eventually(t, func() bool { return metrics.connections() == 0 }, time.Second, 10*time.Millisecond)
}
