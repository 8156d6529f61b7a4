package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/notify"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/shared/id"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	replyBuffer    = 8
)

var upgrader = websocket.Upgrader{
	// The API only listens on a local address for the shell's own UI.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Metrics receives connection and message counts.
type Metrics interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

// ClientMessage is a message from the UI.
type ClientMessage struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// ServerMessage is a message to the UI.
type ServerMessage struct {
	Type         string               `json:"type"`
	ConnectionID id.ConnectionID      `json:"connection_id,omitempty"`
	Event        notify.EventType     `json:"event,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Message      string               `json:"message,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// Handler manages WebSocket connections
type Handler struct {
	center  *notify.Center
	metrics Metrics
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics and logger may be nil.
func NewHandler(center *notify.Center, metrics Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{center: center, metrics: metrics, logger: logger}
}

// HandleConnection upgrades the request and streams notification events
// until the client goes away or the center closes.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := id.NewConnectionID()
	log := h.logger.With(zap.String("connection_id", connID.String()))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, cancel := h.center.Subscribe()
	defer cancel()

	log.Debug("Notification stream connected")
	defer log.Debug("Notification stream disconnected")

	replies := make(chan ServerMessage, replyBuffer)
	readDone := make(chan struct{})
	go h.readLoop(conn, replies, readDone, log)

	if err := h.send(conn, ServerMessage{Type: "system", ConnectionID: connID}); err != nil {
		return
	}
	h.writeLoop(conn, events, replies, readDone, log)
}

// readLoop handles client messages. It closes done when the connection
// fails or the client closes it.
func (h *Handler) readLoop(conn *websocket.Conn, replies chan<- ServerMessage, done chan<- struct{}, log *zap.Logger) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.record("in", msg.Type)

		reply, ok := h.handleMessage(msg)
		if !ok {
			continue
		}
		select {
		case replies <- reply:
		default:
			log.Debug("Dropped reply to slow client", zap.String("type", reply.Type))
		}
	}
}

func (h *Handler) handleMessage(msg ClientMessage) (ServerMessage, bool) {
	switch msg.Type {
	case "ping":
		return ServerMessage{Type: "pong"}, true
	case "dismiss":
		if !id.IsValid(msg.ID) {
			return ServerMessage{Type: "error", Message: "invalid notification id"}, true
		}
		// A removed event follows through the subscription.
		h.center.Dismiss(id.NotificationID(msg.ID))
		return ServerMessage{}, false
	default:
		return ServerMessage{Type: "error", Message: "unknown message type"}, true
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, events <-chan notify.Event, replies <-chan ServerMessage, readDone <-chan struct{}, log *zap.Logger) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		var err error
		select {
		case <-readDone:
			return
		case e, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			n := e.Notification
			err = h.send(conn, ServerMessage{Type: "notification", Event: e.Type, Notification: &n})
		case reply := <-replies:
			err = h.send(conn, reply)
		case <-ping.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
		if err != nil {
			log.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg ServerMessage) error {
	msg.Timestamp = time.Now().Unix()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	h.record("out", msg.Type)
	return nil
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
