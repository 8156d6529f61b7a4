// Package notify shows transient, user-visible notifications ("toasts").
//
// A notification lives for a fixed time (3s by default) and is then removed.
// Subscribers, such as the WebSocket stream, receive an event whenever one is
// shown or removed.
package notify

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/shared/id"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ParseLevel maps a name to a Level. Unknown names become LevelInfo.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelSuccess, LevelWarning, LevelError:
		return l
	default:
		return LevelInfo
	}
}

// Notification is one toast.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	Message   string            `json:"message"`
	Level     Level             `json:"level"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// EventType says what happened to a notification.
type EventType string

const (
	EventShown   EventType = "shown"
	EventRemoved EventType = "removed"
)

// Event is delivered to subscribers.
type Event struct {
	Type         EventType    `json:"type"`
	Notification Notification `json:"notification"`
}
