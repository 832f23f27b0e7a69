package notification

import "time"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a short user-visible message.
type Notification struct {
	ID          string    `json:"id"`
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	seq uint64
}

// Notifier receives notifications produced by workflows.
type Notifier interface {
	Notify(n Notification)
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Level: LevelSuccess, Title: title, Description: description}
}

// Failure builds an error notification.
func Failure(title, description string) Notification {
	return Notification{Level: LevelError, Title: title, Description: description}
}

// Info builds an informational notification.
func Info(title, description string) Notification {
	return Notification{Level: LevelInfo, Title: title, Description: description}
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}
