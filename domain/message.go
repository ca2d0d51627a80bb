package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable outbound chat event.
type Message struct {
	ID      uuid.UUID // unique identifier
	Sender  string
	Content string
	At      time.Time
}

func NewMessage(sender, content string) Message {
	return Message{
		ID:      uuid.New(),
		Sender:  sender,
		Content: content,
		At:      time.Now(),
	}
}

// Render formats the default broadcast line seen by other clients.
func (m Message) Render() string {
	return fmt.Sprintf("[%s] %s: %s", m.At.Format(time.TimeOnly), m.Sender, m.Content)
}

// RenderToAll formats an explicit /all broadcast line.
func (m Message) RenderToAll() string {
	return fmt.Sprintf("[%s] %s (to all): %s", m.At.Format(time.TimeOnly), m.Sender, m.Content)
}

// RenderPrivate formats a directed message line seen only by its recipient.
func (m Message) RenderPrivate() string {
	return fmt.Sprintf("[%s] private message from %s: %s", m.At.Format(time.TimeOnly), m.Sender, m.Content)
}

// SystemNotice formats a server-originated announcement (join, leave).
func SystemNotice(text string) string {
	return "[SYSTEM] " + text
}

// DeliveryResult is the outcome of a directed delivery attempt.
type DeliveryResult int

const (
	Delivered DeliveryResult = iota
	RecipientNotFound
	SendFailed
)
