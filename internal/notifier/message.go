package notifier

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Well-known message types pushed to staff clients.
const (
	TypeWelcome            = "welcome"
	TypeHeartbeat          = "heartbeat"
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeOrderAssigned      = "order_assigned"
	TypeOrderEscalated     = "order_escalated"
)

// Message is one notification as it travels to a client. It is a value:
// the hub stamps targeting fields on copies, never on the original, so a
// message is immutable once sent.
type Message struct {
	MessageID              string         `json:"messageId"`
	Type                   string         `json:"type"`
	Timestamp              time.Time      `json:"timestamp"`
	Data                   map[string]any `json:"data,omitempty"`
	Priority               string         `json:"priority"`
	TargetStaffID          string         `json:"targetStaffId,omitempty"`
	TargetRole             string         `json:"targetRole,omitempty"`
	SourceStaffID          string         `json:"sourceStaffId,omitempty"`
	Title                  string         `json:"title,omitempty"`
	Body                   string         `json:"message,omitempty"`
	RequiresAcknowledgment bool           `json:"requiresAcknowledgment"`
	TTLSeconds             int            `json:"ttlSeconds,omitempty"`
	CorrelationID          string         `json:"correlationId,omitempty"`
}

// NewMessage creates a message of the given type and priority with a fresh
// id and the current timestamp.
func NewMessage(messageType string, priority kernel.Priority) Message {
	return Message{
		MessageID: kernel.NewUUID().String(),
		Type:      messageType,
		Timestamp: time.Now().UTC(),
		Priority:  priority.String(),
	}
}

// WithData returns a copy of the message carrying the given payload.
func (m Message) WithData(data map[string]any) Message {
	m.Data = data
	return m
}

// WithText returns a copy of the message carrying a title and body.
func (m Message) WithText(title, body string) Message {
	m.Title = title
	m.Body = body
	return m
}

// WithAck returns a copy of the message that must be acknowledged within
// ttlSeconds. A non-positive ttl falls back to the hub default.
func (m Message) WithAck(ttlSeconds int) Message {
	m.RequiresAcknowledgment = true
	if ttlSeconds > 0 {
		m.TTLSeconds = ttlSeconds
	}
	return m
}

// WithCorrelation returns a copy of the message tied to a correlation id.
func (m Message) WithCorrelation(correlationID string) Message {
	m.CorrelationID = correlationID
	return m
}

// WithSource returns a copy of the message attributed to a staff member.
func (m Message) WithSource(staffID kernel.UUID) Message {
	m.SourceStaffID = staffID.String()
	return m
}

// retryAttempts returns how many redelivery attempts an unacknowledged
// message of this priority gets before the hub gives up.
func (m Message) retryAttempts() int {
	priority, err := kernel.PriorityFromString(m.Priority)
	if err != nil {
		priority = kernel.PriorityNormal
	}

	switch priority {
	case kernel.PriorityLow:
		return 1
	case kernel.PriorityNormal:
		return 2
	case kernel.PriorityHigh:
		return 3
	case kernel.PriorityUrgent, kernel.PriorityEmergency:
		return 5
	default:
		return 2
	}
}
