package outbox

import "time"

// Message is an audit outbox row persisted alongside the state change that
// produced it. The worker relay reads pending rows in creation order and
// publishes them to the event bus.
type Message struct {
	OutboxID  string
	EventType string
	Payload   []byte
	Status    string // pending, published
	CreatedAt time.Time
}

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)
