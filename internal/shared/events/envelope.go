package events

import "time"

// Envelope is the audit event shape shared by every context. One envelope is
// appended per successful state-changing operation and never on failure; it
// is the only externally observable trace of ledger history.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	ActorID        string    `json:"actor_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}
