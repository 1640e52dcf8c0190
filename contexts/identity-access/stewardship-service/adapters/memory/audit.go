package memory

import (
	"context"
	"sync"

	"electorate/contexts/identity-access/stewardship-service/ports"
	"electorate/internal/shared/events"
)

// AuditLog is an in-memory audit sink for tests that run the module without
// the election store's outbox.
type AuditLog struct {
	mu      sync.Mutex
	entries []events.Envelope
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) AppendAudit(_ context.Context, envelope events.Envelope) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, envelope)
	return nil
}

// Entries returns a copy of the appended envelopes.
func (l *AuditLog) Entries() []events.Envelope {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.Envelope, len(l.entries))
	copy(out, l.entries)
	return out
}

var _ ports.AuditWriter = (*AuditLog)(nil)
