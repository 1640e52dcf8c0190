package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"electorate/contexts/election-core/election-engine/adapters/memory"
	"electorate/contexts/election-core/election-engine/ports"
	"electorate/internal/shared/events"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	failUntil int
	calls     int
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.calls++
	if p.calls <= p.failUntil {
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string) {
	t.Helper()
	err := store.AppendAudit(context.Background(), events.Envelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "election-engine",
		OccurredAtUTC: time.Now().UTC(),
		Payload:       map[string]any{"election_key": "e1"},
	})
	if err != nil {
		t.Fatalf("append audit failed: %v", err)
	}
}

func TestAuditRelayPublishesPendingRows(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	appendEnvelope(t, store, "evt-1", "election.created")
	appendEnvelope(t, store, "evt-2", "vote.cast")

	relay := AuditRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected two published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "evt-1" || publisher.published[1].EventID != "evt-2" {
		t.Fatalf("events must publish in append order")
	}

	// A second cycle finds nothing and republishes nothing.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("published rows must not be republished")
	}
}

func TestAuditRelayPublishesVersionedWireForm(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	appendEnvelope(t, store, "evt-1", "election.created")

	relay := AuditRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}

	wire := publisher.published[0]
	if wire.EventType != "election.created" || wire.SourceService != "election-engine" {
		t.Fatalf("wire envelope lost header fields: %+v", wire)
	}
	// The contracts envelope carries the payload as raw JSON so external
	// consumers can decode it against their own schema.
	var payload map[string]string
	if err := json.Unmarshal(wire.Payload, &payload); err != nil {
		t.Fatalf("wire payload must stay valid JSON: %v", err)
	}
	if payload["election_key"] != "e1" {
		t.Fatalf("wire payload diverged from the stored row: %+v", payload)
	}
}

func TestAuditRelayRetriesAfterPublishFailure(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{failUntil: 1}
	appendEnvelope(t, store, "evt-1", "election.created")

	relay := AuditRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}

	// The row stayed pending, so the next cycle delivers it.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0].EventID != "evt-1" {
		t.Fatalf("expected the row to be delivered on retry, got %+v", publisher.published)
	}
}
