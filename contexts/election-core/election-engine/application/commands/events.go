package commands

import (
	"context"
	"time"

	"electorate/contexts/election-core/election-engine/ports"
	"electorate/internal/shared/events"
)

// appendAudit emits the single audit envelope of a successful command. It is
// called after every mutation of the command has been applied, never before
// and never on a failure path.
func appendAudit(
	ctx context.Context,
	audit ports.AuditWriter,
	idgen ports.IDGenerator,
	operation string,
	actorID string,
	electionKey string,
	occurredAt time.Time,
	payload map[string]any,
) error {
	if audit == nil {
		return nil
	}
	eventID, err := idgen.NewID(ctx)
	if err != nil {
		return err
	}
	return audit.AppendAudit(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      operation,
		SourceService:  "election-engine",
		OccurredAtUTC:  occurredAt.UTC(),
		ActorID:        actorID,
		EntityType:     "election",
		EntityID:       electionKey,
		PayloadVersion: 1,
		Payload:        payload,
	})
}
