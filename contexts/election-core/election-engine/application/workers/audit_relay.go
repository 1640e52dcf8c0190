package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "electorate/contexts/election-core/election-engine/application"
	"electorate/contexts/election-core/election-engine/ports"
)

// AuditRelay publishes persisted audit records to the event bus.
type AuditRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending audit rows and marks each row
// published only after the bus accepted it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r AuditRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingAudit(ctx, limit)
	if err != nil {
		logger.Error("audit outbox list failed",
			"event", "audit_relay_list_failed",
			"module", "election-core/election-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("audit relay found no pending rows",
			"event", "audit_relay_noop",
			"module", "election-core/election-engine",
			"layer", "worker",
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("audit outbox decode failed",
				"event", "audit_relay_decode_failed",
				"module", "election-core/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("audit outbox publish failed",
				"event", "audit_relay_publish_failed",
				"module", "election-core/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkAuditPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("audit outbox mark published failed",
				"event", "audit_relay_mark_published_failed",
				"module", "election-core/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("audit relay cycle completed",
		"event", "audit_relay_completed",
		"module", "election-core/election-engine",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
