package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	application "electorate/contexts/identity-access/stewardship-service/application"
	domainerrors "electorate/contexts/identity-access/stewardship-service/domain/errors"
	"electorate/contexts/identity-access/stewardship-service/ports"
	"electorate/internal/shared/events"
)

const (
	gateWait = 2 * time.Second

	entityType = "stewardship"
	entityID   = "owner"
)

// OwnershipUseCase serializes every owner mutation behind a single gate so
// transfer and acceptance never interleave.
type OwnershipUseCase struct {
	Records ports.StewardshipRepository
	Audit   ports.AuditWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Gate    *semaphore.Weighted
	Logger  *slog.Logger
}

func (uc OwnershipUseCase) acquire(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, gateWait)
	defer cancel()
	if err := uc.Gate.Acquire(waitCtx, 1); err != nil {
		return nil, domainerrors.ErrStewardshipBusy
	}
	return func() { uc.Gate.Release(1) }, nil
}

// Transfer nominates a pending owner. Only the current owner may initiate,
// and the nominee must be a different non-empty identity.
func (uc OwnershipUseCase) Transfer(ctx context.Context, actorID, newOwner string) error {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)
	newOwner = strings.TrimSpace(newOwner)
	if newOwner == "" {
		return domainerrors.ErrInvalidOwner
	}

	release, err := uc.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	record, found, err := uc.Records.GetStewardship(ctx)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNotInitialized
	}
	if actorID == "" || actorID != record.Owner {
		return domainerrors.ErrUnauthorized
	}
	if newOwner == record.Owner {
		return domainerrors.ErrSameOwner
	}

	record.PendingOwner = newOwner
	record.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Records.SaveStewardship(ctx, record); err != nil {
		return err
	}

	if err := uc.appendAudit(ctx, "ownership.transfer_initiated", actorID, record.UpdatedAt, map[string]any{
		"owner":         record.Owner,
		"pending_owner": record.PendingOwner,
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "ownership transfer initiated",
		"event", "ownership.transfer_initiated",
		"module", "stewardship-service",
		"layer", "application",
		"pending_owner", record.PendingOwner,
	)
	return nil
}

// Accept completes a pending handover. Only the nominated identity may
// accept; on success it becomes the owner and the nomination is cleared.
func (uc OwnershipUseCase) Accept(ctx context.Context, actorID string) error {
	logger := application.ResolveLogger(uc.Logger)
	actorID = strings.TrimSpace(actorID)

	release, err := uc.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	record, found, err := uc.Records.GetStewardship(ctx)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNotInitialized
	}
	if actorID == "" || record.PendingOwner == "" || actorID != record.PendingOwner {
		return domainerrors.ErrNotPendingOwner
	}

	previous := record.Owner
	record.Owner = record.PendingOwner
	record.PendingOwner = ""
	record.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Records.SaveStewardship(ctx, record); err != nil {
		return err
	}

	if err := uc.appendAudit(ctx, "ownership.accepted", actorID, record.UpdatedAt, map[string]any{
		"previous_owner": previous,
		"owner":          record.Owner,
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "ownership transfer accepted",
		"event", "ownership.accepted",
		"module", "stewardship-service",
		"layer", "application",
		"owner", record.Owner,
	)
	return nil
}

func (uc OwnershipUseCase) appendAudit(ctx context.Context, operation, actorID string, occurredAt time.Time, payload map[string]any) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Audit.AppendAudit(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      operation,
		SourceService:  "stewardship-service",
		OccurredAtUTC:  occurredAt.UTC(),
		ActorID:        actorID,
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	})
}
