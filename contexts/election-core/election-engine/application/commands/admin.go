package commands

import (
	"context"
	"strings"

	application "electorate/contexts/election-core/election-engine/application"
	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
)

// AddAdmin grants per-election admin rights to an identity. Owner-only; the
// owner is implicitly an admin everywhere and never needs an explicit entry.
func (uc ElectionUseCase) AddAdmin(ctx context.Context, actorID string, electionKey string, identity string) error {
	return uc.adminMembership(ctx, actorID, electionKey, identity, "election.admin_added", uc.Admins.AddAdmin)
}

// RemoveAdmin revokes explicit admin rights. Removing an identity that is
// not an admin fails rather than succeeding silently.
func (uc ElectionUseCase) RemoveAdmin(ctx context.Context, actorID string, electionKey string, identity string) error {
	return uc.adminMembership(ctx, actorID, electionKey, identity, "election.admin_removed", uc.Admins.RemoveAdmin)
}

func (uc ElectionUseCase) adminMembership(
	ctx context.Context,
	actorID string,
	electionKey string,
	identity string,
	operation string,
	apply func(context.Context, string, string) error,
) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(actorID)
	electionKey = strings.TrimSpace(electionKey)
	identity = strings.TrimSpace(identity)

	isOwner, err := callerIsOwner(ctx, uc.Owner, actor)
	if err != nil {
		return err
	}
	if !isOwner {
		return domainerrors.ErrUnauthorized
	}
	if identity == "" {
		return domainerrors.ErrInvalidIdentity
	}

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return err
	}
	defer release()

	if _, err := uc.Elections.GetElection(ctx, electionKey); err != nil {
		return err
	}
	if err := apply(ctx, electionKey, identity); err != nil {
		return err
	}

	now := uc.now()
	if err := appendAudit(ctx, uc.Audit, uc.IDGen, operation, actor, electionKey, now, map[string]any{
		"admin_id": identity,
	}); err != nil {
		return err
	}
	logger.Info("election admin membership changed",
		"event", "election_admin_membership_changed",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"operation", operation,
		"admin_id", identity,
		"actor_id", actor,
	)
	return nil
}
