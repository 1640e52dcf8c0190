package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "electorate/contexts/election-core/election-engine/application"
	"electorate/contexts/election-core/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
	"electorate/contexts/election-core/election-engine/domain/services"
	"electorate/contexts/election-core/election-engine/ports"
)

type AddPartyCommand struct {
	ActorID     string
	ElectionKey string
	Name        string
}

type RemovePartyCommand struct {
	ActorID     string
	ElectionKey string
	Name        string
}

// PartyUseCase maintains the per-election party registry. Entries are
// append-only; duplicate names are accepted as distinct entries, and removal
// marks every matching entry inactive instead of deleting it.
type PartyUseCase struct {
	Elections ports.ElectionRepository
	Parties   ports.PartyRepository
	Admins    ports.AdminRepository
	Owner     ports.OwnerAuthority
	Locks     *application.KeyedLocks
	Audit     ports.AuditWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc PartyUseCase) Add(ctx context.Context, cmd AddPartyCommand) (entities.Party, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	electionKey := strings.TrimSpace(cmd.ElectionKey)
	name := strings.TrimSpace(cmd.Name)

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return entities.Party{}, err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return entities.Party{}, err
	}
	isAdmin, err := callerIsAdmin(ctx, uc.Owner, uc.Admins, electionKey, actor)
	if err != nil {
		return entities.Party{}, err
	}
	if !isAdmin {
		return entities.Party{}, domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if !services.IsOpen(services.DeriveStatus(election, now)) {
		return entities.Party{}, domainerrors.ErrElectionNotOpen
	}
	if !services.ValidName(name) {
		return entities.Party{}, domainerrors.ErrInvalidPartyName
	}

	existing, err := uc.Parties.ListParties(ctx, electionKey)
	if err != nil {
		return entities.Party{}, err
	}
	partyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Party{}, err
	}
	party := entities.Party{
		PartyID:     partyID,
		ElectionKey: electionKey,
		Name:        name,
		VoteCount:   0,
		Status:      entities.PartyStatusActive,
		Position:    len(existing),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Parties.AddParty(ctx, party); err != nil {
		return entities.Party{}, err
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "party.added", actor, electionKey, now, map[string]any{
		"party_id":   party.PartyID,
		"party_name": party.Name,
	}); err != nil {
		return entities.Party{}, err
	}

	logger.Info("party added",
		"event", "party_added",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"party_id", party.PartyID,
		"party_name", party.Name,
		"actor_id", actor,
	)
	return party, nil
}

// Remove marks every party entry with the given name inactive. Their vote
// counts are kept so historical votes stay attributable in the tally record.
func (uc PartyUseCase) Remove(ctx context.Context, cmd RemovePartyCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	electionKey := strings.TrimSpace(cmd.ElectionKey)
	name := strings.TrimSpace(cmd.Name)

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return err
	}
	isAdmin, err := callerIsAdmin(ctx, uc.Owner, uc.Admins, electionKey, actor)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if !services.IsOpen(services.DeriveStatus(election, now)) {
		return domainerrors.ErrElectionNotOpen
	}

	deactivated, err := uc.Parties.DeactivatePartiesByName(ctx, electionKey, name, now)
	if err != nil {
		return err
	}
	if deactivated == 0 {
		return domainerrors.ErrPartyNotFound
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "party.removed", actor, electionKey, now, map[string]any{
		"party_name":  name,
		"deactivated": deactivated,
	}); err != nil {
		return err
	}

	logger.Info("party removed",
		"event", "party_removed",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"party_name", name,
		"deactivated", deactivated,
		"actor_id", actor,
	)
	return nil
}

func (uc PartyUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
