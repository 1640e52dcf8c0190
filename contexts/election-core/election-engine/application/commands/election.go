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

type CreateElectionCommand struct {
	ActorID     string
	Name        string
	Description string
	StartTime   time.Time
	StopTime    time.Time
	VoteFee     uint64
}

type UpdateElectionCommand struct {
	ActorID     string
	ElectionKey string
	Name        string
	Description string
	StartTime   time.Time
	StopTime    time.Time
	VoteFee     uint64
}

// ElectionUseCase orchestrates election lifecycle commands: create, update,
// cancel, pause, resume, delete, and admin membership changes. Every command
// that touches an existing election runs inside that election's exclusive
// region so lifecycle changes never race votes or each other.
type ElectionUseCase struct {
	Elections ports.ElectionRepository
	Admins    ports.AdminRepository
	Owner     ports.OwnerAuthority
	Locks     *application.KeyedLocks
	Audit     ports.AuditWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Create registers a new election. Owner-only. The election starts
// administratively paused even once its time window opens, so an explicit
// resume is required before votes are accepted.
func (uc ElectionUseCase) Create(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	name := strings.TrimSpace(cmd.Name)

	isOwner, err := callerIsOwner(ctx, uc.Owner, actor)
	if err != nil {
		return entities.Election{}, err
	}
	if !isOwner {
		logger.Warn("election create denied",
			"event", "election_create_denied",
			"module", "election-core/election-engine",
			"layer", "application",
			"actor_id", actor,
		)
		return entities.Election{}, domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if err := validateElectionFields(name, strings.TrimSpace(cmd.Description), cmd.StartTime, cmd.StopTime, now); err != nil {
		return entities.Election{}, err
	}

	electionKey, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election := entities.Election{
		ElectionKey: electionKey,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Creator:     actor,
		StartTime:   cmd.StartTime.UTC(),
		StopTime:    cmd.StopTime.UTC(),
		VoteFee:     cmd.VoteFee,
		Paused:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "election.created", actor, electionKey, now, map[string]any{
		"name":       election.Name,
		"start_time": election.StartTime.Format(time.RFC3339),
		"stop_time":  election.StopTime.Format(time.RFC3339),
		"vote_fee":   election.VoteFee,
	}); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"name", election.Name,
		"actor_id", actor,
	)
	return election, nil
}

// Update re-validates every field exactly like Create, except the name
// uniqueness check permits the election's own current name. The repository
// swaps the name reservation atomically.
func (uc ElectionUseCase) Update(ctx context.Context, cmd UpdateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	electionKey := strings.TrimSpace(cmd.ElectionKey)

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return entities.Election{}, err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return entities.Election{}, err
	}
	isAdmin, err := callerIsAdmin(ctx, uc.Owner, uc.Admins, electionKey, actor)
	if err != nil {
		return entities.Election{}, err
	}
	if !isAdmin {
		return entities.Election{}, domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if !services.IsOpen(services.DeriveStatus(election, now)) {
		return entities.Election{}, domainerrors.ErrElectionNotOpen
	}
	name := strings.TrimSpace(cmd.Name)
	if err := validateElectionFields(name, strings.TrimSpace(cmd.Description), cmd.StartTime, cmd.StopTime, now); err != nil {
		return entities.Election{}, err
	}

	election.Name = name
	election.Description = strings.TrimSpace(cmd.Description)
	election.StartTime = cmd.StartTime.UTC()
	election.StopTime = cmd.StopTime.UTC()
	election.VoteFee = cmd.VoteFee
	election.UpdatedAt = now
	if err := uc.Elections.UpdateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "election.updated", actor, electionKey, now, map[string]any{
		"name":       election.Name,
		"start_time": election.StartTime.Format(time.RFC3339),
		"stop_time":  election.StopTime.Format(time.RFC3339),
		"vote_fee":   election.VoteFee,
	}); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election updated",
		"event", "election_updated",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"actor_id", actor,
	)
	return election, nil
}

// Cancel is irreversible: a cancelled election can never transition to any
// other status.
func (uc ElectionUseCase) Cancel(ctx context.Context, actorID string, electionKey string) error {
	return uc.flagTransition(ctx, actorID, electionKey, "election.cancelled", func(election *entities.Election) error {
		election.Cancelled = true
		return nil
	})
}

// Pause fails when the election is already paused; the no-op guard is a
// deliberate Conflict, not a silent success.
func (uc ElectionUseCase) Pause(ctx context.Context, actorID string, electionKey string) error {
	return uc.flagTransition(ctx, actorID, electionKey, "election.paused", func(election *entities.Election) error {
		if election.Paused {
			return domainerrors.ErrAlreadyPaused
		}
		election.Paused = true
		return nil
	})
}

func (uc ElectionUseCase) Resume(ctx context.Context, actorID string, electionKey string) error {
	return uc.flagTransition(ctx, actorID, electionKey, "election.resumed", func(election *entities.Election) error {
		if !election.Paused {
			return domainerrors.ErrNotPaused
		}
		election.Paused = false
		return nil
	})
}

// Delete removes the election, its parties, its winner set, its voter and
// admin records, and its name reservation as one atomic repository unit.
// Owner-only; allowed in any status.
func (uc ElectionUseCase) Delete(ctx context.Context, actorID string, electionKey string) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(actorID)
	electionKey = strings.TrimSpace(electionKey)

	isOwner, err := callerIsOwner(ctx, uc.Owner, actor)
	if err != nil {
		return err
	}
	if !isOwner {
		return domainerrors.ErrUnauthorized
	}

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return err
	}
	if err := uc.Elections.DeleteElection(ctx, electionKey); err != nil {
		return err
	}

	now := uc.now()
	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "election.deleted", actor, electionKey, now, map[string]any{
		"name": election.Name,
	}); err != nil {
		return err
	}

	logger.Info("election deleted",
		"event", "election_deleted",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"name", election.Name,
		"actor_id", actor,
	)
	return nil
}

// flagTransition is the shared admin-gated open-election mutation path for
// cancel/pause/resume.
func (uc ElectionUseCase) flagTransition(
	ctx context.Context,
	actorID string,
	electionKey string,
	operation string,
	mutate func(*entities.Election) error,
) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(actorID)
	electionKey = strings.TrimSpace(electionKey)

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
	if err := mutate(&election); err != nil {
		return err
	}
	election.UpdatedAt = now
	if err := uc.Elections.UpdateElection(ctx, election); err != nil {
		return err
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, operation, actor, electionKey, now, nil); err != nil {
		return err
	}
	logger.Info("election transition applied",
		"event", "election_transition_applied",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"operation", operation,
		"actor_id", actor,
	)
	return nil
}

func (uc ElectionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func validateElectionFields(name string, description string, startTime time.Time, stopTime time.Time, now time.Time) error {
	if !services.ValidName(name) {
		return domainerrors.ErrInvalidName
	}
	if !services.ValidDescription(description) {
		return domainerrors.ErrInvalidDescription
	}
	if !startTime.After(now) || !stopTime.After(startTime) {
		return domainerrors.ErrInvalidTimeWindow
	}
	return nil
}
