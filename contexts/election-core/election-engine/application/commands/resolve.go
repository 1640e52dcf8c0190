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

type ResolveWinnerCommand struct {
	ActorID     string
	ElectionKey string
}

// TallyUseCase resolves a closed election's winner set exactly once. The
// stored set is the permanent outcome; a second resolution attempt is
// rejected instead of recomputed. An abstained outcome (zero votes across
// every active party) stores nothing, so resolution stays available in case
// late corrections reopen the question.
type TallyUseCase struct {
	Elections ports.ElectionRepository
	Parties   ports.PartyRepository
	Winners   ports.WinnerRepository
	Admins    ports.AdminRepository
	Owner     ports.OwnerAuthority
	Locks     *application.KeyedLocks
	Audit     ports.AuditWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Resolve computes the maximum vote count across active parties and collects
// every party achieving it, in registry order. One entry is an outright win,
// several are a tie. Inactive parties are not tallied; their votes remain on
// record but cannot win.
func (uc TallyUseCase) Resolve(ctx context.Context, cmd ResolveWinnerCommand) (entities.TallyResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	electionKey := strings.TrimSpace(cmd.ElectionKey)

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return entities.TallyResult{}, err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return entities.TallyResult{}, err
	}
	isAdmin, err := callerIsAdmin(ctx, uc.Owner, uc.Admins, electionKey, actor)
	if err != nil {
		return entities.TallyResult{}, err
	}
	if !isAdmin {
		return entities.TallyResult{}, domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if services.DeriveStatus(election, now) != entities.StatusClosed {
		return entities.TallyResult{}, domainerrors.ErrElectionNotClosed
	}
	if _, resolved, err := uc.Winners.GetWinners(ctx, electionKey); err != nil {
		return entities.TallyResult{}, err
	} else if resolved {
		return entities.TallyResult{}, domainerrors.ErrWinnerResolved
	}

	parties, err := uc.Parties.ListParties(ctx, electionKey)
	if err != nil {
		return entities.TallyResult{}, err
	}
	active := make([]entities.Party, 0, len(parties))
	for _, party := range parties {
		if party.Status == entities.PartyStatusActive {
			active = append(active, party)
		}
	}
	if len(active) == 0 {
		return entities.TallyResult{}, domainerrors.ErrNoParties
	}

	var maxVotes uint64
	for _, party := range active {
		if party.VoteCount > maxVotes {
			maxVotes = party.VoteCount
		}
	}
	if maxVotes == 0 {
		logger.Info("winner resolution abstained",
			"event", "winner_resolution_abstained",
			"module", "election-core/election-engine",
			"layer", "application",
			"election_key", electionKey,
			"actor_id", actor,
		)
		return entities.TallyResult{
			ElectionKey: electionKey,
			Outcome:     entities.OutcomeAbstained,
			ResolvedAt:  now,
		}, nil
	}

	winners := make([]entities.WinnerEntry, 0, 1)
	for _, party := range active {
		if party.VoteCount != maxVotes {
			continue
		}
		winners = append(winners, entities.WinnerEntry{
			ElectionKey: electionKey,
			PartyID:     party.PartyID,
			PartyName:   party.Name,
			VoteCount:   party.VoteCount,
			Position:    len(winners),
			ResolvedAt:  now,
		})
	}
	if err := uc.Winners.SaveWinners(ctx, electionKey, winners); err != nil {
		return entities.TallyResult{}, err
	}

	outcome := entities.OutcomeWin
	if len(winners) > 1 {
		outcome = entities.OutcomeTie
	}
	winnerNames := make([]string, 0, len(winners))
	for _, entry := range winners {
		winnerNames = append(winnerNames, entry.PartyName)
	}
	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "winner.resolved", actor, electionKey, now, map[string]any{
		"outcome":   string(outcome),
		"max_votes": maxVotes,
		"winners":   winnerNames,
	}); err != nil {
		return entities.TallyResult{}, err
	}

	logger.Info("winner resolved",
		"event", "winner_resolved",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"outcome", string(outcome),
		"max_votes", maxVotes,
		"winner_count", len(winners),
		"actor_id", actor,
	)
	return entities.TallyResult{
		ElectionKey: electionKey,
		Outcome:     outcome,
		Winners:     winners,
		MaxVotes:    maxVotes,
		ResolvedAt:  now,
	}, nil
}

func (uc TallyUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
