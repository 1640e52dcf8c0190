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

type CastVoteCommand struct {
	VoterID     string
	ElectionKey string
	PartyName   string
	PaidAmount  uint64
}

// BallotUseCase is the high-contention vote-casting path. The whole
// read-check-increment-write sequence runs inside the election's exclusive
// region, so two concurrent votes can never both pass the "not yet voted"
// check for one identity and no increment is ever lost. Votes on different
// elections do not contend.
type BallotUseCase struct {
	Elections ports.ElectionRepository
	Parties   ports.PartyRepository
	Ballots   ports.BallotRepository
	Locks     *application.KeyedLocks
	Audit     ports.AuditWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Cast accepts one vote from any caller while the election is active. The
// preconditions are checked in spec order, each with its own failure reason:
// party name shape, party existence, payment, then the one-vote guarantee.
func (uc BallotUseCase) Cast(ctx context.Context, cmd CastVoteCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := strings.TrimSpace(cmd.VoterID)
	electionKey := strings.TrimSpace(cmd.ElectionKey)
	partyName := strings.TrimSpace(cmd.PartyName)

	if voter == "" {
		return entities.Ballot{}, domainerrors.ErrInvalidIdentity
	}

	release, err := uc.Locks.Acquire(ctx, electionKey)
	if err != nil {
		return entities.Ballot{}, err
	}
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionKey)
	if err != nil {
		return entities.Ballot{}, err
	}
	now := uc.now()
	if services.DeriveStatus(election, now) != entities.StatusActive {
		return entities.Ballot{}, domainerrors.ErrElectionNotActive
	}

	if !services.ValidName(partyName) {
		return entities.Ballot{}, domainerrors.ErrInvalidPartyName
	}
	party, found, err := uc.findActiveParty(ctx, electionKey, partyName)
	if err != nil {
		return entities.Ballot{}, err
	}
	if !found {
		return entities.Ballot{}, domainerrors.ErrPartyNotFound
	}
	if cmd.PaidAmount < election.VoteFee {
		return entities.Ballot{}, domainerrors.ErrInsufficientPayment
	}
	if record, voted, err := uc.Ballots.GetVoterRecord(ctx, electionKey, voter); err != nil {
		return entities.Ballot{}, err
	} else if voted && record.Voted {
		return entities.Ballot{}, domainerrors.ErrAlreadyVoted
	}

	record := entities.VoterRecord{
		ElectionKey: electionKey,
		VoterID:     voter,
		Voted:       true,
		VotedAt:     now,
	}
	credited, err := uc.Ballots.CastBallot(ctx, electionKey, party.PartyID, record)
	if err != nil {
		return entities.Ballot{}, err
	}

	if err := appendAudit(ctx, uc.Audit, uc.IDGen, "vote.cast", voter, electionKey, now, map[string]any{
		"party_id":    credited.PartyID,
		"party_name":  credited.Name,
		"paid_amount": cmd.PaidAmount,
	}); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("vote cast",
		"event", "vote_cast",
		"module", "election-core/election-engine",
		"layer", "application",
		"election_key", electionKey,
		"party_id", credited.PartyID,
		"party_name", credited.Name,
		"voter_id", voter,
	)
	return entities.Ballot{Party: credited, Voter: record}, nil
}

// findActiveParty resolves a party name to the first active entry in
// registry order. Inactive entries are not votable.
func (uc BallotUseCase) findActiveParty(ctx context.Context, electionKey string, name string) (entities.Party, bool, error) {
	parties, err := uc.Parties.ListParties(ctx, electionKey)
	if err != nil {
		return entities.Party{}, false, err
	}
	for _, party := range parties {
		if party.Status != entities.PartyStatusActive {
			continue
		}
		if party.Name == name {
			return party, true, nil
		}
	}
	return entities.Party{}, false, nil
}

func (uc BallotUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
