package httpadapter

import (
	"context"
	"log/slog"

	"electorate/contexts/election-core/election-engine/application/commands"
	"electorate/contexts/election-core/election-engine/application/queries"
	"electorate/contexts/election-core/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
	httptransport "electorate/contexts/election-core/election-engine/transport/http"
)

type Handler struct {
	Elections commands.ElectionUseCase
	Parties   commands.PartyUseCase
	Ballots   commands.BallotUseCase
	Tally     commands.TallyUseCase
	Queries   queries.ElectionQueries
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.Create(ctx, commands.CreateElectionCommand{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		StopTime:    req.StopTime,
		VoteFee:     req.VoteFee,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return h.electionResponse(ctx, election.ElectionKey)
}

func (h Handler) UpdateElectionHandler(
	ctx context.Context,
	actorID string,
	electionKey string,
	req httptransport.UpdateElectionRequest,
) (httptransport.ElectionResponse, error) {
	_, err := h.Elections.Update(ctx, commands.UpdateElectionCommand{
		ActorID:     actorID,
		ElectionKey: electionKey,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		StopTime:    req.StopTime,
		VoteFee:     req.VoteFee,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return h.electionResponse(ctx, electionKey)
}

func (h Handler) GetElectionHandler(ctx context.Context, electionKey string) (httptransport.ElectionResponse, error) {
	return h.electionResponse(ctx, electionKey)
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	summaries, err := h.Queries.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, mapElection(summary))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) CancelElectionHandler(ctx context.Context, actorID string, electionKey string) error {
	return h.Elections.Cancel(ctx, actorID, electionKey)
}

func (h Handler) PauseElectionHandler(ctx context.Context, actorID string, electionKey string) error {
	return h.Elections.Pause(ctx, actorID, electionKey)
}

func (h Handler) ResumeElectionHandler(ctx context.Context, actorID string, electionKey string) error {
	return h.Elections.Resume(ctx, actorID, electionKey)
}

func (h Handler) DeleteElectionHandler(ctx context.Context, actorID string, electionKey string) error {
	return h.Elections.Delete(ctx, actorID, electionKey)
}

func (h Handler) AddAdminHandler(ctx context.Context, actorID string, electionKey string, req httptransport.AdminRequest) error {
	return h.Elections.AddAdmin(ctx, actorID, electionKey, req.AdminID)
}

func (h Handler) RemoveAdminHandler(ctx context.Context, actorID string, electionKey string, req httptransport.AdminRequest) error {
	return h.Elections.RemoveAdmin(ctx, actorID, electionKey, req.AdminID)
}

func (h Handler) AddPartyHandler(
	ctx context.Context,
	actorID string,
	electionKey string,
	req httptransport.AddPartyRequest,
) (httptransport.PartyResponse, error) {
	party, err := h.Parties.Add(ctx, commands.AddPartyCommand{
		ActorID:     actorID,
		ElectionKey: electionKey,
		Name:        req.Name,
	})
	if err != nil {
		return httptransport.PartyResponse{}, err
	}
	return mapParty(party), nil
}

func (h Handler) RemovePartyHandler(
	ctx context.Context,
	actorID string,
	electionKey string,
	req httptransport.RemovePartyRequest,
) error {
	return h.Parties.Remove(ctx, commands.RemovePartyCommand{
		ActorID:     actorID,
		ElectionKey: electionKey,
		Name:        req.Name,
	})
}

func (h Handler) ListPartiesHandler(ctx context.Context, electionKey string) (httptransport.PartyListResponse, error) {
	parties, err := h.Queries.ListParties(ctx, electionKey)
	if err != nil {
		return httptransport.PartyListResponse{}, err
	}
	items := make([]httptransport.PartyResponse, 0, len(parties))
	for _, party := range parties {
		items = append(items, mapParty(party))
	}
	return httptransport.PartyListResponse{
		ElectionKey: electionKey,
		Items:       items,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	voterID string,
	electionKey string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	ballot, err := h.Ballots.Cast(ctx, commands.CastVoteCommand{
		VoterID:     voterID,
		ElectionKey: electionKey,
		PartyName:   req.PartyName,
		PaidAmount:  req.PaidAmount,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ElectionKey: ballot.Party.ElectionKey,
		PartyID:     ballot.Party.PartyID,
		PartyName:   ballot.Party.Name,
		VoteCount:   ballot.Party.VoteCount,
		VoterID:     ballot.Voter.VoterID,
		VotedAt:     ballot.Voter.VotedAt,
	}, nil
}

func (h Handler) ResolveWinnerHandler(
	ctx context.Context,
	actorID string,
	electionKey string,
) (httptransport.WinnerSetResponse, error) {
	result, err := h.Tally.Resolve(ctx, commands.ResolveWinnerCommand{
		ActorID:     actorID,
		ElectionKey: electionKey,
	})
	if err != nil {
		return httptransport.WinnerSetResponse{}, err
	}
	return mapTally(result), nil
}

func (h Handler) WinnerSetHandler(ctx context.Context, electionKey string) (httptransport.WinnerSetResponse, error) {
	winners, resolved, err := h.Queries.WinnerSet(ctx, electionKey)
	if err != nil {
		return httptransport.WinnerSetResponse{}, err
	}
	if !resolved {
		return httptransport.WinnerSetResponse{}, domainerrors.ErrWinnerNotResolved
	}
	outcome := entities.OutcomeWin
	if len(winners) > 1 {
		outcome = entities.OutcomeTie
	}
	var maxVotes uint64
	items := make([]httptransport.WinnerItem, 0, len(winners))
	for _, entry := range winners {
		if entry.VoteCount > maxVotes {
			maxVotes = entry.VoteCount
		}
		items = append(items, httptransport.WinnerItem{
			PartyID:   entry.PartyID,
			PartyName: entry.PartyName,
			VoteCount: entry.VoteCount,
			Position:  entry.Position,
		})
	}
	return httptransport.WinnerSetResponse{
		ElectionKey: electionKey,
		Outcome:     string(outcome),
		MaxVotes:    maxVotes,
		Winners:     items,
	}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionKey string) (httptransport.ElectionResultsResponse, error) {
	results, err := h.Queries.Results(ctx, electionKey)
	if err != nil {
		return httptransport.ElectionResultsResponse{}, err
	}
	parties := make([]httptransport.PartyResponse, 0, len(results.Parties))
	for _, party := range results.Parties {
		parties = append(parties, mapParty(party))
	}
	winners := make([]httptransport.WinnerItem, 0, len(results.Winners))
	for _, entry := range results.Winners {
		winners = append(winners, httptransport.WinnerItem{
			PartyID:   entry.PartyID,
			PartyName: entry.PartyName,
			VoteCount: entry.VoteCount,
			Position:  entry.Position,
		})
	}
	return httptransport.ElectionResultsResponse{
		Election: mapElection(results.Summary),
		Parties:  parties,
		Winners:  winners,
		Resolved: results.Resolved,
	}, nil
}

func (h Handler) electionResponse(ctx context.Context, electionKey string) (httptransport.ElectionResponse, error) {
	summary, err := h.Queries.GetElection(ctx, electionKey)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(summary), nil
}

func mapElection(summary entities.ElectionSummary) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionKey: summary.Election.ElectionKey,
		Name:        summary.Election.Name,
		Description: summary.Election.Description,
		Creator:     summary.Election.Creator,
		StartTime:   summary.Election.StartTime,
		StopTime:    summary.Election.StopTime,
		VoteFee:     summary.Election.VoteFee,
		Paused:      summary.Election.Paused,
		Cancelled:   summary.Election.Cancelled,
		Status:      string(summary.Status),
	}
}

func mapParty(party entities.Party) httptransport.PartyResponse {
	return httptransport.PartyResponse{
		PartyID:   party.PartyID,
		Name:      party.Name,
		VoteCount: party.VoteCount,
		Status:    string(party.Status),
		Position:  party.Position,
	}
}

func mapTally(result entities.TallyResult) httptransport.WinnerSetResponse {
	items := make([]httptransport.WinnerItem, 0, len(result.Winners))
	for _, entry := range result.Winners {
		items = append(items, httptransport.WinnerItem{
			PartyID:   entry.PartyID,
			PartyName: entry.PartyName,
			VoteCount: entry.VoteCount,
			Position:  entry.Position,
		})
	}
	return httptransport.WinnerSetResponse{
		ElectionKey: result.ElectionKey,
		Outcome:     string(result.Outcome),
		MaxVotes:    result.MaxVotes,
		Winners:     items,
	}
}
