package queries

import (
	"context"
	"strings"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
	"electorate/contexts/election-core/election-engine/domain/services"
	"electorate/contexts/election-core/election-engine/ports"
)

// ElectionQueries serves the read side. Status is derived on every call, so
// a summary read immediately after the stop time reports closed without any
// write having happened.
type ElectionQueries struct {
	Elections ports.ElectionRepository
	Parties   ports.PartyRepository
	Winners   ports.WinnerRepository
	Clock     ports.Clock
}

func (q ElectionQueries) GetElection(ctx context.Context, electionKey string) (entities.ElectionSummary, error) {
	election, err := q.Elections.GetElection(ctx, strings.TrimSpace(electionKey))
	if err != nil {
		return entities.ElectionSummary{}, err
	}
	return entities.ElectionSummary{
		Election: election,
		Status:   services.DeriveStatus(election, q.now()),
	}, nil
}

func (q ElectionQueries) GetStatus(ctx context.Context, electionKey string) (entities.ElectionStatus, error) {
	summary, err := q.GetElection(ctx, electionKey)
	if err != nil {
		return "", err
	}
	return summary.Status, nil
}

func (q ElectionQueries) ListElections(ctx context.Context) ([]entities.ElectionSummary, error) {
	elections, err := q.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := q.now()
	items := make([]entities.ElectionSummary, 0, len(elections))
	for _, election := range elections {
		items = append(items, entities.ElectionSummary{
			Election: election,
			Status:   services.DeriveStatus(election, now),
		})
	}
	return items, nil
}

func (q ElectionQueries) ListParties(ctx context.Context, electionKey string) ([]entities.Party, error) {
	if _, err := q.Elections.GetElection(ctx, strings.TrimSpace(electionKey)); err != nil {
		return nil, err
	}
	return q.Parties.ListParties(ctx, strings.TrimSpace(electionKey))
}

// WinnerSet returns the stored outcome without recomputation. The second
// value is false while the election is unresolved.
func (q ElectionQueries) WinnerSet(ctx context.Context, electionKey string) ([]entities.WinnerEntry, bool, error) {
	if _, err := q.Elections.GetElection(ctx, strings.TrimSpace(electionKey)); err != nil {
		return nil, false, err
	}
	return q.Winners.GetWinners(ctx, strings.TrimSpace(electionKey))
}

// Results combines the derived summary, party tallies, and the stored
// winner set in one read. Winners stays empty and Resolved false until
// resolution has happened, which also covers abstained elections.
func (q ElectionQueries) Results(ctx context.Context, electionKey string) (entities.ElectionResults, error) {
	electionKey = strings.TrimSpace(electionKey)
	summary, err := q.GetElection(ctx, electionKey)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	parties, err := q.Parties.ListParties(ctx, electionKey)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	winners, resolved, err := q.Winners.GetWinners(ctx, electionKey)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	return entities.ElectionResults{
		Summary:  summary,
		Parties:  parties,
		Winners:  winners,
		Resolved: resolved,
	}, nil
}

func (q ElectionQueries) now() time.Time {
	if q.Clock != nil {
		return q.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
