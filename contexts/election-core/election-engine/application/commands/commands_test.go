package commands

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"electorate/contexts/election-core/election-engine/adapters/memory"
	application "electorate/contexts/election-core/election-engine/application"
	"electorate/contexts/election-core/election-engine/domain/entities"
	"electorate/internal/shared/outbox"
)

const (
	testOwner = "owner-1"
	testAdmin = "admin-1"
)

type staticOwner struct {
	owner string
}

func (s staticOwner) IsOwner(_ context.Context, identity string) (bool, error) {
	return identity != "" && identity == s.owner, nil
}

// manualClock lets tests move an election through its lifecycle without
// sleeping.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store     *memory.Store
	clock     *manualClock
	elections ElectionUseCase
	parties   PartyUseCase
	ballots   BallotUseCase
	tally     TallyUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	clock := &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	locks := application.NewKeyedLocks(2 * time.Second)
	owner := staticOwner{owner: testOwner}

	return &fixture{
		store: store,
		clock: clock,
		elections: ElectionUseCase{
			Elections: store,
			Admins:    store,
			Owner:     owner,
			Locks:     locks,
			Audit:     store,
			Clock:     clock,
			IDGen:     store,
		},
		parties: PartyUseCase{
			Elections: store,
			Parties:   store,
			Admins:    store,
			Owner:     owner,
			Locks:     locks,
			Audit:     store,
			Clock:     clock,
			IDGen:     store,
		},
		ballots: BallotUseCase{
			Elections: store,
			Parties:   store,
			Ballots:   store,
			Locks:     locks,
			Audit:     store,
			Clock:     clock,
			IDGen:     store,
		},
		tally: TallyUseCase{
			Elections: store,
			Parties:   store,
			Winners:   store,
			Admins:    store,
			Owner:     owner,
			Locks:     locks,
			Audit:     store,
			Clock:     clock,
			IDGen:     store,
		},
	}
}

// createElection creates a one-day election opening one hour from the clock.
func (f *fixture) createElection(t *testing.T, name string, fee uint64) entities.Election {
	t.Helper()
	now := f.clock.Now()
	election, err := f.elections.Create(context.Background(), CreateElectionCommand{
		ActorID:     testOwner,
		Name:        name,
		Description: "a ballot about " + name,
		StartTime:   now.Add(time.Hour),
		StopTime:    now.Add(25 * time.Hour),
		VoteFee:     fee,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	return election
}

// createActiveElection additionally resumes the election and moves the clock
// inside the voting window.
func (f *fixture) createActiveElection(t *testing.T, name string, fee uint64) entities.Election {
	t.Helper()
	election := f.createElection(t, name, fee)
	if err := f.elections.Resume(context.Background(), testOwner, election.ElectionKey); err != nil {
		t.Fatalf("resume election failed: %v", err)
	}
	f.clock.Advance(2 * time.Hour)
	return election
}

func (f *fixture) addParty(t *testing.T, electionKey string, name string) entities.Party {
	t.Helper()
	party, err := f.parties.Add(context.Background(), AddPartyCommand{
		ActorID:     testOwner,
		ElectionKey: electionKey,
		Name:        name,
	})
	if err != nil {
		t.Fatalf("add party %s failed: %v", name, err)
	}
	return party
}

func (f *fixture) castVotes(t *testing.T, electionKey string, partyName string, count int, voterPrefix string) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := f.ballots.Cast(context.Background(), CastVoteCommand{
			VoterID:     fmt.Sprintf("%s-%d", voterPrefix, i),
			ElectionKey: electionKey,
			PartyName:   partyName,
		})
		if err != nil {
			t.Fatalf("vote %s-%d for %s failed: %v", voterPrefix, i, partyName, err)
		}
	}
}

func (f *fixture) auditCount(eventType string) int {
	count := 0
	for _, row := range f.store.AuditTrail() {
		if row.EventType == eventType {
			count++
		}
	}
	return count
}

func (f *fixture) lastAudit(t *testing.T) outbox.Message {
	t.Helper()
	trail := f.store.AuditTrail()
	if len(trail) == 0 {
		t.Fatalf("audit trail is empty")
	}
	return trail[len(trail)-1]
}
