package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
)

func TestCastVotePreconditions(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 10)
	key := election.ElectionKey
	ctx := context.Background()
	f.addParty(t, key, "greens")

	// Still paused: the window has opened but the election never resumed.
	f.clock.Advance(2 * time.Hour)
	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "greens", PaidAmount: 10,
	}); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ErrElectionNotActive while paused, got %v", err)
	}
	if err := f.elections.Resume(ctx, testOwner, key); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "", ElectionKey: key, PartyName: "greens", PaidAmount: 10,
	}); !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "ab", PaidAmount: 10,
	}); !errors.Is(err, domainerrors.ErrInvalidPartyName) {
		t.Fatalf("expected ErrInvalidPartyName, got %v", err)
	}
	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "unknown", PaidAmount: 10,
	}); !errors.Is(err, domainerrors.ErrPartyNotFound) {
		t.Fatalf("expected ErrPartyNotFound, got %v", err)
	}
	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "greens", PaidAmount: 9,
	}); !errors.Is(err, domainerrors.ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	ballot, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "greens", PaidAmount: 10,
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if ballot.Party.VoteCount != 1 {
		t.Fatalf("expected vote count 1, got %d", ballot.Party.VoteCount)
	}
	if _, err := f.ballots.Cast(ctx, CastVoteCommand{
		VoterID: "voter-1", ElectionKey: key, PartyName: "greens", PaidAmount: 10,
	}); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if got := f.auditCount("vote.cast"); got != 1 {
		t.Fatalf("expected exactly one vote audit record, got %d", got)
	}
}

func TestCastVoteRemovedParty(t *testing.T) {
	f := newFixture()
	election := f.createActiveElection(t, "city council", 0)
	f.addParty(t, election.ElectionKey, "greens")

	if err := f.parties.Remove(context.Background(), RemovePartyCommand{
		ActorID:     testOwner,
		ElectionKey: election.ElectionKey,
		Name:        "greens",
	}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := f.ballots.Cast(context.Background(), CastVoteCommand{
		VoterID: "voter-1", ElectionKey: election.ElectionKey, PartyName: "greens",
	}); !errors.Is(err, domainerrors.ErrPartyNotFound) {
		t.Fatalf("removed parties are not votable, got %v", err)
	}
}

// One identity firing concurrent votes must land exactly one ballot.
func TestConcurrentVotesSingleIdentity(t *testing.T) {
	f := newFixture()
	election := f.createActiveElection(t, "city council", 0)
	key := election.ElectionKey
	f.addParty(t, key, "greens")

	const attempts = 32
	var wg sync.WaitGroup
	var accepted, duplicate atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ballots.Cast(context.Background(), CastVoteCommand{
				VoterID:     "voter-1",
				ElectionKey: key,
				PartyName:   "greens",
			})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domainerrors.ErrAlreadyVoted):
				duplicate.Add(1)
			default:
				t.Errorf("unexpected vote error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Fatalf("expected exactly one accepted vote, got %d", accepted.Load())
	}
	if duplicate.Load() != attempts-1 {
		t.Fatalf("expected %d duplicate rejections, got %d", attempts-1, duplicate.Load())
	}
	parties, err := f.store.ListParties(context.Background(), key)
	if err != nil {
		t.Fatalf("list parties failed: %v", err)
	}
	if parties[0].VoteCount != 1 {
		t.Fatalf("expected vote count 1, got %d", parties[0].VoteCount)
	}
	if got := f.auditCount("vote.cast"); got != 1 {
		t.Fatalf("expected one vote audit record, got %d", got)
	}
}

// Concurrent distinct voters must neither lose nor invent increments.
func TestConcurrentVotesConservation(t *testing.T) {
	f := newFixture()
	election := f.createActiveElection(t, "city council", 0)
	key := election.ElectionKey
	names := []string{"greens", "liberals", "pirates"}
	for _, name := range names {
		f.addParty(t, key, name)
	}

	const voters = 60
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.ballots.Cast(context.Background(), CastVoteCommand{
				VoterID:     fmt.Sprintf("voter-%d", i),
				ElectionKey: key,
				PartyName:   names[i%len(names)],
			})
			if err != nil {
				t.Errorf("vote %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	parties, err := f.store.ListParties(context.Background(), key)
	if err != nil {
		t.Fatalf("list parties failed: %v", err)
	}
	var total uint64
	for _, party := range parties {
		if party.VoteCount != uint64(voters/len(names)) {
			t.Fatalf("party %s expected %d votes, got %d", party.Name, voters/len(names), party.VoteCount)
		}
		total += party.VoteCount
	}
	if total != voters {
		t.Fatalf("expected %d total votes, got %d", voters, total)
	}
	if got := f.auditCount("vote.cast"); got != voters {
		t.Fatalf("expected %d vote audit records, got %d", voters, got)
	}
}
