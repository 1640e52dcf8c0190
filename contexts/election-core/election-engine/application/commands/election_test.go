package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
	"electorate/contexts/election-core/election-engine/domain/services"
)

func TestCreateElectionOwnerOnly(t *testing.T) {
	f := newFixture()

	_, err := f.elections.Create(context.Background(), CreateElectionCommand{
		ActorID:     "stranger-1",
		Name:        "city council",
		Description: "a ballot about the council",
		StartTime:   f.clock.Now().Add(time.Hour),
		StopTime:    f.clock.Now().Add(25 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}

	election := f.createElection(t, "city council", 0)
	if !election.Paused {
		t.Fatalf("new election must start paused")
	}
	if status := services.DeriveStatus(election, f.clock.Now()); status != "not_started" {
		t.Fatalf("expected not_started before the window, got %s", status)
	}
	if got := f.auditCount("election.created"); got != 1 {
		t.Fatalf("expected exactly one creation audit record, got %d", got)
	}
}

func TestCreateElectionValidation(t *testing.T) {
	f := newFixture()
	now := f.clock.Now()
	base := CreateElectionCommand{
		ActorID:     testOwner,
		Name:        "city council",
		Description: "a ballot about the council",
		StartTime:   now.Add(time.Hour),
		StopTime:    now.Add(25 * time.Hour),
	}

	cases := []struct {
		name   string
		mutate func(*CreateElectionCommand)
		want   error
	}{
		{"short name", func(c *CreateElectionCommand) { c.Name = "ab" }, domainerrors.ErrInvalidName},
		{"short description", func(c *CreateElectionCommand) { c.Description = "ab" }, domainerrors.ErrInvalidDescription},
		{"start in the past", func(c *CreateElectionCommand) { c.StartTime = now.Add(-time.Minute) }, domainerrors.ErrInvalidTimeWindow},
		{"stop before start", func(c *CreateElectionCommand) { c.StopTime = c.StartTime.Add(-time.Hour) }, domainerrors.ErrInvalidTimeWindow},
	}
	for _, tc := range cases {
		cmd := base
		tc.mutate(&cmd)
		if _, err := f.elections.Create(context.Background(), cmd); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if _, err := f.elections.Create(context.Background(), base); err != nil {
		t.Fatalf("valid create failed: %v", err)
	}
	if _, err := f.elections.Create(context.Background(), base); !errors.Is(err, domainerrors.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for duplicate name, got %v", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 0)
	key := election.ElectionKey
	ctx := context.Background()

	if err := f.elections.Resume(ctx, testOwner, key); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if err := f.elections.Resume(ctx, testOwner, key); !errors.Is(err, domainerrors.ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused on double resume, got %v", err)
	}
	if err := f.elections.Pause(ctx, testOwner, key); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := f.elections.Pause(ctx, testOwner, key); !errors.Is(err, domainerrors.ErrAlreadyPaused) {
		t.Fatalf("expected ErrAlreadyPaused on double pause, got %v", err)
	}

	if err := f.elections.Cancel(ctx, testOwner, key); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := f.elections.Resume(ctx, testOwner, key); !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen after cancel, got %v", err)
	}
	if err := f.elections.Cancel(ctx, testOwner, key); !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("cancel must be terminal, got %v", err)
	}

	stored, err := f.store.GetElection(ctx, key)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if status := services.DeriveStatus(stored, f.clock.Now()); status != "cancelled" {
		t.Fatalf("expected cancelled status, got %s", status)
	}
}

func TestUpdateReleasesNameReservation(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 0)
	ctx := context.Background()

	now := f.clock.Now()
	_, err := f.elections.Update(ctx, UpdateElectionCommand{
		ActorID:     testOwner,
		ElectionKey: election.ElectionKey,
		Name:        "school board",
		Description: "a ballot about the board",
		StartTime:   now.Add(time.Hour),
		StopTime:    now.Add(25 * time.Hour),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// The old name is free again, the new one is reserved.
	f.createElection(t, "city council", 0)
	if _, err := f.elections.Create(ctx, CreateElectionCommand{
		ActorID:     testOwner,
		Name:        "school board",
		Description: "a ballot about another board",
		StartTime:   now.Add(time.Hour),
		StopTime:    now.Add(25 * time.Hour),
	}); !errors.Is(err, domainerrors.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for the new name, got %v", err)
	}
}

func TestUpdateClosedRejected(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 0)

	f.clock.Advance(26 * time.Hour)
	now := f.clock.Now()
	_, err := f.elections.Update(context.Background(), UpdateElectionCommand{
		ActorID:     testOwner,
		ElectionKey: election.ElectionKey,
		Name:        "city council",
		Description: "a ballot about the council",
		StartTime:   now.Add(time.Hour),
		StopTime:    now.Add(25 * time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen after stop time, got %v", err)
	}
}

func TestDeleteElectionFreesName(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 0)
	ctx := context.Background()

	if err := f.elections.Delete(ctx, testAdmin, election.ElectionKey); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("delete must be owner-only, got %v", err)
	}
	if err := f.elections.Delete(ctx, testOwner, election.ElectionKey); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.store.GetElection(ctx, election.ElectionKey); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound after delete, got %v", err)
	}

	// Name is reusable once the election is gone.
	f.createElection(t, "city council", 0)
	if got := f.auditCount("election.deleted"); got != 1 {
		t.Fatalf("expected one deletion audit record, got %d", got)
	}
}

func TestAdminMembership(t *testing.T) {
	f := newFixture()
	election := f.createElection(t, "city council", 0)
	key := election.ElectionKey
	ctx := context.Background()

	if err := f.elections.Pause(ctx, testAdmin, key); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("non-admin pause must fail, got %v", err)
	}
	if err := f.elections.AddAdmin(ctx, testAdmin, key, testAdmin); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("admin grants are owner-only, got %v", err)
	}
	if err := f.elections.AddAdmin(ctx, testOwner, key, testAdmin); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if err := f.elections.AddAdmin(ctx, testOwner, key, testAdmin); !errors.Is(err, domainerrors.ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists on duplicate grant, got %v", err)
	}

	if err := f.elections.Resume(ctx, testAdmin, key); err != nil {
		t.Fatalf("admin resume failed: %v", err)
	}

	if err := f.elections.RemoveAdmin(ctx, testOwner, key, testAdmin); err != nil {
		t.Fatalf("remove admin failed: %v", err)
	}
	if err := f.elections.RemoveAdmin(ctx, testOwner, key, testAdmin); !errors.Is(err, domainerrors.ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound on second removal, got %v", err)
	}
	if err := f.elections.Pause(ctx, testAdmin, key); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("revoked admin must lose rights, got %v", err)
	}
}
