package commands

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/semaphore"

	"electorate/contexts/identity-access/stewardship-service/adapters/memory"
	"electorate/contexts/identity-access/stewardship-service/application/queries"
	domainerrors "electorate/contexts/identity-access/stewardship-service/domain/errors"
)

func newUseCase(initialOwner string) (OwnershipUseCase, *memory.Store, *memory.AuditLog) {
	store := memory.NewStore(initialOwner)
	audit := memory.NewAuditLog()
	uc := OwnershipUseCase{
		Records: store,
		Audit:   audit,
		Clock:   store,
		IDGen:   store,
		Gate:    semaphore.NewWeighted(1),
	}
	return uc, store, audit
}

func TestTransferAcceptFlow(t *testing.T) {
	uc, store, audit := newUseCase("owner-1")
	ctx := context.Background()

	if err := uc.Transfer(ctx, "owner-1", "owner-2"); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	// Ownership does not move until the nominee accepts.
	q := queries.OwnerQueries{Records: store}
	if isOwner, _ := q.IsOwner(ctx, "owner-2"); isOwner {
		t.Fatalf("pending owner must not hold owner rights yet")
	}
	if isOwner, _ := q.IsOwner(ctx, "owner-1"); !isOwner {
		t.Fatalf("current owner keeps rights during a pending transfer")
	}

	if err := uc.Accept(ctx, "owner-3"); !errors.Is(err, domainerrors.ErrNotPendingOwner) {
		t.Fatalf("only the nominee may accept, got %v", err)
	}
	if err := uc.Accept(ctx, "owner-2"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	record, _, err := store.GetStewardship(ctx)
	if err != nil {
		t.Fatalf("get stewardship failed: %v", err)
	}
	if record.Owner != "owner-2" || record.PendingOwner != "" {
		t.Fatalf("unexpected record after accept: %+v", record)
	}
	if isOwner, _ := q.IsOwner(ctx, "owner-1"); isOwner {
		t.Fatalf("previous owner must lose rights after accept")
	}

	entries := audit.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two audit envelopes, got %d", len(entries))
	}
	if entries[0].EventType != "ownership.transfer_initiated" || entries[1].EventType != "ownership.accepted" {
		t.Fatalf("unexpected audit sequence %s, %s", entries[0].EventType, entries[1].EventType)
	}
}

func TestTransferValidation(t *testing.T) {
	uc, _, _ := newUseCase("owner-1")
	ctx := context.Background()

	if err := uc.Transfer(ctx, "owner-2", "owner-3"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("transfer is owner-only, got %v", err)
	}
	if err := uc.Transfer(ctx, "owner-1", "  "); !errors.Is(err, domainerrors.ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner for blank nominee, got %v", err)
	}
	if err := uc.Transfer(ctx, "owner-1", "owner-1"); !errors.Is(err, domainerrors.ErrSameOwner) {
		t.Fatalf("expected ErrSameOwner, got %v", err)
	}
	if err := uc.Accept(ctx, "owner-2"); !errors.Is(err, domainerrors.ErrNotPendingOwner) {
		t.Fatalf("accept without a pending transfer must fail, got %v", err)
	}
}

func TestTransferOverwritesPendingNominee(t *testing.T) {
	uc, store, _ := newUseCase("owner-1")
	ctx := context.Background()

	if err := uc.Transfer(ctx, "owner-1", "owner-2"); err != nil {
		t.Fatalf("first transfer failed: %v", err)
	}
	if err := uc.Transfer(ctx, "owner-1", "owner-3"); err != nil {
		t.Fatalf("re-nomination failed: %v", err)
	}
	if err := uc.Accept(ctx, "owner-2"); !errors.Is(err, domainerrors.ErrNotPendingOwner) {
		t.Fatalf("superseded nominee must not accept, got %v", err)
	}
	if err := uc.Accept(ctx, "owner-3"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	record, _, _ := store.GetStewardship(ctx)
	if record.Owner != "owner-3" {
		t.Fatalf("expected owner-3, got %s", record.Owner)
	}
}

func TestUninitializedRecord(t *testing.T) {
	uc, _, _ := newUseCase("")
	if err := uc.Transfer(context.Background(), "owner-1", "owner-2"); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := uc.Accept(context.Background(), "owner-2"); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
