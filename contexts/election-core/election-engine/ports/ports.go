package ports

import (
	"context"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
	contractsv1 "electorate/contracts/gen/events/v1"
	"electorate/internal/shared/events"
	"electorate/internal/shared/outbox"
)

// EventEnvelope is the versioned wire form published to the bus. Outbox rows
// are stored as its JSON encoding, so the relay can decode them straight into
// this type.
type EventEnvelope = contractsv1.Envelope

// ElectionRepository owns election records and the name reservation table.
// Create and Update maintain the reservation atomically inside the store: a
// failed reservation must leave the previous one untouched, and Delete must
// never leave a reservation pointing at a removed key.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	UpdateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionKey string) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	DeleteElection(ctx context.Context, electionKey string) error
}

type PartyRepository interface {
	AddParty(ctx context.Context, party entities.Party) error
	ListParties(ctx context.Context, electionKey string) ([]entities.Party, error)
	DeactivatePartiesByName(ctx context.Context, electionKey string, name string, updatedAt time.Time) (int, error)
}

// BallotRepository records votes. CastBallot applies the party increment and
// the voter record as one store mutation so a crash between the two cannot
// break vote-count conservation.
type BallotRepository interface {
	GetVoterRecord(ctx context.Context, electionKey string, voterID string) (entities.VoterRecord, bool, error)
	CastBallot(ctx context.Context, electionKey string, partyID string, record entities.VoterRecord) (entities.Party, error)
}

type AdminRepository interface {
	IsAdmin(ctx context.Context, electionKey string, identity string) (bool, error)
	AddAdmin(ctx context.Context, electionKey string, identity string) error
	RemoveAdmin(ctx context.Context, electionKey string, identity string) error
	ListAdmins(ctx context.Context, electionKey string) ([]string, error)
}

type WinnerRepository interface {
	SaveWinners(ctx context.Context, electionKey string, winners []entities.WinnerEntry) error
	GetWinners(ctx context.Context, electionKey string) ([]entities.WinnerEntry, bool, error)
}

// OwnerAuthority is provided by the stewardship module. Owner rights fall
// back to admin rights on every election.
type OwnerAuthority interface {
	IsOwner(ctx context.Context, identity string) (bool, error)
}

type AuditWriter interface {
	AppendAudit(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingAudit(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkAuditPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
