package entities

import "time"

type PartyStatus string

const (
	PartyStatusActive   PartyStatus = "active"
	PartyStatusInactive PartyStatus = "inactive"
)

// Party entries are append-only per election. Removal flips the status to
// inactive so historical votes stay attributable; entries are never deleted
// while their election lives.
type Party struct {
	PartyID     string
	ElectionKey string
	Name        string
	VoteCount   uint64
	Status      PartyStatus
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
