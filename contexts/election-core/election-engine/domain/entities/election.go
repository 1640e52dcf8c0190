package entities

import "time"

// ElectionStatus is never stored; it is derived from the election's time
// window and flags on every read. See services.DeriveStatus.
type ElectionStatus string

const (
	StatusNotStarted ElectionStatus = "not_started"
	StatusActive     ElectionStatus = "active"
	StatusPaused     ElectionStatus = "paused"
	StatusClosed     ElectionStatus = "closed"
	StatusCancelled  ElectionStatus = "cancelled"
)

type Election struct {
	ElectionKey string
	Name        string
	Description string
	Creator     string
	StartTime   time.Time
	StopTime    time.Time
	VoteFee     uint64
	Paused      bool
	Cancelled   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ElectionSummary struct {
	Election Election
	Status   ElectionStatus
}

// ElectionResults combines the derived summary with party tallies and, once
// resolution has happened, the stored winner set.
type ElectionResults struct {
	Summary  ElectionSummary
	Parties  []Party
	Winners  []WinnerEntry
	Resolved bool
}
