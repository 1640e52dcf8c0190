package entities

import "time"

// Stewardship is the process-wide owner record. PendingOwner is non-empty
// only between a transfer initiation and its acceptance.
type Stewardship struct {
	Owner        string
	PendingOwner string
	UpdatedAt    time.Time
}
