package services

import (
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
)

// DeriveStatus computes the election status from the clock and flags. It is
// evaluated fresh on every read and never cached: cancelled wins over
// everything, then the time window, then the paused flag inside the window.
func DeriveStatus(election entities.Election, now time.Time) entities.ElectionStatus {
	if election.Cancelled {
		return entities.StatusCancelled
	}
	if now.Before(election.StartTime) {
		return entities.StatusNotStarted
	}
	if now.Before(election.StopTime) {
		if election.Paused {
			return entities.StatusPaused
		}
		return entities.StatusActive
	}
	return entities.StatusClosed
}

// IsOpen reports whether lifecycle mutations (update, cancel, pause, resume,
// party changes) are still allowed: everything except closed and cancelled.
func IsOpen(status entities.ElectionStatus) bool {
	return status != entities.StatusClosed && status != entities.StatusCancelled
}
