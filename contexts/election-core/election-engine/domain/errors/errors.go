package errors

import "errors"

var (
	ErrUnauthorized        = errors.New("caller is not authorized for this operation")
	ErrElectionNotFound    = errors.New("election not found")
	ErrInvalidName         = errors.New("election name must be between 3 and 50 characters")
	ErrInvalidDescription  = errors.New("election description must be between 3 and 100 characters")
	ErrInvalidTimeWindow   = errors.New("election start time must be in the future and before stop time")
	ErrInvalidIdentity     = errors.New("identity must not be empty")
	ErrNameTaken           = errors.New("election name is already reserved")
	ErrElectionNotOpen     = errors.New("election is closed or cancelled")
	ErrElectionNotActive   = errors.New("election is not active")
	ErrElectionNotClosed   = errors.New("election is not closed yet")
	ErrAlreadyPaused       = errors.New("election is already paused")
	ErrNotPaused           = errors.New("election is not paused")
	ErrInvalidPartyName    = errors.New("party name must be between 3 and 50 characters")
	ErrPartyNotFound       = errors.New("party not found in this election")
	ErrNoParties           = errors.New("election has no registered parties")
	ErrInsufficientPayment = errors.New("paid amount is below the election vote fee")
	ErrAlreadyVoted        = errors.New("caller has already voted in this election")
	ErrWinnerResolved      = errors.New("winner set has already been resolved for this election")
	ErrWinnerNotResolved   = errors.New("winner set has not been resolved for this election")
	ErrAdminExists         = errors.New("identity is already an admin of this election")
	ErrAdminNotFound       = errors.New("identity is not an admin of this election")
	ErrElectionBusy        = errors.New("election is busy, concurrent operation in progress")
	ErrConflict            = errors.New("conflicting write")
)
