package errors

import "errors"

var (
	ErrUnauthorized    = errors.New("caller is not the owner")
	ErrInvalidOwner    = errors.New("new owner identity must not be empty")
	ErrSameOwner       = errors.New("new owner must differ from the current owner")
	ErrNotPendingOwner = errors.New("caller is not the pending owner")
	ErrStewardshipBusy = errors.New("ownership record is busy, concurrent operation in progress")
	ErrNotInitialized  = errors.New("ownership record is not initialized")
)
