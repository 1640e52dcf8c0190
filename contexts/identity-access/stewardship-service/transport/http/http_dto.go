package http

import "time"

type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

type OwnerResponse struct {
	Owner        string    `json:"owner"`
	PendingOwner string    `json:"pending_owner,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
