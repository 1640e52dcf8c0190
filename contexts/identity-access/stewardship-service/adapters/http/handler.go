package httpadapter

import (
	"context"
	"log/slog"

	"electorate/contexts/identity-access/stewardship-service/application/commands"
	"electorate/contexts/identity-access/stewardship-service/application/queries"
	httptransport "electorate/contexts/identity-access/stewardship-service/transport/http"
)

type Handler struct {
	Ownership commands.OwnershipUseCase
	Queries   queries.OwnerQueries
	Logger    *slog.Logger
}

func (h Handler) TransferOwnershipHandler(ctx context.Context, actorID string, req httptransport.TransferOwnershipRequest) error {
	return h.Ownership.Transfer(ctx, actorID, req.NewOwner)
}

func (h Handler) AcceptOwnershipHandler(ctx context.Context, actorID string) (httptransport.OwnerResponse, error) {
	if err := h.Ownership.Accept(ctx, actorID); err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return h.CurrentOwnerHandler(ctx)
}

func (h Handler) CurrentOwnerHandler(ctx context.Context) (httptransport.OwnerResponse, error) {
	record, err := h.Queries.Current(ctx)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{
		Owner:        record.Owner,
		PendingOwner: record.PendingOwner,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}
