package queries

import (
	"context"
	"strings"

	"electorate/contexts/identity-access/stewardship-service/domain/entities"
	domainerrors "electorate/contexts/identity-access/stewardship-service/domain/errors"
	"electorate/contexts/identity-access/stewardship-service/ports"
)

// OwnerQueries answers read-only questions about the owner record. IsOwner
// satisfies the authority port other contexts depend on.
type OwnerQueries struct {
	Records ports.StewardshipRepository
}

func (q OwnerQueries) Current(ctx context.Context) (entities.Stewardship, error) {
	record, found, err := q.Records.GetStewardship(ctx)
	if err != nil {
		return entities.Stewardship{}, err
	}
	if !found {
		return entities.Stewardship{}, domainerrors.ErrNotInitialized
	}
	return record, nil
}

func (q OwnerQueries) IsOwner(ctx context.Context, identity string) (bool, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, nil
	}
	record, found, err := q.Records.GetStewardship(ctx)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return identity == record.Owner, nil
}
