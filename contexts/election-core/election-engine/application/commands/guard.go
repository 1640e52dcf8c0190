package commands

import (
	"context"
	"strings"

	"electorate/contexts/election-core/election-engine/ports"
)

// callerIsOwner fails closed: a missing authority denies everyone.
func callerIsOwner(ctx context.Context, owner ports.OwnerAuthority, caller string) (bool, error) {
	if owner == nil {
		return false, nil
	}
	return owner.IsOwner(ctx, strings.TrimSpace(caller))
}

// callerIsAdmin answers owner OR explicit admin membership. An unknown
// election key simply has no admins recorded, so it denies rather than
// erroring.
func callerIsAdmin(
	ctx context.Context,
	owner ports.OwnerAuthority,
	admins ports.AdminRepository,
	electionKey string,
	caller string,
) (bool, error) {
	isOwner, err := callerIsOwner(ctx, owner, caller)
	if err != nil {
		return false, err
	}
	if isOwner {
		return true, nil
	}
	if admins == nil {
		return false, nil
	}
	return admins.IsAdmin(ctx, strings.TrimSpace(electionKey), strings.TrimSpace(caller))
}
