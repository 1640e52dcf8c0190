package ports

import (
	"context"
	"time"

	"electorate/contexts/identity-access/stewardship-service/domain/entities"
	"electorate/internal/shared/events"
)

// StewardshipRepository persists the singleton owner record.
type StewardshipRepository interface {
	GetStewardship(ctx context.Context) (entities.Stewardship, bool, error)
	SaveStewardship(ctx context.Context, record entities.Stewardship) error
}

// AuditWriter appends an audit envelope for a successful owner mutation.
type AuditWriter interface {
	AppendAudit(ctx context.Context, envelope events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
