package stewardship

import (
	"log/slog"

	"golang.org/x/sync/semaphore"

	httpadapter "electorate/contexts/identity-access/stewardship-service/adapters/http"
	"electorate/contexts/identity-access/stewardship-service/adapters/memory"
	"electorate/contexts/identity-access/stewardship-service/application"
	"electorate/contexts/identity-access/stewardship-service/application/commands"
	"electorate/contexts/identity-access/stewardship-service/application/queries"
	"electorate/contexts/identity-access/stewardship-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.OwnerQueries
	Store   *memory.Store
}

type Dependencies struct {
	Records ports.StewardshipRepository
	Audit   ports.AuditWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	deps.Logger = application.ResolveLogger(deps.Logger)
	ownershipUseCase := commands.OwnershipUseCase{
		Records: deps.Records,
		Audit:   deps.Audit,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Gate:    semaphore.NewWeighted(1),
		Logger:  deps.Logger,
	}
	ownerQueries := queries.OwnerQueries{Records: deps.Records}
	return Module{
		Handler: httpadapter.Handler{
			Ownership: ownershipUseCase,
			Queries:   ownerQueries,
			Logger:    deps.Logger,
		},
		Queries: ownerQueries,
	}
}

// NewInMemoryModule seeds the owner record in memory. Test and dev wiring.
func NewInMemoryModule(initialOwner string, audit ports.AuditWriter, logger *slog.Logger) Module {
	store := memory.NewStore(initialOwner)
	module := NewModule(Dependencies{
		Records: store,
		Audit:   audit,
		Clock:   store,
		IDGen:   store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
