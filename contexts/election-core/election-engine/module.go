package electionengine

import (
	"log/slog"
	"time"

	httpadapter "electorate/contexts/election-core/election-engine/adapters/http"
	"electorate/contexts/election-core/election-engine/adapters/memory"
	"electorate/contexts/election-core/election-engine/application"
	"electorate/contexts/election-core/election-engine/application/commands"
	"electorate/contexts/election-core/election-engine/application/queries"
	"electorate/contexts/election-core/election-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections   ports.ElectionRepository
	Parties     ports.PartyRepository
	Ballots     ports.BallotRepository
	Admins      ports.AdminRepository
	Winners     ports.WinnerRepository
	Owner       ports.OwnerAuthority
	Audit       ports.AuditWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	LockTimeout time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	deps.Logger = application.ResolveLogger(deps.Logger)
	locks := application.NewKeyedLocks(deps.LockTimeout)
	electionUseCase := commands.ElectionUseCase{
		Elections: deps.Elections,
		Admins:    deps.Admins,
		Owner:     deps.Owner,
		Locks:     locks,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	partyUseCase := commands.PartyUseCase{
		Elections: deps.Elections,
		Parties:   deps.Parties,
		Admins:    deps.Admins,
		Owner:     deps.Owner,
		Locks:     locks,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Elections: deps.Elections,
		Parties:   deps.Parties,
		Ballots:   deps.Ballots,
		Locks:     locks,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	tallyUseCase := commands.TallyUseCase{
		Elections: deps.Elections,
		Parties:   deps.Parties,
		Winners:   deps.Winners,
		Admins:    deps.Admins,
		Owner:     deps.Owner,
		Locks:     locks,
		Audit:     deps.Audit,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	electionQueries := queries.ElectionQueries{
		Elections: deps.Elections,
		Parties:   deps.Parties,
		Winners:   deps.Winners,
		Clock:     deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Parties:   partyUseCase,
			Ballots:   ballotUseCase,
			Tally:     tallyUseCase,
			Queries:   electionQueries,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule backs every port with a single memory store. Test and
// dev wiring.
func NewInMemoryModule(owner ports.OwnerAuthority, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections:   store,
		Parties:     store,
		Ballots:     store,
		Admins:      store,
		Winners:     store,
		Owner:       owner,
		Audit:       store,
		Clock:       store,
		IDGen:       store,
		LockTimeout: 5 * time.Second,
		Logger:      logger,
	})
	module.Store = store
	return module
}
