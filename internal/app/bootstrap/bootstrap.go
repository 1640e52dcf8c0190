package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	electionengine "electorate/contexts/election-core/election-engine"
	electionpostgres "electorate/contexts/election-core/election-engine/adapters/postgres"
	electionworkers "electorate/contexts/election-core/election-engine/application/workers"
	stewardship "electorate/contexts/identity-access/stewardship-service"
	stewardshippostgres "electorate/contexts/identity-access/stewardship-service/adapters/postgres"
	stewardshipentities "electorate/contexts/identity-access/stewardship-service/domain/entities"
	"electorate/internal/platform/config"
	"electorate/internal/platform/db"
	"electorate/internal/platform/httpserver"
	"electorate/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	auditRelay   electionworkers.AuditRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if err := pg.Migrate(append(electionpostgres.Models(), stewardshippostgres.Models()...)...); err != nil {
		_ = pg.Close()
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	stewardshipRepo := stewardshippostgres.NewRepository(pg.DB, logger)

	if err := seedInitialOwner(context.Background(), stewardshipRepo, cfg.InitialOwnerID, logger); err != nil {
		_ = pg.Close()
		return nil, err
	}

	stewardshipModule := stewardship.NewModule(stewardship.Dependencies{
		Records: stewardshipRepo,
		Audit:   electionRepo,
		Clock:   stewardshippostgres.SystemClock{},
		IDGen:   stewardshippostgres.UUIDGenerator{},
		Logger:  logger,
	})

	electionModule := electionengine.NewModule(electionengine.Dependencies{
		Elections:   electionRepo,
		Parties:     electionRepo,
		Ballots:     electionRepo,
		Admins:      electionRepo,
		Winners:     electionRepo,
		Owner:       stewardshipModule.Queries,
		Audit:       electionRepo,
		Clock:       electionpostgres.SystemClock{},
		IDGen:       electionpostgres.UUIDGenerator{},
		LockTimeout: cfg.ElectionLockWait,
		Logger:      logger,
	})

	server := httpserver.New(electionModule, stewardshipModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if err := pg.Migrate(electionpostgres.Models()...); err != nil {
		_ = pg.Close()
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := electionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		auditRelay: electionworkers.AuditRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: cfg.AuditRelayInterval,
		logger:       logger,
	}, nil
}

// seedInitialOwner initializes the stewardship record on first boot. An
// existing record always wins over the environment value.
func seedInitialOwner(
	ctx context.Context,
	repo *stewardshippostgres.Repository,
	initialOwner string,
	logger *slog.Logger,
) error {
	_, found, err := repo.GetStewardship(ctx)
	if err != nil {
		return err
	}
	if found || initialOwner == "" {
		return nil
	}
	record := stewardshipentities.Stewardship{
		Owner:     initialOwner,
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.SaveStewardship(ctx, record); err != nil {
		return err
	}
	logger.Info("initial owner seeded",
		"event", "bootstrap_owner_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"owner", initialOwner,
	)
	return nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.auditRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
