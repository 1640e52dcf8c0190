package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"electorate/contexts/identity-access/stewardship-service/domain/entities"
	"electorate/contexts/identity-access/stewardship-service/ports"
)

// Repository persists the owner record in PostgreSQL.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetStewardship(ctx context.Context) (entities.Stewardship, bool, error) {
	var model stewardshipModel
	err := r.db.WithContext(ctx).First(&model, "record_id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Stewardship{}, false, nil
	}
	if err != nil {
		r.logError(ctx, "get_stewardship", err)
		return entities.Stewardship{}, false, err
	}
	return model.toEntity(), true, nil
}

func (r *Repository) SaveStewardship(ctx context.Context, record entities.Stewardship) error {
	model := fromEntity(record)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		r.logError(ctx, "save_stewardship", err)
		return err
	}
	return nil
}

func (r *Repository) logError(ctx context.Context, operation string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.ErrorContext(ctx, "stewardship repository operation failed",
		"event", "stewardship.repository_error",
		"module", "stewardship-service",
		"layer", "adapters",
		"operation", operation,
		"error", err,
	)
}

var _ ports.StewardshipRepository = (*Repository)(nil)
