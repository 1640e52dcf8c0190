package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
	"electorate/contexts/election-core/election-engine/ports"
	"electorate/internal/shared/events"
	"electorate/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrNameTaken
		}
		return r.logError("election_repo_create_failed", err, "election_key", row.ID)
	}
	return nil
}

func (r *Repository) UpdateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	update := r.db.WithContext(ctx).Model(&electionModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":        row.Name,
			"description": row.Description,
			"start_time":  row.StartTime,
			"stop_time":   row.StopTime,
			"vote_fee":    row.VoteFee,
			"paused":      row.Paused,
			"cancelled":   row.Cancelled,
			"updated_at":  row.UpdatedAt,
		})
	if update.Error != nil {
		if isUniqueViolation(update.Error) {
			return domainerrors.ErrNameTaken
		}
		return r.logError("election_repo_update_failed", update.Error, "election_key", row.ID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionKey string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionKey)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err, "election_key", strings.TrimSpace(electionKey))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// DeleteElection removes the election record, its parties, voter records,
// admin set and winner set in one transaction. The name reservation is the
// unique index on the elections row, so it dies with the record.
func (r *Repository) DeleteElection(ctx context.Context, electionKey string) error {
	key := strings.TrimSpace(electionKey)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		remove := tx.Where("id = ?", key).Delete(&electionModel{})
		if remove.Error != nil {
			return remove.Error
		}
		if remove.RowsAffected == 0 {
			return domainerrors.ErrElectionNotFound
		}
		if err := tx.Where("election_key = ?", key).Delete(&partyModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_key = ?", key).Delete(&voterRecordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_key = ?", key).Delete(&electionAdminModel{}).Error; err != nil {
			return err
		}
		return tx.Where("election_key = ?", key).Delete(&winnerEntryModel{}).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return err
		}
		return r.logError("election_repo_delete_failed", err, "election_key", key)
	}
	return nil
}

func (r *Repository) AddParty(ctx context.Context, party entities.Party) error {
	row := partyModelFromEntity(party)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("election_repo_add_party_failed", err,
			"election_key", row.ElectionKey,
			"party_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) ListParties(ctx context.Context, electionKey string) ([]entities.Party, error) {
	var rows []partyModel
	err := r.db.WithContext(ctx).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Order("position ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_parties_failed", err, "election_key", strings.TrimSpace(electionKey))
	}
	items := make([]entities.Party, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeactivatePartiesByName(
	ctx context.Context,
	electionKey string,
	name string,
	updatedAt time.Time,
) (int, error) {
	update := r.db.WithContext(ctx).Model(&partyModel{}).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Where("name = ?", strings.TrimSpace(name)).
		Where("status = ?", string(entities.PartyStatusActive)).
		Updates(map[string]any{
			"status":     string(entities.PartyStatusInactive),
			"updated_at": updatedAt.UTC(),
		})
	if update.Error != nil {
		return 0, r.logError("election_repo_deactivate_parties_failed", update.Error,
			"election_key", strings.TrimSpace(electionKey),
			"party_name", strings.TrimSpace(name),
		)
	}
	return int(update.RowsAffected), nil
}

func (r *Repository) GetVoterRecord(ctx context.Context, electionKey string, voterID string) (entities.VoterRecord, bool, error) {
	var row voterRecordModel
	err := r.db.WithContext(ctx).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterRecord{}, false, nil
		}
		return entities.VoterRecord{}, false, r.logError("election_repo_get_voter_failed", err,
			"election_key", strings.TrimSpace(electionKey),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

// CastBallot inserts the voter record and increments the party count in one
// transaction. The voter-record primary key is the database-level backstop
// for the one-vote guarantee.
func (r *Repository) CastBallot(
	ctx context.Context,
	electionKey string,
	partyID string,
	record entities.VoterRecord,
) (entities.Party, error) {
	key := strings.TrimSpace(electionKey)
	var credited partyModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		voterRow := voterRecordModelFromEntity(record)
		if err := tx.Create(&voterRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}
		increment := tx.Model(&partyModel{}).
			Where("id = ?", strings.TrimSpace(partyID)).
			Where("election_key = ?", key).
			Updates(map[string]any{
				"vote_count": gorm.Expr("vote_count + 1"),
				"updated_at": record.VotedAt.UTC(),
			})
		if increment.Error != nil {
			return increment.Error
		}
		if increment.RowsAffected == 0 {
			return domainerrors.ErrPartyNotFound
		}
		return tx.Where("id = ?", strings.TrimSpace(partyID)).First(&credited).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) || errors.Is(err, domainerrors.ErrPartyNotFound) {
			return entities.Party{}, err
		}
		return entities.Party{}, r.logError("election_repo_cast_ballot_failed", err,
			"election_key", key,
			"party_id", strings.TrimSpace(partyID),
			"voter_id", strings.TrimSpace(record.VoterID),
		)
	}
	return credited.toEntity(), nil
}

func (r *Repository) IsAdmin(ctx context.Context, electionKey string, identity string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&electionAdminModel{}).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Where("admin_id = ?", strings.TrimSpace(identity)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("election_repo_is_admin_failed", err,
			"election_key", strings.TrimSpace(electionKey),
			"admin_id", strings.TrimSpace(identity),
		)
	}
	return count > 0, nil
}

func (r *Repository) AddAdmin(ctx context.Context, electionKey string, identity string) error {
	row := electionAdminModel{
		ElectionKey: strings.TrimSpace(electionKey),
		AdminID:     strings.TrimSpace(identity),
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAdminExists
		}
		return r.logError("election_repo_add_admin_failed", err,
			"election_key", row.ElectionKey,
			"admin_id", row.AdminID,
		)
	}
	return nil
}

func (r *Repository) RemoveAdmin(ctx context.Context, electionKey string, identity string) error {
	remove := r.db.WithContext(ctx).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Where("admin_id = ?", strings.TrimSpace(identity)).
		Delete(&electionAdminModel{})
	if remove.Error != nil {
		return r.logError("election_repo_remove_admin_failed", remove.Error,
			"election_key", strings.TrimSpace(electionKey),
			"admin_id", strings.TrimSpace(identity),
		)
	}
	if remove.RowsAffected == 0 {
		return domainerrors.ErrAdminNotFound
	}
	return nil
}

func (r *Repository) ListAdmins(ctx context.Context, electionKey string) ([]string, error) {
	var items []string
	err := r.db.WithContext(ctx).Model(&electionAdminModel{}).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Order("admin_id ASC").
		Pluck("admin_id", &items).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_admins_failed", err, "election_key", strings.TrimSpace(electionKey))
	}
	return items, nil
}

func (r *Repository) SaveWinners(ctx context.Context, electionKey string, winners []entities.WinnerEntry) error {
	key := strings.TrimSpace(electionKey)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&winnerEntryModel{}).
			Where("election_key = ?", key).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.ErrWinnerResolved
		}
		rows := make([]winnerEntryModel, 0, len(winners))
		for _, entry := range winners {
			rows = append(rows, winnerEntryModelFromEntity(entry))
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrWinnerResolved) {
			return err
		}
		if isUniqueViolation(err) {
			return domainerrors.ErrWinnerResolved
		}
		return r.logError("election_repo_save_winners_failed", err, "election_key", key)
	}
	return nil
}

func (r *Repository) GetWinners(ctx context.Context, electionKey string) ([]entities.WinnerEntry, bool, error) {
	var rows []winnerEntryModel
	err := r.db.WithContext(ctx).
		Where("election_key = ?", strings.TrimSpace(electionKey)).
		Order("position ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, false, r.logError("election_repo_get_winners_failed", err, "election_key", strings.TrimSpace(electionKey))
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	items := make([]entities.WinnerEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, true, nil
}

func (r *Repository) AppendAudit(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := auditOutboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: envelope.OccurredAtUTC.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("election_repo_append_audit_failed", err, "outbox_id", row.OutboxID)
	}
	return nil
}

func (r *Repository) ListPendingAudit(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []auditOutboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_pending_audit_failed", err)
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			Status:    row.Status,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkAuditPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamp := publishedAt.UTC()
	update := r.db.WithContext(ctx).Model(&auditOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": &stamp,
		})
	if update.Error != nil {
		return r.logError("election_repo_mark_audit_published_failed", update.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "election-core/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.PartyRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.AdminRepository = (*Repository)(nil)
var _ ports.WinnerRepository = (*Repository)(nil)
var _ ports.AuditWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
