package postgresadapter

import (
	"strings"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
)

type electionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Creator     string    `gorm:"column:creator"`
	StartTime   time.Time `gorm:"column:start_time"`
	StopTime    time.Time `gorm:"column:stop_time"`
	VoteFee     uint64    `gorm:"column:vote_fee"`
	Paused      bool      `gorm:"column:paused"`
	Cancelled   bool      `gorm:"column:cancelled"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(item entities.Election) electionModel {
	return electionModel{
		ID:          strings.TrimSpace(item.ElectionKey),
		Name:        strings.TrimSpace(item.Name),
		Description: strings.TrimSpace(item.Description),
		Creator:     strings.TrimSpace(item.Creator),
		StartTime:   item.StartTime.UTC(),
		StopTime:    item.StopTime.UTC(),
		VoteFee:     item.VoteFee,
		Paused:      item.Paused,
		Cancelled:   item.Cancelled,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionKey: m.ID,
		Name:        m.Name,
		Description: m.Description,
		Creator:     m.Creator,
		StartTime:   m.StartTime.UTC(),
		StopTime:    m.StopTime.UTC(),
		VoteFee:     m.VoteFee,
		Paused:      m.Paused,
		Cancelled:   m.Cancelled,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type partyModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionKey string    `gorm:"column:election_key;index"`
	Name        string    `gorm:"column:name"`
	VoteCount   uint64    `gorm:"column:vote_count"`
	Status      string    `gorm:"column:status"`
	Position    int       `gorm:"column:position"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (partyModel) TableName() string {
	return "parties"
}

func partyModelFromEntity(item entities.Party) partyModel {
	return partyModel{
		ID:          strings.TrimSpace(item.PartyID),
		ElectionKey: strings.TrimSpace(item.ElectionKey),
		Name:        strings.TrimSpace(item.Name),
		VoteCount:   item.VoteCount,
		Status:      string(item.Status),
		Position:    item.Position,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m partyModel) toEntity() entities.Party {
	return entities.Party{
		PartyID:     m.ID,
		ElectionKey: m.ElectionKey,
		Name:        m.Name,
		VoteCount:   m.VoteCount,
		Status:      entities.PartyStatus(m.Status),
		Position:    m.Position,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type voterRecordModel struct {
	ElectionKey string    `gorm:"column:election_key;primaryKey"`
	VoterID     string    `gorm:"column:voter_id;primaryKey"`
	Voted       bool      `gorm:"column:voted"`
	VotedAt     time.Time `gorm:"column:voted_at"`
}

func (voterRecordModel) TableName() string {
	return "voter_records"
}

func voterRecordModelFromEntity(item entities.VoterRecord) voterRecordModel {
	return voterRecordModel{
		ElectionKey: strings.TrimSpace(item.ElectionKey),
		VoterID:     strings.TrimSpace(item.VoterID),
		Voted:       item.Voted,
		VotedAt:     item.VotedAt.UTC(),
	}
}

func (m voterRecordModel) toEntity() entities.VoterRecord {
	return entities.VoterRecord{
		ElectionKey: m.ElectionKey,
		VoterID:     m.VoterID,
		Voted:       m.Voted,
		VotedAt:     m.VotedAt.UTC(),
	}
}

type electionAdminModel struct {
	ElectionKey string    `gorm:"column:election_key;primaryKey"`
	AdminID     string    `gorm:"column:admin_id;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (electionAdminModel) TableName() string {
	return "election_admins"
}

type winnerEntryModel struct {
	ElectionKey string    `gorm:"column:election_key;primaryKey"`
	PartyID     string    `gorm:"column:party_id;primaryKey"`
	PartyName   string    `gorm:"column:party_name"`
	VoteCount   uint64    `gorm:"column:vote_count"`
	Position    int       `gorm:"column:position"`
	ResolvedAt  time.Time `gorm:"column:resolved_at"`
}

func (winnerEntryModel) TableName() string {
	return "winner_entries"
}

func winnerEntryModelFromEntity(item entities.WinnerEntry) winnerEntryModel {
	return winnerEntryModel{
		ElectionKey: strings.TrimSpace(item.ElectionKey),
		PartyID:     strings.TrimSpace(item.PartyID),
		PartyName:   strings.TrimSpace(item.PartyName),
		VoteCount:   item.VoteCount,
		Position:    item.Position,
		ResolvedAt:  item.ResolvedAt.UTC(),
	}
}

func (m winnerEntryModel) toEntity() entities.WinnerEntry {
	return entities.WinnerEntry{
		ElectionKey: m.ElectionKey,
		PartyID:     m.PartyID,
		PartyName:   m.PartyName,
		VoteCount:   m.VoteCount,
		Position:    m.Position,
		ResolvedAt:  m.ResolvedAt.UTC(),
	}
}

type auditOutboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (auditOutboxModel) TableName() string {
	return "election_audit_outbox"
}

// Models lists every table this adapter owns, for schema migration at
// startup.
func Models() []any {
	return []any{
		&electionModel{},
		&partyModel{},
		&voterRecordModel{},
		&electionAdminModel{},
		&winnerEntryModel{},
		&auditOutboxModel{},
	}
}
