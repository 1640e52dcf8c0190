package postgresadapter

import (
	"time"

	"electorate/contexts/identity-access/stewardship-service/domain/entities"
)

// stewardshipModel is the singleton owner row. RecordID is always 1.
type stewardshipModel struct {
	RecordID     int64     `gorm:"column:record_id;primaryKey"`
	Owner        string    `gorm:"column:owner;not null"`
	PendingOwner string    `gorm:"column:pending_owner;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (stewardshipModel) TableName() string {
	return "stewardship"
}

func (m stewardshipModel) toEntity() entities.Stewardship {
	return entities.Stewardship{
		Owner:        m.Owner,
		PendingOwner: m.PendingOwner,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromEntity(record entities.Stewardship) stewardshipModel {
	return stewardshipModel{
		RecordID:     1,
		Owner:        record.Owner,
		PendingOwner: record.PendingOwner,
		UpdatedAt:    record.UpdatedAt,
	}
}

// Models lists every table this adapter owns, for schema migration at
// startup.
func Models() []any {
	return []any{&stewardshipModel{}}
}
