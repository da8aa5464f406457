package jobs

import "time"

const (
	TypeWeeklyBatch     = "INSIGHT_WEEKLY"
	TypeBehavioralBatch = "INSIGHT_BEHAVIORAL"
)

type Job struct {
	ID uint64 `gorm:"primaryKey"`

	// Set for ad-hoc single-target runs; nil for full batch sweeps.
	UserID *uint64 `gorm:"index"`

	Type    string `gorm:"type:text;not null"` // INSIGHT_WEEKLY / INSIGHT_BEHAVIORAL
	Payload []byte `gorm:"type:jsonb;not null;default:'{}'::jsonb"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"` // PENDING/RUNNING/DONE/FAILED/CANCELLED

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:8"`

	LockedBy *string    `gorm:"type:text"`
	LockedAt *time.Time `gorm:"type:timestamptz"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
