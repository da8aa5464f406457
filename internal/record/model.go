package record

import (
	"time"
)

// Records below are what the engine consumes: the sanitizer boundary has
// already replaced raw text with redacted excerpts, so nothing here ever
// carries unredacted content.

type Sentiment = string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type AlertSeverity = string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// JournalRecord is a redacted journal entry.
type JournalRecord struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	UserID          *uint64   `gorm:"index" json:"user_id,omitempty"`
	RedactedExcerpt string    `gorm:"type:text;not null;default:''" json:"redacted_excerpt"`
	Sentiment       string    `gorm:"type:text" json:"sentiment"`
	Emotion         Emotion   `gorm:"type:jsonb" json:"emotion"`
	CreatedAt       time.Time `gorm:"index;not null;default:now()" json:"created_at"`
}

// CheckinRecord is a single mood/energy/stress check-in. The three level
// fields are ordinal labels, not free text.
type CheckinRecord struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      *uint64   `gorm:"index" json:"user_id,omitempty"`
	MoodLevel   string    `gorm:"type:text;not null" json:"mood_level"`
	EnergyLevel string    `gorm:"type:text" json:"energy_level"`
	StressLevel string    `gorm:"type:text" json:"stress_level"`
	FeelBetter  *bool     `json:"feel_better,omitempty"`
	Sentiment   string    `gorm:"type:text" json:"sentiment"`
	Emotion     Emotion   `gorm:"type:jsonb" json:"emotion"`
	CreatedAt   time.Time `gorm:"index;not null;default:now()" json:"created_at"`
}

type AlertRecord struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id,omitempty"`
	Severity  string    `gorm:"type:text;not null" json:"severity"`
	Status    string    `gorm:"type:text;not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"index;not null;default:now()" json:"created_at"`
}

type ActivityRecord struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id,omitempty"`
	Kind      string    `gorm:"type:text;not null" json:"kind"`
	CreatedAt time.Time `gorm:"index;not null;default:now()" json:"created_at"`
}

type AppointmentRecord struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      *uint64   `gorm:"index" json:"user_id,omitempty"`
	Status      string    `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	ScheduledAt time.Time `gorm:"index;not null" json:"scheduled_at"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// SanitizedPayload is the engine input for one (target, window) pair.
type SanitizedPayload struct {
	Journals     []JournalRecord     `json:"journals"`
	Checkins     []CheckinRecord     `json:"checkins"`
	Alerts       []AlertRecord       `json:"alerts"`
	Activities   []ActivityRecord    `json:"activities"`
	Appointments []AppointmentRecord `json:"appointments"`
}
