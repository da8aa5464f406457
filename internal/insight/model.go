package insight

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// InsightRecord is the stored insight. At most one live row exists per
// (user_id, type, timeframe_start, timeframe_end) key; writes are upserts
// enforced by partial unique indexes (see internal/db). Rows are created
// and updated only by the orchestrator and deleted only by retention
// cleanup or a superseding upsert.
type InsightRecord struct {
	ID             uint64          `gorm:"primaryKey" json:"id"`
	UserID         *uint64         `gorm:"index" json:"user_id,omitempty"`
	Type           string          `gorm:"not null" json:"type"`
	TimeframeStart time.Time       `gorm:"type:date;not null" json:"timeframe_start"`
	TimeframeEnd   time.Time       `gorm:"type:date;not null" json:"timeframe_end"`
	Payload        json.RawMessage `gorm:"type:jsonb;not null;default:'{}'::jsonb" json:"payload"`
	RiskLevel      string          `gorm:"not null" json:"risk_level"`
	RiskReasoning  pq.StringArray  `gorm:"type:text[]" json:"risk_reasoning,omitempty"`
	GeneratedBy    string          `gorm:"not null" json:"generated_by"`
	GeneratedAt    time.Time       `gorm:"index;not null;default:now()" json:"generated_at"`
}
