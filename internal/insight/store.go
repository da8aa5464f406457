package insight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Store is the insight persistence contract: idempotent upsert keyed by
// (user_id, type, timeframe_start, timeframe_end) with last-write-wins
// semantics, plus retention deletion.
type Store interface {
	Upsert(ctx context.Context, rec *InsightRecord) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormStore persists insights in Postgres. Uniqueness is serialized by
// the store's partial unique indexes, not by read-modify-write here.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Upsert(ctx context.Context, rec *InsightRecord) error {
	// Two conflict targets because the key's user_id is nullable; each
	// matches one of the partial unique indexes.
	if rec.UserID == nil {
		return s.DB.WithContext(ctx).Exec(`
insert into insight_records (user_id, type, timeframe_start, timeframe_end, payload, risk_level, risk_reasoning, generated_by, generated_at)
values (null, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (type, timeframe_start, timeframe_end) where user_id is null
do update set payload=excluded.payload,
              risk_level=excluded.risk_level,
              risk_reasoning=excluded.risk_reasoning,
              generated_by=excluded.generated_by,
              generated_at=excluded.generated_at
`, rec.Type, rec.TimeframeStart, rec.TimeframeEnd, string(rec.Payload), rec.RiskLevel, rec.RiskReasoning, rec.GeneratedBy, rec.GeneratedAt).Error
	}

	return s.DB.WithContext(ctx).Exec(`
insert into insight_records (user_id, type, timeframe_start, timeframe_end, payload, risk_level, risk_reasoning, generated_by, generated_at)
values (?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (user_id, type, timeframe_start, timeframe_end) where user_id is not null
do update set payload=excluded.payload,
              risk_level=excluded.risk_level,
              risk_reasoning=excluded.risk_reasoning,
              generated_by=excluded.generated_by,
              generated_at=excluded.generated_at
`, *rec.UserID, rec.Type, rec.TimeframeStart, rec.TimeframeEnd, string(rec.Payload), rec.RiskLevel, rec.RiskReasoning, rec.GeneratedBy, rec.GeneratedAt).Error
}

// DeleteOlderThan removes insights generated before cutoff inside its own
// transaction so a failure rolls back cleanly without touching callers.
func (s *GormStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("generated_at < ?", cutoff).Delete(&InsightRecord{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// MemStore is the in-memory Store used by tests and by the engine when it
// runs without Postgres. Same key semantics as the SQL store.
type MemStore struct {
	mu   sync.Mutex
	rows map[string]InsightRecord
	next uint64
}

func NewMemStore() *MemStore {
	return &MemStore{rows: map[string]InsightRecord{}}
}

func memKey(rec *InsightRecord) string {
	user := "global"
	if rec.UserID != nil {
		user = fmt.Sprint(*rec.UserID)
	}
	return fmt.Sprintf("%s|%s|%s|%s", user, rec.Type,
		rec.TimeframeStart.UTC().Format("2006-01-02"),
		rec.TimeframeEnd.UTC().Format("2006-01-02"))
}

func (s *MemStore) Upsert(_ context.Context, rec *InsightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(rec)
	if existing, ok := s.rows[key]; ok {
		rec.ID = existing.ID
	} else {
		s.next++
		rec.ID = s.next
	}
	s.rows[key] = *rec
	return nil
}

func (s *MemStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, rec := range s.rows {
		if rec.GeneratedAt.Before(cutoff) {
			delete(s.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports the number of live records.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// All returns a snapshot of the live records.
func (s *MemStore) All() []InsightRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InsightRecord, 0, len(s.rows))
	for _, rec := range s.rows {
		out = append(out, rec)
	}
	return out
}
