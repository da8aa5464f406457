package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wellspring/internal/record"
)

const (
	// ReasonInsufficientData marks windows with too few combined
	// records to say anything useful.
	ReasonInsufficientData = "insufficient_data"
	// ReasonUnsupportedType marks an unknown insight type.
	ReasonUnsupportedType = "unsupported_type"
)

// ComputeResult is what callers see: either a stored record or a typed
// unstored marker. Neither case is an error.
type ComputeResult struct {
	Stored      bool           `json:"stored"`
	Reason      string         `json:"reason,omitempty"`
	Preliminary bool           `json:"preliminary,omitempty"`
	Record      *InsightRecord `json:"record,omitempty"`
}

// Service is the orchestrator: it gates on data volume and type, runs the
// composer, strips residual raw text, and upserts into the store.
type Service struct {
	Store    Store
	Composer *Composer
	Log      *zap.Logger

	MinRecords     int
	RetentionWeeks int
	GeneratedBy    string
}

func (s *Service) minRecords() int {
	if s.MinRecords > 0 {
		return s.MinRecords
	}
	return 3
}

func (s *Service) retentionWeeks() int {
	if s.RetentionWeeks > 0 {
		return s.RetentionWeeks
	}
	return 3
}

func (s *Service) generatedBy() string {
	if s.GeneratedBy != "" {
		return s.GeneratedBy
	}
	return "wellspring-engine"
}

// ComputeAndStore runs the full pipeline for one (target, window) pair.
// Re-running with identical inputs overwrites the same row: the store's
// key constraint makes the whole operation idempotent.
func (s *Service) ComputeAndStore(ctx context.Context, userID *uint64, start, end time.Time, payload record.SanitizedPayload, typ InsightType) (ComputeResult, error) {
	if len(payload.Journals)+len(payload.Checkins) < s.minRecords() {
		return ComputeResult{Reason: ReasonInsufficientData, Preliminary: true}, nil
	}
	if !typ.Valid() {
		return ComputeResult{Reason: ReasonUnsupportedType}, nil
	}

	// Last-line defense: nothing past this point may carry raw text.
	payload.Strip()

	var (
		body any
		meta Metadata
	)
	switch typ {
	case TypeWeekly:
		data := s.Composer.Weekly(ctx, payload)
		stripWeekly(&data)
		body, meta = data, data.Meta
	case TypeBehavioral:
		data := s.Composer.Behavioral(ctx, payload)
		stripBehavioral(&data)
		body, meta = data, data.Meta
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return ComputeResult{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}

	rec := &InsightRecord{
		UserID:         userID,
		Type:           string(typ),
		TimeframeStart: dayOf(start),
		TimeframeEnd:   dayOf(end),
		Payload:        raw,
		RiskLevel:      string(meta.RiskLevel),
		RiskReasoning:  splitReasoning(meta.RiskReasoning),
		GeneratedBy:    s.generatedBy(),
		GeneratedAt:    s.Composer.now(),
	}
	if err := s.Store.Upsert(ctx, rec); err != nil {
		return ComputeResult{}, fmt.Errorf("upsert insight: %w", err)
	}
	return ComputeResult{Stored: true, Record: rec}, nil
}

// Cleanup deletes insights past the retention horizon. Failures are
// logged and returned but never disturb the records themselves: the
// store runs the delete in its own transaction.
func (s *Service) Cleanup(ctx context.Context) error {
	cutoff := s.Composer.now().AddDate(0, 0, -7*s.retentionWeeks())
	deleted, err := s.Store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.Log.Error("insight retention cleanup failed", zap.Error(err))
		return err
	}
	if deleted > 0 {
		s.Log.Info("insight retention cleanup",
			zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return nil
}

// splitReasoning unpacks the "tag=value;..." string into the queryable
// array column.
func splitReasoning(reasoning string) []string {
	if reasoning == "" {
		return nil
	}
	return strings.Split(reasoning, ";")
}

func stripWeekly(d *WeeklyInsightData) {
	stripThemes(d.Themes)
}

func stripBehavioral(d *BehavioralInsightData) {
	stripThemes(d.Themes)
}

func stripThemes(themes []ThemeCluster) {
	for i := range themes {
		for j, ex := range themes[i].Examples {
			themes[i].Examples[j] = record.SanitizeExcerpt(ex)
		}
	}
}
