package insight

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wellspring/internal/record"
)

// PayloadSource loads the sanitized window records for one target. A nil
// userID selects the global population.
type PayloadSource interface {
	Window(ctx context.Context, userID *uint64, start, end time.Time) (record.SanitizedPayload, error)
}

// TargetSource lists the batch candidate targets. nil in the returned
// slice means the global target.
type TargetSource func(ctx context.Context) ([]*uint64, error)

// BatchSummary is the well-typed outcome callers see instead of raw
// errors.
type BatchSummary struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Runner iterates the candidate targets sequentially, computing and
// storing one insight per target. One target's failure is logged, counted,
// and never aborts the rest of the batch.
type Runner struct {
	Svc     *Service
	Source  PayloadSource
	Targets TargetSource
	Log     *zap.Logger
}

func (r *Runner) Run(ctx context.Context, typ InsightType, start, end time.Time) BatchSummary {
	var summary BatchSummary

	targets, err := r.Targets(ctx)
	if err != nil {
		r.Log.Error("insight batch: listing targets failed", zap.Error(err))
		summary.Failed++
		return summary
	}

	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		result, err := r.RunOne(ctx, target, typ, start, end)
		switch {
		case err != nil:
			summary.Failed++
			r.Log.Error("insight batch: target failed",
				zap.String("type", string(typ)),
				zap.Any("user_id", target),
				zap.Error(err))
		case result.Stored:
			summary.Generated++
		default:
			summary.Skipped++
		}
	}

	r.Log.Info("insight batch finished",
		zap.String("type", string(typ)),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary
}

// RunOne isolates a single target: a panic anywhere inside is converted
// into that target's failure.
func (r *Runner) RunOne(ctx context.Context, userID *uint64, typ InsightType, start, end time.Time) (result ComputeResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	payload, err := r.Source.Window(ctx, userID, start, end)
	if err != nil {
		return ComputeResult{}, fmt.Errorf("load window: %w", err)
	}
	return r.Svc.ComputeAndStore(ctx, userID, start, end, payload, typ)
}
