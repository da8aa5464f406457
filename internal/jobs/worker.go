package jobs

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"wellspring/internal/insight"
)

// Worker claims due insight jobs and runs the corresponding batch. After
// a successful full sweep it schedules the next periodic run, so the two
// batch cadences survive restarts with no external cron.
type Worker struct {
	ID     string
	Repo   *Repo
	Runner *insight.Runner
	Svc    *insight.Service
	Log    *zap.Logger
}

const (
	weeklyWindowDays     = 7
	behavioralWindowDays = 14

	weeklyCadence     = 7 * 24 * time.Hour
	behavioralCadence = 24 * time.Hour
)

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Error("worker claim error", zap.Error(err))
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	var (
		typ        insight.InsightType
		windowDays int
		cadence    time.Duration
	)
	switch job.Type {
	case TypeWeeklyBatch:
		typ, windowDays, cadence = insight.TypeWeekly, weeklyWindowDays, weeklyCadence
	case TypeBehavioralBatch:
		typ, windowDays, cadence = insight.TypeBehavioral, behavioralWindowDays, behavioralCadence
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	if job.UserID != nil {
		// ad-hoc single-target run
		if _, err := w.Runner.RunOne(ctx, job.UserID, typ, start, end); err != nil {
			w.retry(job, err.Error())
			return
		}
		_ = w.Repo.MarkDone(job.ID)
		return
	}

	// Per-target failures are already isolated inside the runner; a
	// partially failed sweep is still a completed sweep.
	w.Runner.Run(ctx, typ, start, end)

	if err := w.Svc.Cleanup(ctx); err != nil {
		w.Log.Warn("post-batch cleanup failed", zap.Error(err))
	}

	_ = w.Repo.MarkDone(job.ID)
	if err := w.Repo.EnqueueBatch(job.Type, nil, end.Add(cadence)); err != nil {
		w.Log.Error("scheduling next batch failed",
			zap.String("type", job.Type), zap.Error(err))
	}
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}
