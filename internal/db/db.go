package db

import (
	"fmt"

	"wellspring/internal/auth"
	"wellspring/internal/insight"
	"wellspring/internal/jobs"
	"wellspring/internal/record"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&record.JournalRecord{},
		&record.CheckinRecord{},
		&record.AlertRecord{},
		&record.ActivityRecord{},
		&record.AppointmentRecord{},
		&insight.InsightRecord{},
		&jobs.Job{},
		&auth.User{},
	); err != nil {
		return err
	}

	// Insight key uniqueness: user_id is nullable, so one partial unique
	// index per case. The upsert's ON CONFLICT targets infer from these.
	if err := gdb.Exec(`
create unique index if not exists uq_insights_user_key
on insight_records(user_id, type, timeframe_start, timeframe_end)
where user_id is not null;
`).Error; err != nil {
		return err
	}
	if err := gdb.Exec(`
create unique index if not exists uq_insights_global_key
on insight_records(type, timeframe_start, timeframe_end)
where user_id is null;
`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_journals_user_created on journal_records(user_id, created_at);`,
		`create index if not exists idx_checkins_user_created on checkin_records(user_id, created_at);`,
		`create index if not exists idx_alerts_user_created on alert_records(user_id, created_at);`,
		`create index if not exists idx_insights_generated on insight_records(generated_at);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
