package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"SpendLens/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// PurgeConfig controls the nightly cleanup of staged statement rows.
type PurgeConfig struct {
	Schedule      string
	RetentionDays int
	BatchLimit    int
	TimeZone      string
}

// RunStagingPurgeScheduler registers the staging purge on its cron schedule.
// Staged rows are replay insurance for failed uploads; once the retention
// window passes they are dead weight.
func RunStagingPurgeScheduler(cfg *PurgeConfig, db *pgxpool.Pool) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone %s: %v", cfg.TimeZone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := purgeExpiredStagingRows(context.Background(), cfg, db); err != nil {
			log.Printf("[STAGING-PURGE] run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()

	log.Printf("[STAGING-PURGE] scheduled %q (retention %d days)", cfg.Schedule, cfg.RetentionDays)
	return nil
}

// purgeExpiredStagingRows deletes in bounded batches so a backlog never holds
// a long-running lock on the staging table.
func purgeExpiredStagingRows(ctx context.Context, cfg *PurgeConfig, db *pgxpool.Pool) error {
	cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
	total := int64(0)

	for {
		tag, err := db.Exec(ctx, `
			DELETE FROM spendlens.statement_staging
			WHERE ctid IN (
				SELECT ctid FROM spendlens.statement_staging
				WHERE staged_at < $1
				LIMIT $2
			)`, cutoff, cfg.BatchLimit)
		if err != nil {
			return err
		}
		n := tag.RowsAffected()
		total += n
		if n < int64(cfg.BatchLimit) {
			break
		}
	}

	if total > 0 {
		log.Printf("[STAGING-PURGE] removed %d staged rows older than %s", total, cutoff.Format("2006-01-02"))
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Staging purge removed %d rows", total))
		}
	}
	return nil
}
