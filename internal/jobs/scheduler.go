package jobs

import (
	"fmt"
	"log"

	"SpendLens/internal/config"
	"SpendLens/internal/logger"
	"SpendLens/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	purgeConfig := NewDefaultPurgeConfig()

	// Override from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["purge_schedule"].(string); ok && schedule != "" {
			purgeConfig.Schedule = schedule
		}
		if days, ok := s.config["retention_days"].(int); ok && days > 0 {
			purgeConfig.RetentionDays = days
		}
	}

	if err := RunStagingPurgeScheduler(purgeConfig, s.db); err != nil {
		return fmt.Errorf("failed to start staging purge scheduler: %v", err)
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with staging purge job")
	}
	log.Println("Cron service started — Staging Purge scheduled")

	return nil
}

func (s *CronService) Stop() error {
	log.Println("Cron service stopped.")
	return nil
}

// NewDefaultPurgeConfig builds the purge job config from compile-time defaults.
func NewDefaultPurgeConfig() *PurgeConfig {
	return &PurgeConfig{
		Schedule:      config.DefaultPurgeSchedule,
		RetentionDays: config.StagingRetentionDays,
		BatchLimit:    config.StagingPurgeBatchLimit,
		TimeZone:      config.DefaultTimeZone,
	}
}
