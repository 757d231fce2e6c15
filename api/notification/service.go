package notification

import (
	"database/sql"
	"log"

	"SpendLens/internal/serviceiface"
)

// NotificationService drains completion events in the background so emitters
// never block on the database.
type NotificationService struct {
	config map[string]interface{}
	db     *sql.DB
}

func NewNotificationService(cfg map[string]interface{}, db *sql.DB) serviceiface.Service {
	return &NotificationService{config: cfg, db: db}
}

func (s *NotificationService) Name() string {
	return "notification"
}

func (s *NotificationService) Start() error {
	go runEmitter(s.db)
	return nil
}

func (s *NotificationService) Stop() error {
	stopEmitter()
	return nil
}

func runEmitter(db *sql.DB) {
	for ev := range defaultEmitter.ch {
		if db == nil {
			continue
		}
		_, err := db.Exec(
			`INSERT INTO spendlens.notifications (tag, record_count, emitted_at) VALUES ($1, $2, $3)`,
			ev.Tag, ev.Count, ev.At,
		)
		if err != nil {
			// Fire-and-forget: a lost notification never fails an upload.
			log.Printf("[NOTIFY] failed to persist %s event: %v", ev.Tag, err)
		}
	}
}
