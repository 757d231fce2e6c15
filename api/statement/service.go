package statement

import (
	"log"
	"net/http"
	"strconv"

	"SpendLens/api/notification"
	"SpendLens/internal/serviceiface"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatementService hosts the statement ingest endpoints as one service in the
// app manager sequence.
type StatementService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewStatementService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &StatementService{config: cfg, pool: pool}
}

func (s *StatementService) Name() string {
	return "statement"
}

func (s *StatementService) Start() error {
	go StartStatementService(s.config, s.pool)
	return nil
}

func (s *StatementService) Stop() error {
	return nil
}

// StartStatementService wires the repository, events and orchestrator, then
// serves the statement routes.
func StartStatementService(cfg map[string]interface{}, pool *pgxpool.Pool) {
	port := "7143"
	if cfg != nil {
		if p, ok := cfg["port"].(string); ok && p != "" {
			port = p
		}
		if p, ok := cfg["port"].(int); ok && p > 0 {
			port = strconv.Itoa(p)
		}
	}

	repo := NewPgxRepository(pool)
	up := NewUploader(repo, notification.Emitter())

	router := mux.NewRouter()
	router.HandleFunc("/statement/upload", UploadStatementFileHandler(repo, up)).Methods("POST")
	router.HandleFunc("/statement/upload-text", UploadStatementTextHandler(up)).Methods("POST")
	router.HandleFunc("/statement/recent-uploads", RecentUploadsHandler(repo)).Methods("POST")
	router.HandleFunc("/statement/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Statement Service"))
	}).Methods("GET")

	log.Println("Statement Service started on :" + port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Statement Service failed: %v", err)
	}
}
