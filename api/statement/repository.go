package statement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRepository implements Repository against Postgres. It owns the only SQL
// the upload pipeline ever runs; handlers and the orchestrator stay
// schema-free.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

// ValidateTransactions performs the remote (advisory) pre-upload checks: the
// target account must exist and belong to the uploading user. Field-level
// problems come back as messages, not errors.
func (r *PgxRepository) ValidateTransactions(ctx context.Context, batch UploadBatch) (*ValidationResult, error) {
	res := &ValidationResult{IsValid: true, TotalCount: len(batch.Transactions), ValidationErrors: []string{}}

	var owned bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM spendlens.accounts WHERE account_id = $1 AND user_id = $2)`,
		batch.AccountID, batch.UserID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("validate batch: %w", err)
	}
	if !owned {
		res.IsValid = false
		res.ValidationErrors = append(res.ValidationErrors, "target account not found for this user")
	}

	for i, t := range batch.Transactions {
		if t.Amount <= 0 {
			res.IsValid = false
			res.ValidationErrors = append(res.ValidationErrors, fmt.Sprintf("record %d: non-positive amount", i))
		}
		if t.Date == "" {
			res.IsValid = false
			res.ValidationErrors = append(res.ValidationErrors, fmt.Sprintf("record %d: missing date", i))
		}
		if t.SourceAccountType == "" {
			res.IsValid = false
			res.ValidationErrors = append(res.ValidationErrors, fmt.Sprintf("record %d: missing source account type", i))
		}
	}
	return res, nil
}

// CheckDuplicates looks for already-stored transactions with the same date,
// amount and description for this user. Matches are surfaced to the caller
// but never block the upload.
func (r *PgxRepository) CheckDuplicates(ctx context.Context, batch UploadBatch, userID string) (*DuplicateCheckResult, error) {
	res := &DuplicateCheckResult{Duplicates: []DuplicateMatch{}}
	if len(batch.Transactions) == 0 {
		return res, nil
	}

	dates := make([]string, 0, len(batch.Transactions))
	amounts := make([]float64, 0, len(batch.Transactions))
	descs := make([]string, 0, len(batch.Transactions))
	for _, t := range batch.Transactions {
		dates = append(dates, t.Date)
		amounts = append(amounts, t.Amount)
		descs = append(descs, t.Description)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT t.transaction_id, t.transaction_date::text, t.amount, t.description, t.created_at
		FROM spendlens.transactions t
		JOIN unnest($2::text[], $3::numeric[], $4::text[]) AS incoming(d, a, descr)
		  ON t.transaction_date = incoming.d::date
		 AND t.amount = incoming.a
		 AND t.description = incoming.descr
		WHERE t.user_id = $1`,
		userID, dates, amounts, descs)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m DuplicateMatch
		if err := rows.Scan(&m.TransactionID, &m.Date, &m.Amount, &m.Description, &m.SeenAt); err != nil {
			return nil, fmt.Errorf("duplicate check scan: %w", err)
		}
		res.Duplicates = append(res.Duplicates, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("duplicate check rows: %w", rows.Err())
	}
	res.DuplicateCount = len(res.Duplicates)
	return res, nil
}

// insertColumns is the full column set one parsed record maps to. Order must
// match insertArgs.
var insertColumns = []string{
	"transaction_id", "user_id", "account_id", "name", "description",
	"amount", "transaction_date", "direction",
	"source_account_type", "source_account_id", "source_account_name",
	"destination_account_type", "destination_account_id", "destination_account_name",
	"merchant_name",
}

func insertArgs(t ParsedTransaction) []interface{} {
	return []interface{}{
		t.TransactionID, t.UserID, t.AccountID, t.Name, sanitizeForPostgres(t.Description),
		t.Amount, t.Date, string(t.Direction),
		string(t.SourceAccountType), t.SourceAccountID, t.SourceAccountName,
		string(t.DestAccountType), t.DestAccountID, t.DestAccountName,
		t.MerchantName,
	}
}

// buildInsertChunkStmt assembles the one-statement bulk insert for a chunk.
func buildInsertChunkStmt(records []ParsedTransaction) (string, []interface{}) {
	cols := len(insertColumns)
	valueStrings := make([]string, 0, len(records))
	valueArgs := make([]interface{}, 0, len(records)*cols)
	for i, t := range records {
		base := i * cols
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs, insertArgs(t)...)
	}
	stmt := `INSERT INTO spendlens.transactions (` +
		strings.Join(insertColumns, ", ") +
		`) VALUES ` + strings.Join(valueStrings, ",") + ` RETURNING transaction_id`
	return stmt, valueArgs
}

// InsertChunk bulk-inserts one chunk and returns the stored identifiers. The
// whole chunk goes in a single statement; the caller treats a failure as a
// per-chunk error, not a batch abort.
func (r *PgxRepository) InsertChunk(ctx context.Context, records []ParsedTransaction) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	stmt, valueArgs := buildInsertChunkStmt(records)

	rows, err := r.pool.Query(ctx, stmt, valueArgs...)
	if err != nil {
		return nil, fmt.Errorf("insert chunk: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, len(records))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("insert chunk scan: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("insert chunk rows: %w", rows.Err())
	}
	return ids, nil
}

// StageRawRows copies the untouched statement rows into the staging table
// under one upload batch id, so a bad parse can be replayed without asking
// the user to re-upload. Purged by the maintenance job after retention.
func (r *PgxRepository) StageRawRows(ctx context.Context, batchID, userID string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	copyRows := make([][]interface{}, len(rows))
	now := time.Now()
	for i, row := range rows {
		copyRows[i] = []interface{}{batchID, userID, i, strings.Join(row, ","), now}
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"spendlens", "statement_staging"},
		[]string{"upload_batch_id", "user_id", "row_index", "raw_line", "staged_at"},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return fmt.Errorf("stage raw rows: %w", err)
	}
	return nil
}

// RecentBatches lists recent upload batches for one user from staging.
func (r *PgxRepository) RecentBatches(ctx context.Context, userID string, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT upload_batch_id, COUNT(*) AS row_count, MIN(staged_at) AS staged_at
		FROM spendlens.statement_staging
		WHERE user_id = $1
		GROUP BY upload_batch_id
		ORDER BY MIN(staged_at) DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent batches: %w", err)
	}
	defer rows.Close()

	out := make([]map[string]interface{}, 0, limit)
	for rows.Next() {
		var batchID string
		var count int
		var stagedAt time.Time
		if err := rows.Scan(&batchID, &count, &stagedAt); err != nil {
			return nil, fmt.Errorf("recent batches scan: %w", err)
		}
		out = append(out, map[string]interface{}{
			"upload_batch_id": batchID,
			"row_count":       count,
			"staged_at":       stagedAt,
		})
	}
	return out, rows.Err()
}

// friendlyDBError maps Postgres error codes to messages a user can act on;
// anything else passes through unchanged.
func friendlyDBError(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	switch pgErr.Code {
	case "23505":
		return "Some of these transactions already exist."
	case "23503":
		return "The target account was not found (please refresh and try again)."
	case "23514", "23502":
		return "Some fields have invalid values. Please check and try again."
	default:
		return "Database error while saving transactions. Please try again."
	}
}
