package statement

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// ChunkSize bounds how many records go into one insert call. Chunks are
// uploaded sequentially so the backend sees a deterministic insertion order
// and never more than one in-flight batch per upload.
const ChunkSize = 50

// Repository is the narrow surface the orchestrator needs from the
// persistence backend. The core never depends on the backend schema beyond
// these signatures.
type Repository interface {
	ValidateTransactions(ctx context.Context, batch UploadBatch) (*ValidationResult, error)
	CheckDuplicates(ctx context.Context, batch UploadBatch, userID string) (*DuplicateCheckResult, error)
	InsertChunk(ctx context.Context, records []ParsedTransaction) ([]string, error)
}

// Events receives fire-and-forget completion signals; failures to emit are
// swallowed and never affect the returned UploadResult.
type Events interface {
	UploadCompleted(tag string, count int)
}

// UploadOptions tunes one orchestrator run.
type UploadOptions struct {
	SkipValidation     bool
	SkipDuplicateCheck bool
	OnProgress         ProgressFunc
}

// Uploader sequences validation, duplicate detection and the chunked insert
// for one batch. Both pre-checks are advisory by design: a flaky validator
// must not block a user's upload (see DESIGN.md for the open question).
type Uploader struct {
	repo   Repository
	events Events
}

func NewUploader(repo Repository, events Events) *Uploader {
	return &Uploader{repo: repo, events: events}
}

// UploadWithValidation runs the full Validating → DuplicateChecking →
// Uploading → Complete sequence over one batch and returns a structured
// outcome; callers branch on Success rather than catching errors.
func (u *Uploader) UploadWithValidation(ctx context.Context, batch UploadBatch, userID string, opts UploadOptions) UploadOutcome {
	progress := opts.OnProgress
	if progress == nil {
		progress = func(string, int) {}
	}
	outcome := UploadOutcome{}

	progress("Validating", 0)
	if !opts.SkipValidation {
		validation, err := u.repo.ValidateTransactions(ctx, batch)
		if err != nil {
			log.Printf("[STMT-UPLOAD] validation check failed, proceeding anyway: %v", err)
		} else {
			outcome.Validation = validation
			if !validation.IsValid {
				log.Printf("[STMT-UPLOAD] validation reported %d issue(s), proceeding anyway", len(validation.ValidationErrors))
			}
		}
	}

	progress("Checking duplicates", 0)
	if !opts.SkipDuplicateCheck {
		dups, err := u.repo.CheckDuplicates(ctx, batch, userID)
		if err != nil {
			log.Printf("[STMT-UPLOAD] duplicate check failed, proceeding anyway: %v", err)
		} else {
			outcome.Duplicates = dups
			if dups.DuplicateCount > 0 {
				log.Printf("[STMT-UPLOAD] %d possible duplicate(s) flagged, proceeding", dups.DuplicateCount)
			}
		}
	}

	result := u.uploadChunks(ctx, batch, progress)
	outcome.Result = result
	outcome.Success = result.Status != StatusFailed
	if result.Status == StatusFailed && len(result.Errors) > 0 {
		outcome.Error = result.Errors[0].Message
	}

	if result.InsertedCount > 0 && u.events != nil {
		// Fire-and-forget: dependent views refresh on this signal, but a
		// failed emit must not change the outcome.
		u.events.UploadCompleted("statement_upload", result.InsertedCount)
	}
	progress("Complete", 100)
	return outcome
}

// uploadChunks splits the batch into ceil(n/ChunkSize) chunks and uploads
// them sequentially. Every record gets a locally generated ID before send so
// the identifier set is stable regardless of which chunks succeed. A failed
// chunk is recorded and the remaining chunks are still attempted.
func (u *Uploader) uploadChunks(ctx context.Context, batch UploadBatch, progress ProgressFunc) *UploadResult {
	n := len(batch.Transactions)
	chunkCount := (n + ChunkSize - 1) / ChunkSize
	result := &UploadResult{ChunkCount: chunkCount}

	if n == 0 {
		result.Status = StatusSuccess
		progress("Uploading", 100)
		return result
	}

	for i := 0; i < chunkCount; i++ {
		progress("Uploading", i*100/chunkCount)
		start := i * ChunkSize
		end := start + ChunkSize
		if end > n {
			end = n
		}
		chunk := make([]ParsedTransaction, end-start)
		copy(chunk, batch.Transactions[start:end])
		for j := range chunk {
			chunk[j].TransactionID = uuid.New().String()
		}

		ids, err := u.repo.InsertChunk(ctx, chunk)
		if err != nil {
			log.Printf("[STMT-UPLOAD] chunk %d/%d failed: %v", i+1, chunkCount, err)
			result.ErrorCount += len(chunk)
			result.Errors = append(result.Errors, ChunkError{
				ChunkIndex: i,
				Message:    friendlyDBError(err),
				Detail:     err.Error(),
			})
			continue
		}
		result.InsertedCount += len(ids)
		result.InsertedIDs = append(result.InsertedIDs, ids...)
	}
	progress("Uploading", 100)

	result.Status = classifyStatus(result.InsertedCount, result.ErrorCount)
	log.Printf("[STMT-UPLOAD] done: status=%s inserted=%d errors=%d chunks=%d",
		result.Status, result.InsertedCount, result.ErrorCount, result.ChunkCount)
	return result
}
