package statement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	validateResult *ValidationResult
	validateErr    error
	dupResult      *DuplicateCheckResult
	dupErr         error
	insertErrOn    map[int]error // chunk index -> error
	insertCalls    int
	insertedSizes  []int
}

func (f *fakeRepo) ValidateTransactions(ctx context.Context, batch UploadBatch) (*ValidationResult, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.validateResult != nil {
		return f.validateResult, nil
	}
	return &ValidationResult{IsValid: true, TotalCount: len(batch.Transactions)}, nil
}

func (f *fakeRepo) CheckDuplicates(ctx context.Context, batch UploadBatch, userID string) (*DuplicateCheckResult, error) {
	if f.dupErr != nil {
		return nil, f.dupErr
	}
	if f.dupResult != nil {
		return f.dupResult, nil
	}
	return &DuplicateCheckResult{}, nil
}

func (f *fakeRepo) InsertChunk(ctx context.Context, records []ParsedTransaction) ([]string, error) {
	idx := f.insertCalls
	f.insertCalls++
	f.insertedSizes = append(f.insertedSizes, len(records))
	if err, ok := f.insertErrOn[idx]; ok {
		return nil, err
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.TransactionID
	}
	return ids, nil
}

type fakeEvents struct {
	tags   []string
	counts []int
}

func (f *fakeEvents) UploadCompleted(tag string, count int) {
	f.tags = append(f.tags, tag)
	f.counts = append(f.counts, count)
}

func makeBatch(n int) UploadBatch {
	txns := make([]ParsedTransaction, n)
	for i := range txns {
		txns[i] = ParsedTransaction{
			UserID:    "user-1",
			AccountID: "acc-1",
			Name:      fmt.Sprintf("txn %d", i),
			Amount:    100,
			Date:      "2024-02-01",
			Direction: DirectionExpense,
		}
	}
	return UploadBatch{Transactions: txns, AccountID: "acc-1", UserID: "user-1"}
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, classifyStatus(120, 0))
	assert.Equal(t, StatusSuccess, classifyStatus(0, 0))
	assert.Equal(t, StatusPartialSuccess, classifyStatus(50, 50))
	assert.Equal(t, StatusFailed, classifyStatus(0, 50))
}

func TestUploadChunking(t *testing.T) {
	tests := []struct {
		records    int
		wantChunks int
		wantSizes  []int
	}{
		{1, 1, []int{1}},
		{50, 1, []int{50}},
		{51, 2, []int{50, 1}},
		{125, 3, []int{50, 50, 25}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d records", tt.records), func(t *testing.T) {
			repo := &fakeRepo{}
			up := NewUploader(repo, nil)
			outcome := up.UploadWithValidation(context.Background(), makeBatch(tt.records), "user-1", UploadOptions{})

			require.True(t, outcome.Success)
			assert.Equal(t, StatusSuccess, outcome.Result.Status)
			assert.Equal(t, tt.wantChunks, outcome.Result.ChunkCount)
			assert.Equal(t, tt.wantSizes, repo.insertedSizes)
			assert.Equal(t, tt.records, outcome.Result.InsertedCount)
			assert.Len(t, outcome.Result.InsertedIDs, tt.records)
		})
	}
}

func TestUploadEmptyBatch(t *testing.T) {
	repo := &fakeRepo{}
	events := &fakeEvents{}
	up := NewUploader(repo, events)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(0), "user-1", UploadOptions{})

	assert.True(t, outcome.Success)
	assert.Equal(t, StatusSuccess, outcome.Result.Status)
	assert.Zero(t, repo.insertCalls)
	assert.Empty(t, events.tags, "no completion event for an empty batch")
}

func TestUploadPartialFailureContinues(t *testing.T) {
	repo := &fakeRepo{insertErrOn: map[int]error{1: errors.New("insert exploded")}}
	up := NewUploader(repo, nil)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(125), "user-1", UploadOptions{})

	assert.True(t, outcome.Success, "partial success still counts as success")
	assert.Equal(t, StatusPartialSuccess, outcome.Result.Status)
	assert.Equal(t, 3, repo.insertCalls, "failed chunk must not stop the rest")
	assert.Equal(t, 75, outcome.Result.InsertedCount)
	assert.Equal(t, 50, outcome.Result.ErrorCount)
	require.Len(t, outcome.Result.Errors, 1)
	assert.Equal(t, 1, outcome.Result.Errors[0].ChunkIndex)
	assert.Empty(t, outcome.Error, "partial success is not a caller-facing failure")
}

func TestUploadTotalFailure(t *testing.T) {
	repo := &fakeRepo{insertErrOn: map[int]error{0: errors.New("down"), 1: errors.New("down")}}
	events := &fakeEvents{}
	up := NewUploader(repo, events)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(60), "user-1", UploadOptions{})

	assert.False(t, outcome.Success)
	assert.Equal(t, StatusFailed, outcome.Result.Status)
	assert.Equal(t, 60, outcome.Result.ErrorCount)
	assert.NotEmpty(t, outcome.Error, "total failure must carry a caller-facing error")
	assert.Empty(t, events.tags, "no completion event when nothing was inserted")
}

// Validation and duplicate checks are advisory: their failures are logged and
// the upload proceeds.
func TestUploadAdvisoryChecksNeverBlock(t *testing.T) {
	repo := &fakeRepo{
		validateErr: errors.New("validator down"),
		dupErr:      errors.New("dup checker down"),
	}
	up := NewUploader(repo, nil)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(3), "user-1", UploadOptions{})

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.Result.InsertedCount)
	assert.Nil(t, outcome.Validation)
	assert.Nil(t, outcome.Duplicates)
}

func TestUploadInvalidBatchStillProceeds(t *testing.T) {
	repo := &fakeRepo{
		validateResult: &ValidationResult{IsValid: false, TotalCount: 3, ValidationErrors: []string{"record 1: amount missing"}},
		dupResult:      &DuplicateCheckResult{DuplicateCount: 1, Duplicates: []DuplicateMatch{{TransactionID: "t-1"}}},
	}
	up := NewUploader(repo, nil)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(3), "user-1", UploadOptions{})

	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Validation)
	assert.False(t, outcome.Validation.IsValid)
	require.NotNil(t, outcome.Duplicates)
	assert.Equal(t, 1, outcome.Duplicates.DuplicateCount)
	assert.Equal(t, 3, outcome.Result.InsertedCount)
}

func TestUploadSkipFlags(t *testing.T) {
	repo := &fakeRepo{
		validateErr: errors.New("should not be called"),
		dupErr:      errors.New("should not be called"),
	}
	up := NewUploader(repo, nil)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(2), "user-1", UploadOptions{
		SkipValidation:     true,
		SkipDuplicateCheck: true,
	})

	assert.True(t, outcome.Success)
	assert.Nil(t, outcome.Validation)
	assert.Nil(t, outcome.Duplicates)
}

func TestUploadProgressSequence(t *testing.T) {
	repo := &fakeRepo{}
	up := NewUploader(repo, nil)

	type step struct {
		stage   string
		percent int
	}
	var steps []step
	up.UploadWithValidation(context.Background(), makeBatch(125), "user-1", UploadOptions{
		OnProgress: func(stage string, percent int) {
			steps = append(steps, step{stage, percent})
		},
	})

	want := []step{
		{"Validating", 0},
		{"Checking duplicates", 0},
		{"Uploading", 0},
		{"Uploading", 33},
		{"Uploading", 66},
		{"Uploading", 100},
		{"Complete", 100},
	}
	assert.Equal(t, want, steps)
}

func TestUploadEmitsCompletionEvent(t *testing.T) {
	repo := &fakeRepo{}
	events := &fakeEvents{}
	up := NewUploader(repo, events)
	up.UploadWithValidation(context.Background(), makeBatch(7), "user-1", UploadOptions{})

	require.Len(t, events.tags, 1)
	assert.Equal(t, "statement_upload", events.tags[0])
	assert.Equal(t, 7, events.counts[0])
}

func TestUploadAssignsUniqueIDs(t *testing.T) {
	repo := &fakeRepo{}
	up := NewUploader(repo, nil)
	outcome := up.UploadWithValidation(context.Background(), makeBatch(60), "user-1", UploadOptions{})

	seen := map[string]bool{}
	for _, id := range outcome.Result.InsertedIDs {
		assert.False(t, seen[id], "duplicate generated id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 60)
}
