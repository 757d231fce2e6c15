package statement

import "time"

// Direction says which way a transaction moves money relative to the
// statement's own account. The parser only ever emits DirectionIncome or
// DirectionExpense; the remaining values exist because the transactions table
// stores manually-entered records with the same column.
type Direction string

const (
	DirectionIncome         Direction = "income"
	DirectionExpense        Direction = "expense"
	DirectionTransfer       Direction = "transfer"
	DirectionLoan           Direction = "loan"
	DirectionLoanRepayment  Direction = "loan_repayment"
	DirectionDebt           Direction = "debt"
	DirectionDebtCollection Direction = "debt_collection"
)

// AccountType is the closed set of account classifications the persistence
// layer accepts. Source account type is NOT NULL in the transactions table,
// so normalization never returns an empty value.
type AccountType string

const (
	AccountTypeBank          AccountType = "bank"
	AccountTypeCreditCard    AccountType = "credit_card"
	AccountTypeCash          AccountType = "cash"
	AccountTypeDigitalWallet AccountType = "digital_wallet"
	AccountTypeInvestment    AccountType = "investment"
	AccountTypeOther         AccountType = "other"
)

// NormalizeAccountType collapses unrecognized values to the given fallback.
func NormalizeAccountType(raw string, fallback AccountType) AccountType {
	switch AccountType(raw) {
	case AccountTypeBank, AccountTypeCreditCard, AccountTypeCash,
		AccountTypeDigitalWallet, AccountTypeInvestment, AccountTypeOther:
		return AccountType(raw)
	}
	return fallback
}

// ParsedTransaction is the normalized record produced per statement row.
// Category fields stay empty here; categorization runs after upload.
type ParsedTransaction struct {
	TransactionID      string      `json:"transaction_id,omitempty"`
	UserID             string      `json:"user_id"`
	AccountID          string      `json:"account_id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Amount             float64     `json:"amount"`
	Date               string      `json:"date"`
	Direction          Direction   `json:"direction"`
	SourceAccountType  AccountType `json:"source_account_type"`
	SourceAccountID    string      `json:"source_account_id,omitempty"`
	SourceAccountName  string      `json:"source_account_name,omitempty"`
	DestAccountType    AccountType `json:"destination_account_type,omitempty"`
	DestAccountID      string      `json:"destination_account_id,omitempty"`
	DestAccountName    string      `json:"destination_account_name,omitempty"`
	MerchantName       string      `json:"merchant_name,omitempty"`
	CategoryID         string      `json:"category_id,omitempty"`
	CategoryName       string      `json:"category_name,omitempty"`
}

// UploadBatch is the full output of one parse run, headed for upload.
type UploadBatch struct {
	Transactions []ParsedTransaction `json:"transactions"`
	AccountID    string              `json:"account_id"`
	UserID       string              `json:"user_id"`
}

// ValidationResult is the advisory output of the remote validator.
type ValidationResult struct {
	IsValid          bool     `json:"is_valid"`
	TotalCount       int      `json:"total_count"`
	ValidationErrors []string `json:"validation_errors"`
}

// DuplicateMatch describes one suspected duplicate of an incoming record.
type DuplicateMatch struct {
	TransactionID string    `json:"transaction_id"`
	Date          string    `json:"date"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	SeenAt        time.Time `json:"seen_at"`
}

// DuplicateCheckResult is the advisory output of the duplicate check.
type DuplicateCheckResult struct {
	DuplicateCount int              `json:"duplicate_count"`
	Duplicates     []DuplicateMatch `json:"duplicates"`
}

// UploadStatus classifies the aggregate outcome of a chunked upload.
type UploadStatus string

const (
	StatusSuccess        UploadStatus = "SUCCESS"
	StatusPartialSuccess UploadStatus = "PARTIAL_SUCCESS"
	StatusFailed         UploadStatus = "FAILED"
)

// classifyStatus is a pure function of the two counts; no other signal is
// consulted.
func classifyStatus(inserted, errored int) UploadStatus {
	switch {
	case errored == 0:
		return StatusSuccess
	case inserted > 0:
		return StatusPartialSuccess
	default:
		return StatusFailed
	}
}

// ChunkError records one failed chunk without aborting the rest.
type ChunkError struct {
	ChunkIndex int    `json:"chunk_index"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// UploadResult aggregates per-chunk outcomes. It is never mutated after the
// orchestrator returns it.
type UploadResult struct {
	Status        UploadStatus `json:"status"`
	InsertedCount int          `json:"inserted_count"`
	ErrorCount    int          `json:"error_count"`
	ChunkCount    int          `json:"chunk_count"`
	InsertedIDs   []string     `json:"inserted_ids,omitempty"`
	Errors        []ChunkError `json:"errors,omitempty"`
}

// ProgressFunc receives a stage label and a percentage in [0,100]. It is
// called at least once per chunk plus once at 0% and once at 100%.
type ProgressFunc func(stage string, percent int)

// UploadOutcome is what callers branch on; a total upload failure is a
// structured result, not an error.
type UploadOutcome struct {
	Success    bool                  `json:"success"`
	Result     *UploadResult         `json:"result,omitempty"`
	Validation *ValidationResult     `json:"validation,omitempty"`
	Duplicates *DuplicateCheckResult `json:"duplicates,omitempty"`
	Error      string                `json:"error,omitempty"`
}
