package statement

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Stager is the slice of the repository the file-upload handler needs for
// raw-row staging.
type Stager interface {
	StageRawRows(ctx context.Context, batchID, userID string, rows [][]string) error
}

func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// readStatementFile turns an uploaded file into raw rows. CSV/TXT are read
// as-is; Excel files are flattened to rows so the same column mapper applies.
func readStatementFile(file multipart.File, ext string) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".csv", ".txt":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		rows := wb.ReadAllCells(20000)
		if len(rows) == 0 {
			return nil, errors.New("xls file has no rows")
		}
		return rows, nil
	}
	return nil, errors.New("unsupported file type " + ext)
}

// rowsToContent re-encodes rows as delimited text so Excel uploads flow
// through the same detector/mapper/parser as plain CSV.
func rowsToContent(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, cellVal := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			if strings.ContainsAny(cellVal, ",\"\n") {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(cellVal, `"`, `""`))
				b.WriteByte('"')
			} else {
				b.WriteString(cellVal)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

// logProgress is the default progress sink for HTTP uploads; the structured
// result in the response carries the final counts.
func logProgress(stage string, percent int) {
	log.Printf("[STMT-UPLOAD] %s: %d%%", stage, percent)
}

// UploadStatementFileHandler ingests one or more statement files for an
// account: stage raw rows, parse, then run the validated chunked upload.
// Per-file failures land in that file's result entry; files already uploaded
// keep their outcomes.
func UploadStatementFileHandler(repo Stager, up *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse multipart form")
			return
		}
		userID := r.FormValue("user_id")
		accountID := r.FormValue("account_id")
		if userID == "" || accountID == "" {
			writeError(w, http.StatusBadRequest, "user_id and account_id are required")
			return
		}
		skipValidation := r.FormValue("skip_validation") == "true"
		skipDupCheck := r.FormValue("skip_duplicate_check") == "true"

		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			writeError(w, http.StatusBadRequest, "no files uploaded")
			return
		}

		results := make([]map[string]interface{}, 0, len(files))
		for _, fh := range files {
			entry := map[string]interface{}{"file": fh.Filename}
			results = append(results, entry)

			file, err := fh.Open()
			if err != nil {
				entry["error"] = "failed to open file"
				continue
			}
			rows, err := readStatementFile(file, getFileExt(fh.Filename))
			file.Close()
			if err != nil || len(rows) < 2 {
				entry["error"] = "invalid or empty file"
				continue
			}

			batchID := uuid.New().String()
			if err := repo.StageRawRows(ctx, batchID, userID, rows); err != nil {
				// Staging is replay insurance, not a gate.
				log.Printf("[STMT-UPLOAD] staging failed for %s: %v", fh.Filename, err)
			}

			txns, err := ParseDelimitedStatement(rowsToContent(rows), accountID, userID)
			if err != nil {
				entry["error"] = err.Error()
				continue
			}

			batch := UploadBatch{Transactions: txns, AccountID: accountID, UserID: userID}
			outcome := up.UploadWithValidation(ctx, batch, userID, UploadOptions{
				SkipValidation:     skipValidation,
				SkipDuplicateCheck: skipDupCheck,
				OnProgress:         logProgress,
			})
			entry["upload_batch_id"] = batchID
			entry["parsed_count"] = len(txns)
			entry["outcome"] = outcome
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "uploads": results})
	}
}

// UploadStatementTextHandler ingests pasted/OCR statement text through the
// freeform line parser, then the same upload pipeline.
func UploadStatementTextHandler(up *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID             string `json:"user_id"`
			AccountID          string `json:"account_id"`
			Text               string `json:"text"`
			SkipValidation     bool   `json:"skip_validation"`
			SkipDuplicateCheck bool   `json:"skip_duplicate_check"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.AccountID == "" || strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "user_id, account_id and text are required")
			return
		}

		txns, err := ParseFreeformStatementText(req.Text, req.AccountID, req.UserID)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		batch := UploadBatch{Transactions: txns, AccountID: req.AccountID, UserID: req.UserID}
		outcome := up.UploadWithValidation(ctx, batch, req.UserID, UploadOptions{
			SkipValidation:     req.SkipValidation,
			SkipDuplicateCheck: req.SkipDuplicateCheck,
			OnProgress:         logProgress,
		})
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"parsed_count": len(txns),
			"outcome":      outcome,
		})
	}
}

// RecentUploadsHandler lists the caller's recent upload batches.
func RecentUploadsHandler(repo *PgxRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID string `json:"user_id"`
			Limit  int    `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		batches, err := repo.RecentBatches(ctx, req.UserID, req.Limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": batches})
	}
}
