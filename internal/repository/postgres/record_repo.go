package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordRepository. Extracted
// invoice data lives in a JSONB column so the record row stays a single
// atomic unit of replacement.
func NewRecordRepo(db *sqlx.DB) port.RecordRepository {
	return &recordRepo{db: db}
}

// recordRow is the scan target for invoice_records. The data column is raw
// JSONB, unmarshaled at the repo boundary.
type recordRow struct {
	ID           uuid.UUID           `db:"id"`
	FileName     string              `db:"file_name"`
	FileRef      string              `db:"file_ref"`
	ContentType  string              `db:"content_type"`
	FileSize     int64               `db:"file_size"`
	Status       domain.RecordStatus `db:"status"`
	Data         []byte              `db:"data"`
	ErrorMessage sql.NullString      `db:"error_message"`
	UploadedAt   time.Time           `db:"uploaded_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

func (row *recordRow) toDomain() (*domain.InvoiceRecord, error) {
	rec := &domain.InvoiceRecord{
		ID:           row.ID,
		FileName:     row.FileName,
		FileRef:      row.FileRef,
		ContentType:  row.ContentType,
		FileSize:     row.FileSize,
		Status:       row.Status,
		ErrorMessage: row.ErrorMessage.String,
		UploadedAt:   row.UploadedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.Data) > 0 {
		var data domain.InvoiceData
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, fmt.Errorf("unmarshaling invoice data for record %s: %w", row.ID, err)
		}
		rec.Data = &data
	}
	return rec, nil
}

func (r *recordRepo) Create(ctx context.Context, record *domain.InvoiceRecord) error {
	now := time.Now().UTC()
	record.UploadedAt = now
	record.UpdatedAt = now
	record.Status = domain.RecordStatusProcessing

	query := `INSERT INTO invoice_records (
		id, file_name, file_ref, content_type, file_size,
		status, data, error_message, uploaded_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, NULL, NULL, $7, $8
	)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.FileName, record.FileRef, record.ContentType, record.FileSize,
		record.Status, record.UploadedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	var row recordRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM invoice_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *recordRepo) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	var rows []recordRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM invoice_records ORDER BY uploaded_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("recordRepo.List: %w", err)
	}

	records := make([]domain.InvoiceRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *recordRepo) MarkSuccess(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.MarkSuccess marshal: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE invoice_records SET
			status = $1, data = $2, error_message = NULL, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		domain.RecordStatusSuccess, payload, time.Now().UTC(), id, domain.RecordStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.MarkSuccess: %w", err)
	}
	if err := r.guardSettled(ctx, result, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *recordRepo) MarkError(ctx context.Context, id uuid.UUID, message string) (*domain.InvoiceRecord, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoice_records SET
			status = $1, data = NULL, error_message = $2, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		domain.RecordStatusError, message, time.Now().UTC(), id, domain.RecordStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.MarkError: %w", err)
	}
	if err := r.guardSettled(ctx, result, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *recordRepo) UpdateData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateData marshal: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE invoice_records SET data = $1, updated_at = $2
		 WHERE id = $3 AND status = $4`,
		payload, time.Now().UTC(), id, domain.RecordStatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.UpdateData: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrRecordNotEditable
	}
	return r.GetByID(ctx, id)
}

// guardSettled distinguishes a missing record from one that already settled
// when a status-guarded update matched no rows.
func (r *recordRepo) guardSettled(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrRecordNotProcessing
}
