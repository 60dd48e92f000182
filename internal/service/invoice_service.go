package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartinvoice/internal/config"
	"smartinvoice/internal/domain"
	"smartinvoice/internal/extract"
	"smartinvoice/internal/port"
	"smartinvoice/internal/recalc"
)

// extractFailedMessage is the only extraction failure text users ever see;
// the underlying cause goes to the log.
const extractFailedMessage = "Failed to extract data."

const defaultExtractTimeout = 5 * time.Minute

// UploadInput is the DTO for invoice upload requests.
type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// LineItemEditInput is the DTO for single-field line item edits.
type LineItemEditInput struct {
	RecordID uuid.UUID
	Index    int
	Field    string
	Value    any
}

// InvoiceService defines the invoice record management contract.
type InvoiceService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.InvoiceRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error)
	List(ctx context.Context) ([]domain.InvoiceRecord, error)
	PreviewURL(ctx context.Context, id uuid.UUID) (string, error)
	EditLineItem(ctx context.Context, input LineItemEditInput) (*domain.InvoiceRecord, error)
	EditTax(ctx context.Context, id uuid.UUID, tax float64) (*domain.InvoiceRecord, error)
	ReplaceData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error)
}

type invoiceService struct {
	repo       port.RecordRepository
	storage    port.ObjectStorage
	extractor  port.InvoiceExtractor
	s3Cfg      *config.S3Config
	extractCfg *config.ExtractConfig
}

// NewInvoiceService creates a new InvoiceService implementation. A nil
// extractor is allowed; uploads then settle immediately as errors so the
// server stays usable without an API key.
func NewInvoiceService(
	repo port.RecordRepository,
	storage port.ObjectStorage,
	extractor port.InvoiceExtractor,
	s3Cfg *config.S3Config,
	extractCfg *config.ExtractConfig,
) InvoiceService {
	return &invoiceService{
		repo:       repo,
		storage:    storage,
		extractor:  extractor,
		s3Cfg:      s3Cfg,
		extractCfg: extractCfg,
	}
}

func (s *invoiceService) Upload(ctx context.Context, input UploadInput) (*domain.InvoiceRecord, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	// Seek back to beginning for upload
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	recordID := uuid.New()
	s3Key := fmt.Sprintf("invoices/%s/%s", recordID, input.Header.Filename)
	contentType := domain.AllowedFileTypes[fileType]

	log.Printf("invoiceService.Upload: uploading %s (%s, %d bytes) as record %s",
		input.Header.Filename, contentType, input.Header.Size, recordID)

	// Upload to S3 before creating the record: a storage failure surfaces as
	// an immediate error instead of a record stuck in processing.
	_, err = s.storage.Upload(ctx, port.DocumentUpload{
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("invoiceService.Upload: S3 upload failed for record %s: %v", recordID, err)
		return nil, domain.ErrUploadFailed
	}

	record := &domain.InvoiceRecord{
		ID:          recordID,
		FileName:    input.Header.Filename,
		FileRef:     s3Key,
		ContentType: contentType,
		FileSize:    input.Header.Size,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// The document is already in storage but will never get a record;
		// remove it so failed uploads leave nothing behind.
		if delErr := s.storage.Delete(ctx, s3Key); delErr != nil {
			log.Printf("invoiceService.Upload: failed to remove orphaned document %s: %v", s3Key, delErr)
		}
		return nil, fmt.Errorf("creating invoice record: %w", err)
	}

	go s.extractInBackground(record.ID)

	return record, nil
}

// extractInBackground runs extraction for a freshly uploaded record and
// settles it exactly once. It uses a fresh context so extraction survives the
// upload request's cancellation.
func (s *invoiceService) extractInBackground(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), s.extractTimeout())
	defer cancel()

	log.Printf("invoiceService.extractInBackground: starting extraction for record %s", id)

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("invoiceService.extractInBackground: failed to get record %s: %v", id, err)
		return
	}

	if s.extractor == nil {
		s.failExtraction(id, "no extraction provider configured", nil)
		return
	}

	fileBytes, err := s.storage.Download(ctx, record.FileRef)
	if err != nil {
		s.failExtraction(id, extractFailedMessage, fmt.Errorf("downloading file: %w", err))
		return
	}

	data, err := s.extractWithRetry(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: record.ContentType,
	})
	if err != nil {
		s.failExtraction(id, extractFailedMessage, err)
		return
	}

	// Re-derive subtotal and grand total so stored data always satisfies the
	// recalculation invariant, whatever the model returned.
	normalized := recalc.Normalize(*data)

	if _, err := s.repo.MarkSuccess(ctx, id, normalized); err != nil {
		log.Printf("invoiceService.extractInBackground: failed to save results for %s: %v", id, err)
		return
	}
	log.Printf("invoiceService.extractInBackground: record %s extracted successfully", id)
}

// extractWithRetry calls the extractor, waiting out rate limits up to the
// configured retry budget. The record stays in processing for the whole
// attempt sequence.
func (s *invoiceService) extractWithRetry(ctx context.Context, input port.ExtractInput) (*domain.InvoiceData, error) {
	maxRetries := s.extractCfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		data, err := s.extractor.Extract(ctx, input)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var rlErr *extract.RateLimitError
		if !errors.As(err, &rlErr) || attempt == maxRetries {
			break
		}

		log.Printf("invoiceService.extractWithRetry: %s rate limited, retrying in %s (attempt %d/%d)",
			rlErr.Provider, rlErr.RetryAfter, attempt+1, maxRetries)
		select {
		case <-time.After(rlErr.RetryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// extractTimeout bounds the whole background extraction, rate-limit waits
// included, from extract.timeout_secs.
func (s *invoiceService) extractTimeout() time.Duration {
	if s.extractCfg.TimeoutSecs > 0 {
		return time.Duration(s.extractCfg.TimeoutSecs) * time.Second
	}
	return defaultExtractTimeout
}

// failExtraction settles a processing record as an error with the given
// user-facing message; the underlying cause is only logged. A record that
// already settled is left alone. Settlement uses its own context so it still
// goes through when the extraction deadline is what failed.
func (s *invoiceService) failExtraction(id uuid.UUID, message string, cause error) {
	if cause != nil {
		log.Printf("invoiceService.failExtraction: record %s: %v", id, cause)
	} else {
		log.Printf("invoiceService.failExtraction: record %s: %s", id, message)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.repo.MarkError(ctx, id, message); err != nil {
		log.Printf("invoiceService.failExtraction: failed to mark record %s: %v", id, err)
	}
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	return s.repo.List(ctx)
}

func (s *invoiceService) PreviewURL(ctx context.Context, id uuid.UUID) (string, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	expiry := time.Duration(s.s3Cfg.PresignExpiry) * time.Second
	return s.storage.PresignGetURL(ctx, record.FileRef, expiry)
}

func (s *invoiceService) EditLineItem(ctx context.Context, input LineItemEditInput) (*domain.InvoiceRecord, error) {
	record, err := s.repo.GetByID(ctx, input.RecordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.RecordStatusSuccess || record.Data == nil {
		return nil, domain.ErrRecordNotEditable
	}

	updated, err := recalc.ApplyLineItemEdit(*record.Data, input.Index, input.Field, input.Value)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateData(ctx, input.RecordID, updated)
}

func (s *invoiceService) EditTax(ctx context.Context, id uuid.UUID, tax float64) (*domain.InvoiceRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.RecordStatusSuccess || record.Data == nil {
		return nil, domain.ErrRecordNotEditable
	}

	updated, err := recalc.ApplyTaxEdit(*record.Data, tax)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateData(ctx, id, updated)
}

func (s *invoiceService) ReplaceData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	if !domain.ValidCategory(data.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInvoiceData, data.Category)
	}
	if data.ConfidenceLevel != "" && !domain.ValidConfidence(data.ConfidenceLevel) {
		return nil, fmt.Errorf("%w: unknown confidence level %q", domain.ErrInvalidInvoiceData, data.ConfidenceLevel)
	}
	if data.Subtotal < 0 || data.Tax < 0 || data.TotalAmount < 0 {
		return nil, domain.ErrNegativeAmount
	}
	for _, item := range data.LineItems {
		if item.Quantity < 0 || item.UnitPrice < 0 || item.Total < 0 {
			return nil, domain.ErrNegativeAmount
		}
	}

	normalized := recalc.Normalize(data)
	return s.repo.UpdateData(ctx, id, normalized)
}
