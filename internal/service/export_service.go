package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"smartinvoice/internal/aggregate"
	"smartinvoice/internal/csvexport"
	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
	"smartinvoice/internal/xlsxexport"
)

// ExportService defines the invoice export contract. Both formats export the
// current snapshot of successfully extracted records, most recent first.
type ExportService interface {
	ExportCSV(ctx context.Context) ([]byte, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo port.RecordRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(repo port.RecordRepository) ExportService {
	return &exportService{repo: repo}
}

func (s *exportService) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)

	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteRecords(records); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *exportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := aggregate.Compute(records)
	if err != nil && !errors.Is(err, domain.ErrNoDashboardData) {
		return nil, err
	}

	f, err := xlsxexport.BuildWorkbook(records, stats)
	if err != nil {
		return nil, fmt.Errorf("building workbook: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
