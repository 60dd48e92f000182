package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportCSV(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
