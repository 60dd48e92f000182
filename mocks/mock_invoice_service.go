package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Upload(ctx context.Context, input service.UploadInput) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) PreviewURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceService) EditLineItem(ctx context.Context, input service.LineItemEditInput) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) EditTax(ctx context.Context, id uuid.UUID, tax float64) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id, tax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) ReplaceData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}
