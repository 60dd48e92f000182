package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
)

// MockInvoiceExtractor is a mock implementation of port.InvoiceExtractor.
type MockInvoiceExtractor struct {
	mock.Mock
}

func (m *MockInvoiceExtractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.InvoiceData, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceData), args.Error(1)
}
