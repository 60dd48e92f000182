package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
	"smartinvoice/internal/store"
)

func newRecord(fileName string) *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ID:          uuid.New(),
		FileName:    fileName,
		FileRef:     "invoices/" + fileName,
		ContentType: "application/pdf",
		FileSize:    1024,
	}
}

func sampleData() domain.InvoiceData {
	return domain.InvoiceData{
		VendorName:  "Acme Corp",
		Date:        "2024-03-15",
		Subtotal:    25.50,
		Tax:         2.00,
		TotalAmount: 27.50,
		Category:    domain.CategoryOfficeSupplies,
		LineItems: []domain.LineItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 10.00, Total: 20.00},
		},
		ConfidenceLevel: domain.ConfidenceHigh,
	}
}

func TestCreate_SetsProcessingAndTimestamps(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")

	require.NoError(t, repo.Create(context.Background(), record))

	got, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusProcessing, got.Status)
	assert.False(t, got.UploadedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
	assert.Nil(t, got.Data)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := store.NewMemoryRepo()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_MostRecentFirst(t *testing.T) {
	repo := store.NewMemoryRepo()
	first := newRecord("first.pdf")
	second := newRecord("second.pdf")
	third := newRecord("third.pdf")

	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))
	require.NoError(t, repo.Create(context.Background(), third))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, third.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, first.ID, records[2].ID)
}

func TestMarkSuccess(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))

	got, err := repo.MarkSuccess(context.Background(), record.ID, sampleData())
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusSuccess, got.Status)
	require.NotNil(t, got.Data)
	assert.Equal(t, "Acme Corp", got.Data.VendorName)
	assert.Empty(t, got.ErrorMessage)
}

func TestMarkError(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))

	got, err := repo.MarkError(context.Background(), record.ID, "extraction timed out")
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusError, got.Status)
	assert.Equal(t, "extraction timed out", got.ErrorMessage)
	assert.Nil(t, got.Data)
}

func TestSettlementIsOneShot(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))

	_, err := repo.MarkSuccess(context.Background(), record.ID, sampleData())
	require.NoError(t, err)

	_, err = repo.MarkSuccess(context.Background(), record.ID, sampleData())
	assert.ErrorIs(t, err, domain.ErrRecordNotProcessing)
	_, err = repo.MarkError(context.Background(), record.ID, "late failure")
	assert.ErrorIs(t, err, domain.ErrRecordNotProcessing)

	// Record keeps its first settlement
	got, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusSuccess, got.Status)
}

func TestUpdateData_RequiresSuccess(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))

	_, err := repo.UpdateData(context.Background(), record.ID, sampleData())
	assert.ErrorIs(t, err, domain.ErrRecordNotEditable)

	_, err = repo.MarkError(context.Background(), record.ID, "boom")
	require.NoError(t, err)
	_, err = repo.UpdateData(context.Background(), record.ID, sampleData())
	assert.ErrorIs(t, err, domain.ErrRecordNotEditable)
}

func TestUpdateData_ReplacesWholeSnapshot(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))
	_, err := repo.MarkSuccess(context.Background(), record.ID, sampleData())
	require.NoError(t, err)

	updated := sampleData()
	updated.VendorName = "New Vendor"
	updated.LineItems = nil

	got, err := repo.UpdateData(context.Background(), record.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, "New Vendor", got.Data.VendorName)
	assert.Empty(t, got.Data.LineItems)
}

func TestUpdateData_UnknownID(t *testing.T) {
	repo := store.NewMemoryRepo()

	_, err := repo.UpdateData(context.Background(), uuid.New(), sampleData())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCopyIsolation(t *testing.T) {
	repo := store.NewMemoryRepo()
	record := newRecord("a.pdf")
	require.NoError(t, repo.Create(context.Background(), record))
	_, err := repo.MarkSuccess(context.Background(), record.ID, sampleData())
	require.NoError(t, err)

	// Mutating a returned record must not leak into the store
	got, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	got.Data.VendorName = "Tampered"
	got.Data.LineItems[0].Total = 9999

	fresh, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", fresh.Data.VendorName)
	assert.Equal(t, 20.00, fresh.Data.LineItems[0].Total)
}

func TestConcurrentSettlement(t *testing.T) {
	repo := store.NewMemoryRepo()

	ids := make([]uuid.UUID, 20)
	for i := range ids {
		record := newRecord("f.pdf")
		require.NoError(t, repo.Create(context.Background(), record))
		ids[i] = record.ID
	}

	done := make(chan struct{})
	for _, id := range ids {
		go func(id uuid.UUID) {
			defer func() { done <- struct{}{} }()
			_, _ = repo.MarkSuccess(context.Background(), id, sampleData())
		}(id)
		go func(id uuid.UUID) {
			defer func() { done <- struct{}{} }()
			_, _ = repo.MarkError(context.Background(), id, "raced")
		}(id)
	}
	for i := 0; i < len(ids)*2; i++ {
		<-done
	}

	// Every record settled exactly once, one way or the other
	records, err := repo.List(context.Background())
	require.NoError(t, err)
	for _, record := range records {
		assert.NotEqual(t, domain.RecordStatusProcessing, record.Status)
		if record.Status == domain.RecordStatusSuccess {
			assert.NotNil(t, record.Data)
			assert.Empty(t, record.ErrorMessage)
		} else {
			assert.Nil(t, record.Data)
			assert.NotEmpty(t, record.ErrorMessage)
		}
	}
}

var _ port.RecordRepository = store.NewMemoryRepo()
