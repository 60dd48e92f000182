package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrRecordNotProcessing  = errors.New("record has already settled")
	ErrRecordNotEditable    = errors.New("record has no extracted data to edit")
	ErrInvalidLineItemIndex = errors.New("line item index out of range")
	ErrInvalidLineItemField = errors.New("unknown line item field")
	ErrInvalidFieldValue    = errors.New("invalid value for field")
	ErrNegativeAmount       = errors.New("monetary amount must be non-negative")
	ErrInvalidInvoiceData   = errors.New("invoice data does not match expected format")
	ErrExtractionFailed     = errors.New("failed to extract data from document")
	ErrNoDashboardData      = errors.New("no successfully extracted invoices yet")
)
