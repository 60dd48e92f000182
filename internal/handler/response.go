package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartinvoice/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrRecordNotProcessing):
		return http.StatusConflict, "RECORD_ALREADY_SETTLED", "record has already settled"
	case errors.Is(err, domain.ErrRecordNotEditable):
		return http.StatusConflict, "RECORD_NOT_EDITABLE", "record has no extracted data to edit"
	case errors.Is(err, domain.ErrInvalidLineItemIndex):
		return http.StatusBadRequest, "INVALID_LINE_ITEM_INDEX", "line item index out of range"
	case errors.Is(err, domain.ErrInvalidLineItemField):
		return http.StatusBadRequest, "INVALID_LINE_ITEM_FIELD", "unknown line item field; allowed: description, quantity, unitPrice"
	case errors.Is(err, domain.ErrInvalidFieldValue):
		return http.StatusBadRequest, "INVALID_FIELD_VALUE", "invalid value for field"
	case errors.Is(err, domain.ErrNegativeAmount):
		return http.StatusBadRequest, "NEGATIVE_AMOUNT", "monetary amount must be non-negative"
	case errors.Is(err, domain.ErrInvalidInvoiceData):
		return http.StatusBadRequest, "INVALID_INVOICE_DATA", "invoice data does not match expected format"
	case errors.Is(err, domain.ErrNoDashboardData):
		return http.StatusNotFound, "NO_DASHBOARD_DATA", "no successfully extracted invoices yet"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
