package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/service"
)

// InvoiceHandler handles invoice record endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Upload handles POST /api/v1/invoices. It accepts a multipart "file" part,
// stores it, and returns the new record in processing status while extraction
// runs in the background.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart 'file' field is required")
		return
	}
	defer file.Close()

	record, err := h.invoiceService.Upload(c.Request.Context(), service.UploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, record)
}

// List handles GET /api/v1/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	records, err := h.invoiceService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, records)
}

// GetByID handles GET /api/v1/invoices/:id.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Preview handles GET /api/v1/invoices/:id/preview. It returns a short-lived
// presigned URL for the original document.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	url, err := h.invoiceService.PreviewURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

type lineItemEditRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// EditLineItem handles PATCH /api/v1/invoices/:id/line-items/:index. The body
// names one field (description, quantity, unitPrice) and its new value;
// derived totals are recomputed.
func (h *InvoiceHandler) EditLineItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_LINE_ITEM_INDEX", "line item index must be an integer")
		return
	}

	var req lineItemEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	record, err := h.invoiceService.EditLineItem(c.Request.Context(), service.LineItemEditInput{
		RecordID: id,
		Index:    index,
		Field:    req.Field,
		Value:    req.Value,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

type taxEditRequest struct {
	Tax *float64 `json:"tax" binding:"required"`
}

// EditTax handles PATCH /api/v1/invoices/:id/tax.
func (h *InvoiceHandler) EditTax(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req taxEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	record, err := h.invoiceService.EditTax(c.Request.Context(), id, *req.Tax)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// ReplaceData handles PUT /api/v1/invoices/:id/data. The body is a full
// InvoiceData document; derived totals are renormalized before saving.
func (h *InvoiceHandler) ReplaceData(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var data domain.InvoiceData
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	record, err := h.invoiceService.ReplaceData(c.Request.Context(), id, data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record id")
		return uuid.Nil, false
	}
	return id, true
}
