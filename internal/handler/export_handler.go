package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartinvoice/internal/csvexport"
	"smartinvoice/internal/service"
	"smartinvoice/internal/xlsxexport"
)

// ExportHandler handles invoice export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// CSV handles GET /api/v1/export/csv.
func (h *ExportHandler) CSV(c *gin.Context) {
	payload, err := h.exportService.ExportCSV(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvexport.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// XLSX handles GET /api/v1/export/xlsx.
func (h *ExportHandler) XLSX(c *gin.Context) {
	payload, err := h.exportService.ExportXLSX(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsxexport.Filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
