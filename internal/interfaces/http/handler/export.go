package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	exportapp "github.com/fruitflow/backend/internal/application/export"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExportHandler handles bill export and print endpoints
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.ExportService
	printService  *exportapp.PrintService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.ExportService, printService *exportapp.PrintService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		printService:  printService,
	}
}

// BillsCSV streams filtered bills as a CSV download
func (h *ExportHandler) BillsCSV(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter exportapp.BillExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	data, err := h.exportService.BillsCSV(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", attachmentName("bills", "csv"))
	c.Data(http.StatusOK, contentTypeCSV, data)
}

// BillsXLSX streams filtered bills as a spreadsheet download
func (h *ExportHandler) BillsXLSX(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter exportapp.BillExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	data, err := h.exportService.BillsXLSX(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", attachmentName("bills", "xlsx"))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// BillPDF renders one bill as a printable PDF
func (h *ExportHandler) BillPDF(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	billID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	data, err := h.printService.BillPDF(c.Request.Context(), ownerID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", attachmentName("bill", "pdf"))
	c.Data(http.StatusOK, contentTypePDF, data)
}

// BillHTML returns the printable HTML for one bill, for browser-side print
// preview when PDF rendering is disabled
func (h *ExportHandler) BillHTML(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	billID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	html, err := h.printService.BillHTML(c.Request.Context(), ownerID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func attachmentName(prefix, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s-%s.%s"`, prefix, time.Now().Format("20060102-150405"), ext)
}
