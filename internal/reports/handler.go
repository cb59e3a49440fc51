package reports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/reports/export"
	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// Handler handles HTTP requests for report generation
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers reporting routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.POST("/eval", h.generateReport)
		reports.GET("/typefaces", h.getTypefaceStatus)
	}
}

// generateReport handles POST /api/v1/reports/eval
func (h *Handler) generateReport(c *gin.Context) {
	format := ExportFormat(c.DefaultQuery("format", string(ExportFormatPDF)))
	if !format.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format"})
		return
	}

	var data export.ReportData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.Generate(c.Request.Context(), format, &data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Header("X-Report-ID", report.ID.String())
	c.Header("X-Report-Warnings", strconv.Itoa(len(report.Warnings)))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

// getTypefaceStatus handles GET /api/v1/reports/typefaces
func (h *Handler) getTypefaceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.TypefaceStatus())
}

// respondError maps generation failures to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validationErr    *export.DataValidationError
		fontErr          *typeface.FontLoadError
		serializationErr *export.SerializationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": validationErr.Fields})
	case errors.Is(err, ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &fontErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "location": fontErr.Location})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	case errors.As(err, &serializationErr):
		h.logger.Error("Failed to serialize report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to generate report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
