package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/config"
)

func TestPDFOptionsOverrides(t *testing.T) {
	opts := PDFOptions(config.ReportsConfig{})
	assert.Equal(t, "Align Eval 算法评测报告", opts.Title)
	assert.Equal(t, "Align Eval 分析报告", opts.Watermark.Text)

	opts = PDFOptions(config.ReportsConfig{Title: "Eval", Footer: "internal", WatermarkText: "DRAFT"})
	assert.Equal(t, "Eval", opts.Title)
	assert.Equal(t, "internal", opts.Footer)
	assert.Equal(t, "DRAFT", opts.Watermark.Text)
	assert.Equal(t, 72.0, opts.Watermark.Size)
}

func TestSetupReportsAPI(t *testing.T) {
	api, err := SetupReportsAPI(context.Background(), config.Default(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, api.Handler)
	assert.False(t, api.Typefaces.Warm())

	require.NoError(t, api.Service.Prewarm(context.Background()))
	assert.True(t, api.Typefaces.Warm())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterReportsRoutes(router.Group("/api/v1"), api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/typefaces", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"warm":true`)
}
