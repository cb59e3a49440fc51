package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/reports/export"
	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

const samplePayload = `{
	"evalId": "E1001",
	"evalName": "Demo",
	"evalTime": "2024-05-01 10:00",
	"organizer": "lab",
	"indicator": [{"key": "Accuracy", "value": 0.97}],
	"runtimeInfo": {"cpu": 42, "memory": 512, "runtime": 3.2}
}`

func setupRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postReport(router *gin.Engine, query, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/eval"+query, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateReportPDF(t *testing.T) {
	svc, m := newTestService()
	m.pdf.On("Generate", mock.Anything, mock.MatchedBy(func(d *export.ReportData) bool {
		return d.EvalID == "E1001" && len(d.Indicator) == 1 && d.RuntimeInfo != nil
	})).Return(&export.Document{Data: []byte("%PDF-1.4 test"), ContentType: export.ContentTypePDF}, nil)

	w := postReport(setupRouter(svc), "", samplePayload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypePDF, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="eval-report-E1001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Report-ID"))
	assert.Equal(t, "0", w.Header().Get("X-Report-Warnings"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())
	m.pdf.AssertExpectations(t)
}

func TestGenerateReportCSV(t *testing.T) {
	svc, m := newTestService()
	m.csv.On("Export", mock.Anything).Return([]byte("section,key,value\n"), nil)

	w := postReport(setupRouter(svc), "?format=csv", samplePayload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "eval-report-E1001.csv")
}

func TestGenerateReportBadRequests(t *testing.T) {
	svc, _ := newTestService()
	router := setupRouter(svc)

	w := postReport(router, "?format=docx", samplePayload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postReport(router, "", `{"evalId": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateReportValidationError(t *testing.T) {
	svc := NewService(new(MockPDFGenerator),
		export.NewExcelExporter(export.DefaultExcelOptions()),
		export.NewCSVExporter(export.DefaultCSVOptions()),
		new(MockTypefaceCache), typeface.DefaultCacheConfig(), zap.NewNop())

	w := postReport(setupRouter(svc), "?format=xlsx", `{"evalId": "E1", "indicator": []}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"runtimeInfo"}, body.Fields)
}

func TestGenerateReportErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"font load", &typeface.FontLoadError{Location: "https://cdn/regular.ttf", Err: errors.New("status 502")}, http.StatusServiceUnavailable},
		{"serialization", &export.SerializationError{Err: errors.New("encoder failed")}, http.StatusInternalServerError},
		{"validation", &export.DataValidationError{Fields: []string{"indicator"}}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService()
			m.pdf.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postReport(setupRouter(svc), "?format=pdf", samplePayload)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestGetTypefaceStatus(t *testing.T) {
	svc, m := newTestService()
	m.typefaces.On("Warm").Return(false)
	m.typefaces.On("Loads").Return(int64(0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/typefaces", nil)
	setupRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var status TypefaceStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Warm)
	assert.Equal(t, "embedded:regular", status.RegularLocation)
}

func TestGenerateReportEndToEnd(t *testing.T) {
	cache := typeface.NewCache(typeface.EmbeddedSource{}, typeface.DefaultCacheConfig(), zap.NewNop())

	opts := export.DefaultPDFOptions()
	opts.Title = "Align Eval Report"
	opts.InfoLabels = []string{"Eval ID", "Eval Name", "Eval Time", "Organizer"}
	opts.IndicatorHeading = "1. Key Indicator Results"
	opts.IndicatorHeaders = []string{"Indicator", "Value"}
	opts.RuntimeHeading = "2. System Runtime Information"
	opts.RuntimeHeaders = []string{"Item", "Value"}
	opts.RuntimeLabels = []string{"CPU (%)", "Memory (MB)", "Runtime (s)"}
	opts.Footer = "Generated by Align Eval"
	opts.Watermark.Text = "Align Eval"

	svc := NewService(
		export.NewReportAssembler(cache, opts, zap.NewNop()),
		export.NewExcelExporter(export.DefaultExcelOptions()),
		export.NewCSVExporter(export.DefaultCSVOptions()),
		cache, typeface.DefaultCacheConfig(), zap.NewNop())
	router := setupRouter(svc)

	first := postReport(router, "", samplePayload)
	require.Equal(t, http.StatusOK, first.Code)
	assert.True(t, bytes.HasPrefix(first.Body.Bytes(), []byte("%PDF-")))
	assert.True(t, cache.Warm())

	second := postReport(router, "", samplePayload)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, int64(1), cache.Loads())
}
