package reports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"align-eval/eval-portal/report-backend/internal/reports/export"
	"align-eval/eval-portal/report-backend/internal/reports/typeface"
)

// MockPDFGenerator is a mock implementation of the PDFGenerator interface
type MockPDFGenerator struct {
	mock.Mock
}

func (m *MockPDFGenerator) Generate(ctx context.Context, data *export.ReportData) (*export.Document, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Document), args.Error(1)
}

// MockExporter is a mock implementation of the Exporter interface
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(data *export.ReportData) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTypefaceCache is a mock implementation of the TypefaceCache interface
type MockTypefaceCache struct {
	mock.Mock
}

func (m *MockTypefaceCache) Acquire(ctx context.Context) (*typeface.Set, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*typeface.Set), args.Error(1)
}

func (m *MockTypefaceCache) Warm() bool {
	return m.Called().Bool(0)
}

func (m *MockTypefaceCache) Loads() int64 {
	return m.Called().Get(0).(int64)
}

type serviceMocks struct {
	pdf       *MockPDFGenerator
	excel     *MockExporter
	csv       *MockExporter
	typefaces *MockTypefaceCache
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		pdf:       new(MockPDFGenerator),
		excel:     new(MockExporter),
		csv:       new(MockExporter),
		typefaces: new(MockTypefaceCache),
	}
	svc := NewService(m.pdf, m.excel, m.csv, m.typefaces, typeface.DefaultCacheConfig(), zap.NewNop())
	return svc, m
}

func sampleData() *export.ReportData {
	return &export.ReportData{
		EvalID:      "E1001",
		EvalName:    "Demo",
		Indicator:   []export.Indicator{{Key: "Accuracy", Value: 0.97}},
		RuntimeInfo: &export.RuntimeInfo{CPU: 42.0, Memory: 512.0, Runtime: 3.2},
	}
}

func TestServiceGeneratePDF(t *testing.T) {
	svc, m := newTestService()
	data := sampleData()

	warning := export.LayoutOverflowWarning{Section: "indicator", Bottom: -10, Limit: 40}
	m.pdf.On("Generate", mock.Anything, data).Return(&export.Document{
		Data:        []byte("%PDF-1.4"),
		ContentType: export.ContentTypePDF,
		Warnings:    []export.LayoutOverflowWarning{warning},
	}, nil)

	report, err := svc.Generate(context.Background(), ExportFormatPDF, data)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, ExportFormatPDF, report.Format)
	assert.Equal(t, "eval-report-E1001.pdf", report.FileName)
	assert.Equal(t, export.ContentTypePDF, report.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), report.Data)
	assert.Equal(t, []export.LayoutOverflowWarning{warning}, report.Warnings)
	m.pdf.AssertExpectations(t)
	m.excel.AssertNotCalled(t, "Export", mock.Anything)
}

func TestServiceGenerateTabular(t *testing.T) {
	svc, m := newTestService()
	data := sampleData()

	m.excel.On("Export", data).Return([]byte("xlsx"), nil)
	m.csv.On("Export", data).Return([]byte("csv"), nil)

	xlsx, err := svc.Generate(context.Background(), ExportFormatExcel, data)
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeXLSX, xlsx.ContentType)
	assert.Equal(t, "eval-report-E1001.xlsx", xlsx.FileName)

	csv, err := svc.Generate(context.Background(), ExportFormatCSV, data)
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeCSV, csv.ContentType)
	assert.Equal(t, []byte("csv"), csv.Data)

	assert.NotEqual(t, xlsx.ID, csv.ID)
	m.pdf.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestServiceGenerateUnsupportedFormat(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Generate(context.Background(), ExportFormat("docx"), sampleData())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestServiceGenerateWrapsErrors(t *testing.T) {
	svc, m := newTestService()
	data := sampleData()

	fontErr := &typeface.FontLoadError{Location: "s3://fonts/regular.ttf", Err: errors.New("access denied")}
	m.pdf.On("Generate", mock.Anything, data).Return(nil, fontErr)

	report, err := svc.Generate(context.Background(), ExportFormatPDF, data)
	assert.Nil(t, report)

	var target *typeface.FontLoadError
	require.ErrorAs(t, err, &target)
	assert.Same(t, fontErr, target)
}

func TestServiceGenerateTabularHonorsCancellation(t *testing.T) {
	svc, m := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, ExportFormatCSV, sampleData())
	assert.ErrorIs(t, err, context.Canceled)
	m.csv.AssertNotCalled(t, "Export", mock.Anything)
}

func TestServicePrewarm(t *testing.T) {
	svc, m := newTestService()
	m.typefaces.On("Acquire", mock.Anything).Return(&typeface.Set{}, nil).Once()

	require.NoError(t, svc.Prewarm(context.Background()))

	svc2, m2 := newTestService()
	m2.typefaces.On("Acquire", mock.Anything).Return(nil, &typeface.FontLoadError{Location: "x", Err: errors.New("boom")})
	err := svc2.Prewarm(context.Background())
	var fontErr *typeface.FontLoadError
	assert.ErrorAs(t, err, &fontErr)

	m.typefaces.AssertExpectations(t)
}

func TestServiceTypefaceStatus(t *testing.T) {
	svc, m := newTestService()
	m.typefaces.On("Warm").Return(true)
	m.typefaces.On("Loads").Return(int64(1))

	status := svc.TypefaceStatus()
	assert.True(t, status.Warm)
	assert.Equal(t, int64(1), status.Loads)
	assert.Equal(t, "embedded:regular", status.RegularLocation)
	assert.Equal(t, "embedded:bold", status.BoldLocation)
}

func TestFileName(t *testing.T) {
	id := uuid.MustParse("6f1c2b4e-0000-4000-8000-000000000001")

	tests := []struct {
		name   string
		evalID interface{}
		want   string
	}{
		{"string id", "E1001", "eval-report-E1001.pdf"},
		{"numeric id", 1001.0, "eval-report-1001.pdf"},
		{"unsafe characters", "评测 #7/../x", "eval-report-7-..-x.pdf"},
		{"missing id", nil, "eval-report-" + id.String() + ".pdf"},
		{"only unsafe", "评测", "eval-report-" + id.String() + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fileName(&export.ReportData{EvalID: tt.evalID}, id, ExportFormatPDF)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.ContainsAny(got, " /\""))
		})
	}
}
