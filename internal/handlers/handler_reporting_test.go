package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/handlers"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}
func (m *MockReportingService) CirculationReport(ctx context.Context, from, to time.Time) (*domain.CirculationReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func newReportingRouter(t *testing.T, svc portssvc.ReportingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	require.NoError(t, handlers.RegisterValidators())
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, "library-test"))
	handlers.RegisterReportingRoutes(v1, svc)
	return r
}

func getReport(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, "librarian"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCirculationReport(t *testing.T) {
	svc := new(MockReportingService)
	r := newReportingRouter(t, svc)

	report := domain.NewCirculationReport(date("2024-07-01"), date("2024-08-31"), date("2024-08-20"))
	report.Months[1].Issued = 3
	report.Months[1].Returned = 1
	report.Months[1].Overdue = 1
	report.Months[1].FinesAssessed = decimal.RequireFromString("2.50")
	report.ByCategory = []domain.CategoryCirculation{{Category: "Fiction", Loans: 3}}
	svc.On("CirculationReport", mock.Anything, date("2024-07-01"), date("2024-08-31")).Return(report, nil).Once()

	w := getReport(t, r, "/api/v1/reports/circulation?from=2024-07-01&to=2024-08-31")
	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.CirculationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Months, 2)
	assert.Equal(t, "2024-07", resp.Months[0].Month)
	assert.Equal(t, "2024-08", resp.Months[1].Month)
	assert.Equal(t, 3, resp.Months[1].Issued)
	assert.True(t, resp.Months[1].FinesAssessed.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, []domain.CategoryCirculation{{Category: "Fiction", Loans: 3}}, resp.ByCategory)
	svc.AssertExpectations(t)
}

func TestCirculationReport_DefaultRange(t *testing.T) {
	svc := new(MockReportingService)
	r := newReportingRouter(t, svc)

	report := domain.NewCirculationReport(date("2023-09-01"), date("2024-08-20"), date("2024-08-20"))
	svc.On("CirculationReport", mock.Anything, time.Time{}, time.Time{}).Return(report, nil).Once()

	w := getReport(t, r, "/api/v1/reports/circulation")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCirculationReport_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		serviceErr error
		wantStatus int
	}{
		{name: "malformed from", query: "?from=01/07/2024", wantStatus: http.StatusBadRequest},
		{name: "impossible date", query: "?to=2024-02-30", wantStatus: http.StatusBadRequest},
		{
			name:       "from after to",
			query:      "?from=2024-09-01&to=2024-08-01",
			serviceErr: fmt.Errorf("%w: from 2024-09-01 is after to 2024-08-01", apperrors.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			query:      "?from=2024-07-01&to=2024-08-01",
			serviceErr: errors.New("list loans: connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportingService)
			r := newReportingRouter(t, svc)
			if tt.serviceErr != nil {
				svc.On("CirculationReport", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.serviceErr).Once()
			}

			w := getReport(t, r, "/api/v1/reports/circulation"+tt.query)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "Failed to build circulation report", body.Error)
			}
			svc.AssertExpectations(t)
			if tt.serviceErr == nil {
				svc.AssertNotCalled(t, "CirculationReport", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
