package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/dto"
	"github.com/SscSPs/library_management_app/internal/handlers"
	"github.com/SscSPs/library_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BorrowerService ---
type MockBorrowerService struct {
	mock.Mock
}

func (m *MockBorrowerService) GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerService) ListBorrowers(ctx context.Context, params dto.ListBorrowersParams) ([]domain.Borrower, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Borrower), args.Error(1)
}
func (m *MockBorrowerService) CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, userID string) (*domain.Borrower, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerService) UpdateBorrower(ctx context.Context, borrowerID string, req dto.UpdateBorrowerRequest, userID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerService) PayFine(ctx context.Context, borrowerID string, amount decimal.Decimal, userID string) (*domain.Borrower, error) {
	args := m.Called(ctx, borrowerID, amount, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

var _ portssvc.BorrowerSvcFacade = (*MockBorrowerService)(nil)

// --- Test Suite ---
type BorrowerHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockBorrowerService *MockBorrowerService
	mockReporting       *MockReportingService
	userID              string
}

func (suite *BorrowerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.router = gin.New()
	suite.mockBorrowerService = new(MockBorrowerService)
	suite.mockReporting = new(MockReportingService)
	suite.userID = "librarian"

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, "library-test"))
	handlers.RegisterBorrowerRoutes(v1, suite.mockBorrowerService)
	handlers.RegisterReportingRoutes(v1, suite.mockReporting)
}

func (suite *BorrowerHandlerTestSuite) TearDownTest() {
	suite.mockBorrowerService.AssertExpectations(suite.T())
	suite.mockReporting.AssertExpectations(suite.T())
}

func TestBorrowerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BorrowerHandlerTestSuite))
}

// do sends a raw JSON body so tests control exactly what reaches the binder.
func (suite *BorrowerHandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.T(), suite.userID))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *BorrowerHandlerTestSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func amountOf(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// --- Test Cases ---

func (suite *BorrowerHandlerTestSuite) TestCreateBorrower_Success() {
	req := dto.CreateBorrowerRequest{Name: "Sarah Johnson", Email: "sarah.j@university.edu", MembershipType: domain.MembershipFaculty}
	suite.mockBorrowerService.On("CreateBorrower", mock.Anything, req, suite.userID).Return(&domain.Borrower{
		BorrowerID:     "m1",
		Name:           req.Name,
		Email:          req.Email,
		MembershipType: req.MembershipType,
		JoinDate:       date("2024-08-15"),
		Fines:          decimal.Zero,
		Status:         domain.BorrowerActive,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers",
		`{"name":"Sarah Johnson","email":"sarah.j@university.edu","membershipType":"faculty"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.BorrowerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("m1", resp.BorrowerID)
	suite.Equal(domain.MembershipFaculty, resp.MembershipType)
	suite.Equal("2024-08-15", resp.JoinDate)
	suite.Equal(domain.BorrowerActive, resp.Status)
}

func (suite *BorrowerHandlerTestSuite) TestCreateBorrower_BadMembership() {
	w := suite.do(http.MethodPost, "/api/v1/borrowers",
		`{"name":"Sarah Johnson","email":"sarah.j@university.edu","membershipType":"vip"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "membership")
	suite.mockBorrowerService.AssertNotCalled(suite.T(), "CreateBorrower", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BorrowerHandlerTestSuite) TestCreateBorrower_BadEmail() {
	w := suite.do(http.MethodPost, "/api/v1/borrowers",
		`{"name":"Sarah Johnson","email":"not-an-email","membershipType":"student"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBorrowerService.AssertNotCalled(suite.T(), "CreateBorrower", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BorrowerHandlerTestSuite) TestCreateBorrower_DuplicateEmail() {
	suite.mockBorrowerService.On("CreateBorrower", mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: email john.smith@university.edu already registered", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers",
		`{"name":"John Smith","email":"john.smith@university.edu","membershipType":"student"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorMessage(w), "already registered")
}

func (suite *BorrowerHandlerTestSuite) TestListBorrowers_BadStatusFilter() {
	w := suite.do(http.MethodGet, "/api/v1/borrowers?status=banned", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBorrowerService.AssertNotCalled(suite.T(), "ListBorrowers", mock.Anything, mock.Anything)
}

func (suite *BorrowerHandlerTestSuite) TestUpdateBorrower_Suspend() {
	status := domain.BorrowerSuspended
	suite.mockBorrowerService.On("UpdateBorrower", mock.Anything, "m1", dto.UpdateBorrowerRequest{Status: &status}, suite.userID).
		Return(&domain.Borrower{BorrowerID: "m1", Status: domain.BorrowerSuspended, Fines: decimal.Zero}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/borrowers/m1", `{"status":"suspended"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BorrowerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.BorrowerSuspended, resp.Status)
}

func (suite *BorrowerHandlerTestSuite) TestPayFine_Success() {
	suite.mockBorrowerService.On("PayFine", mock.Anything, "m1", amountOf("5.25"), suite.userID).
		Return(&domain.Borrower{BorrowerID: "m1", Fines: decimal.RequireFromString("10.25"), Status: domain.BorrowerActive}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers/m1/fines/payments", `{"amount":"5.25"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BorrowerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Fines.Equal(decimal.RequireFromString("10.25")))
}

func (suite *BorrowerHandlerTestSuite) TestPayFine_NumericAmount() {
	suite.mockBorrowerService.On("PayFine", mock.Anything, "m1", amountOf("15.5"), suite.userID).
		Return(&domain.Borrower{BorrowerID: "m1", Fines: decimal.Zero}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers/m1/fines/payments", `{"amount":15.50}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *BorrowerHandlerTestSuite) TestPayFine_OverPayment() {
	suite.mockBorrowerService.On("PayFine", mock.Anything, "m1", amountOf("20"), suite.userID).
		Return(nil, fmt.Errorf("%w: payment 20.00 exceeds outstanding fines 15.50", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers/m1/fines/payments", `{"amount":"20"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "exceeds outstanding fines")
}

func (suite *BorrowerHandlerTestSuite) TestPayFine_MalformedAmount() {
	w := suite.do(http.MethodPost, "/api/v1/borrowers/m1/fines/payments", `{"amount":"lots"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBorrowerService.AssertNotCalled(suite.T(), "PayFine", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BorrowerHandlerTestSuite) TestPayFine_UnknownBorrower() {
	suite.mockBorrowerService.On("PayFine", mock.Anything, "missing", amountOf("1"), suite.userID).
		Return(nil, fmt.Errorf("borrower missing: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrowers/missing/fines/payments", `{"amount":"1"}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BorrowerHandlerTestSuite) TestDashboard() {
	stats := &domain.DashboardStats{
		Catalog: domain.CatalogStats{TotalTitles: 4, TotalCopies: 17, AvailableCopies: 14},
		Borrowers: domain.BorrowerStats{
			TotalBorrowers:   4,
			ByMembership:     map[domain.MembershipType]int{domain.MembershipStudent: 2, domain.MembershipFaculty: 1, domain.MembershipPublic: 1},
			Suspended:        1,
			OutstandingFines: decimal.RequireFromString("17.50"),
		},
		Loans: domain.LoanSummary{TotalLoans: 4, ActiveLoans: 2, OverdueLoans: 1, ReturnedLoans: 1},
	}
	suite.mockReporting.On("DashboardStats", mock.Anything).Return(stats, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dashboard", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.DashboardStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(stats.Catalog, resp.Catalog)
	suite.Equal(2, resp.Borrowers.ByMembership[domain.MembershipStudent])
	suite.True(resp.Borrowers.OutstandingFines.Equal(decimal.RequireFromString("17.50")))
	suite.Equal(1, resp.Loans.OverdueLoans)
}

func (suite *BorrowerHandlerTestSuite) TestDashboard_HidesInternalErrors() {
	suite.mockReporting.On("DashboardStats", mock.Anything).Return(nil, errors.New("pool closed")).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/dashboard", "")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to build dashboard", suite.errorMessage(w))
}
