package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
	"github.com/ricerca-labs/biblioteca_backend/internal/handlers"
	"github.com/ricerca-labs/biblioteca_backend/internal/middleware"
	"github.com/ricerca-labs/biblioteca_backend/internal/utils"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) GetLoanByID(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorID, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, params dto.ListLoansParams, actorID string, actorRole domain.UserRole) ([]domain.Loan, error) {
	args := m.Called(ctx, params, actorID, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	args := m.Called(ctx, req, actorID, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ReturnLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorID, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID string, actorID string, actorRole domain.UserRole) error {
	args := m.Called(ctx, loanID, actorID, actorRole)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	jwtSecret       string
}

// generateTestToken creates a signed JWT carrying the given role.
func (suite *LoanHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "biblioteca-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLoanService = new(MockLoanService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterLoanRoutes(v1, suite.mockLoanService)
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestCreateLoan_Success() {
	borrowerID := uuid.NewString()
	bookID := uuid.NewString()
	created := &domain.Loan{
		LoanID:     uuid.NewString(),
		BookID:     bookID,
		BorrowerID: borrowerID,
		LoanDate:   time.Now(),
		DueDate:    time.Now().AddDate(0, 0, 14),
	}

	suite.mockLoanService.On("CreateLoan",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateLoanRequest) bool { return r.BookID == bookID }),
		borrowerID,
		domain.RoleUser,
	).Return(created, nil).Once()

	body, _ := json.Marshal(dto.CreateLoanRequest{BookID: bookID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(borrowerID, domain.RoleUser))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var envelope struct {
		Success bool             `json:"success"`
		Data    dto.LoanResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.True(envelope.Success)
	suite.Equal(created.LoanID, envelope.Data.LoanID)
	suite.Equal(bookID, envelope.Data.BookID)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_NoCopiesConflict() {
	borrowerID := uuid.NewString()
	bookID := uuid.NewString()

	suite.mockLoanService.On("CreateLoan", mock.Anything, mock.Anything, borrowerID, domain.RoleUser).
		Return(nil, fmt.Errorf("no copies available: %w", apperrors.ErrConflict)).Once()

	body, _ := json.Marshal(dto.CreateLoanRequest{BookID: bookID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(borrowerID, domain.RoleUser))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_MissingBookID() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString(), domain.RoleUser))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "CreateLoan")
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_NoToken() {
	body, _ := json.Marshal(dto.CreateLoanRequest{BookID: uuid.NewString()})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader(body))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LoanHandlerTestSuite) TestReturnLoan_AlreadyReturnedConflict() {
	adminID := uuid.NewString()
	loanID := uuid.NewString()

	suite.mockLoanService.On("ReturnLoan", mock.Anything, loanID, adminID, domain.RoleAdmin).
		Return(nil, fmt.Errorf("already returned: %w", apperrors.ErrConflict)).Once()

	req, _ := http.NewRequest(http.MethodPut, "/api/v1/loans/"+loanID+"/return", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(adminID, domain.RoleAdmin))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestListLoans_Success() {
	adminID := uuid.NewString()
	loans := []domain.Loan{
		{LoanID: uuid.NewString(), BookID: uuid.NewString(), BorrowerID: uuid.NewString(), BookTitle: "Rayuela"},
		{LoanID: uuid.NewString(), BookID: uuid.NewString(), BorrowerID: uuid.NewString(), BookTitle: "Ficciones"},
	}

	suite.mockLoanService.On("ListLoans",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListLoansParams) bool { return p.Limit == 50 }),
		adminID,
		domain.RoleAdmin,
	).Return(loans, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/loans", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(adminID, domain.RoleAdmin))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var envelope struct {
		Success bool               `json:"success"`
		Data    []dto.LoanResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.True(envelope.Success)
	suite.Len(envelope.Data, 2)
	suite.Equal("Rayuela", envelope.Data[0].BookTitle)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetLoanByID_ForbiddenForOtherUser() {
	userID := uuid.NewString()
	loanID := uuid.NewString()

	suite.mockLoanService.On("GetLoanByID", mock.Anything, loanID, userID, domain.RoleUser).
		Return(nil, fmt.Errorf("%w: not the owner of the resource", apperrors.ErrForbidden)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/loans/"+loanID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleUser))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func TestLoanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
