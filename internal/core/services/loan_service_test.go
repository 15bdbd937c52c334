package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoans(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Loan, error) {
	args := m.Called(ctx, borrowerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindOverdueLoansWithoutFine(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkLoanReturned(ctx context.Context, loanID string, updaterUserID string, now time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, updaterUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// --- Test Suite ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLoanRepository
	service  portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLoanRepository)
	suite.service = services.NewLoanService(suite.mockRepo, 14)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_Success() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	req := dto.CreateLoanRequest{BookID: uuid.NewString()}

	suite.mockRepo.On("CreateLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.BookID == req.BookID && l.BorrowerID == borrowerID && !l.Returned
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, borrowerID, domain.RoleUser)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(borrowerID, loan.BorrowerID)
	// Default loan period applies when no due date is given.
	suite.WithinDuration(time.Now().AddDate(0, 0, 14), loan.DueDate, time.Minute)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_AdminForbidden() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{BookID: uuid.NewString()}

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString(), domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateLoan")
}

func (suite *LoanServiceTestSuite) TestCreateLoan_PastDueDate() {
	ctx := context.Background()
	past := time.Now().Add(-24 * time.Hour)
	req := dto.CreateLoanRequest{BookID: uuid.NewString(), DueDate: &past}

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateLoan")
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NoCopiesAvailable() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{BookID: uuid.NewString()}

	suite.mockRepo.On("CreateLoan", ctx, mock.AnythingOfType("domain.Loan")).Return(apperrors.ErrConflict).Once()

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestListLoans_UserIsScopedToOwn() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	params := dto.ListLoansParams{Limit: 50}

	suite.mockRepo.On("FindLoans", ctx, borrowerID, 50, 0).Return([]domain.Loan{}, nil).Once()

	_, err := suite.service.ListLoans(ctx, params, borrowerID, domain.RoleUser)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestListLoans_AdminSeesAll() {
	ctx := context.Background()
	params := dto.ListLoansParams{Limit: 50}

	suite.mockRepo.On("FindLoans", ctx, "", 50, 0).Return([]domain.Loan{}, nil).Once()

	_, err := suite.service.ListLoans(ctx, params, uuid.NewString(), domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestReturnLoan_OwnLoan() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	loanID := uuid.NewString()
	existing := &domain.Loan{LoanID: loanID, BorrowerID: borrowerID}
	returned := &domain.Loan{LoanID: loanID, BorrowerID: borrowerID, Returned: true}

	suite.mockRepo.On("FindLoanByID", ctx, loanID).Return(existing, nil).Once()
	suite.mockRepo.On("MarkLoanReturned", ctx, loanID, borrowerID, mock.AnythingOfType("time.Time")).Return(returned, nil).Once()

	loan, err := suite.service.ReturnLoan(ctx, loanID, borrowerID, domain.RoleUser)

	suite.Require().NoError(err)
	suite.True(loan.Returned)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestReturnLoan_OtherUsersLoanForbidden() {
	ctx := context.Background()
	loanID := uuid.NewString()
	existing := &domain.Loan{LoanID: loanID, BorrowerID: uuid.NewString()}

	suite.mockRepo.On("FindLoanByID", ctx, loanID).Return(existing, nil).Once()

	loan, err := suite.service.ReturnLoan(ctx, loanID, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkLoanReturned")
}

func (suite *LoanServiceTestSuite) TestReturnLoan_AdminMayReturnAny() {
	ctx := context.Background()
	adminID := uuid.NewString()
	loanID := uuid.NewString()
	existing := &domain.Loan{LoanID: loanID, BorrowerID: uuid.NewString()}
	returned := &domain.Loan{LoanID: loanID, BorrowerID: existing.BorrowerID, Returned: true}

	suite.mockRepo.On("FindLoanByID", ctx, loanID).Return(existing, nil).Once()
	suite.mockRepo.On("MarkLoanReturned", ctx, loanID, adminID, mock.AnythingOfType("time.Time")).Return(returned, nil).Once()

	loan, err := suite.service.ReturnLoan(ctx, loanID, adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.True(loan.Returned)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestDeleteLoan_OwnLoan() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	loanID := uuid.NewString()
	existing := &domain.Loan{LoanID: loanID, BorrowerID: borrowerID}

	suite.mockRepo.On("FindLoanByID", ctx, loanID).Return(existing, nil).Once()
	suite.mockRepo.On("DeleteLoan", ctx, loanID).Return(nil).Once()

	err := suite.service.DeleteLoan(ctx, loanID, borrowerID, domain.RoleUser)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestGetLoanByID_NotFound() {
	ctx := context.Background()
	loanID := uuid.NewString()

	suite.mockRepo.On("FindLoanByID", ctx, loanID).Return(nil, apperrors.ErrNotFound).Once()

	loan, err := suite.service.GetLoanByID(ctx, loanID, uuid.NewString(), domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
