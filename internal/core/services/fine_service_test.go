package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	portssvc "github.com/ricerca-labs/biblioteca_backend/internal/core/ports/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/services"
	"github.com/ricerca-labs/biblioteca_backend/internal/dto"
)

// --- Mock FineRepository ---
type MockFineRepository struct {
	mock.Mock
}

func (m *MockFineRepository) FindFineByID(ctx context.Context, fineID string) (*domain.Fine, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepository) FindFines(ctx context.Context, borrowerID string, limit int, offset int) ([]domain.Fine, error) {
	args := m.Called(ctx, borrowerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fine), args.Error(1)
}

func (m *MockFineRepository) SaveFine(ctx context.Context, fine domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

func (m *MockFineRepository) SaveFinesIdempotent(ctx context.Context, fines []domain.Fine) ([]domain.Fine, error) {
	args := m.Called(ctx, fines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fine), args.Error(1)
}

func (m *MockFineRepository) MarkFinePaid(ctx context.Context, fineID string, updaterUserID string, now time.Time) (*domain.Fine, error) {
	args := m.Called(ctx, fineID, updaterUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepository) DeleteFine(ctx context.Context, fineID string) error {
	args := m.Called(ctx, fineID)
	return args.Error(0)
}

// --- Test Suite ---
type FineServiceTestSuite struct {
	suite.Suite
	mockFineRepo *MockFineRepository
	mockLoanRepo *MockLoanRepository
	service      portssvc.FineSvcFacade
	adminID      string
}

func (suite *FineServiceTestSuite) SetupTest() {
	suite.mockFineRepo = new(MockFineRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.service = services.NewFineService(suite.mockFineRepo, suite.mockLoanRepo, 5)
	suite.adminID = uuid.NewString()
}

func (suite *FineServiceTestSuite) TestCreateFine_Success() {
	ctx := context.Background()
	loanID := uuid.NewString()
	req := dto.CreateFineRequest{LoanID: loanID, Amount: decimal.NewFromInt(25)}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(&domain.Loan{LoanID: loanID}, nil).Once()
	suite.mockFineRepo.On("SaveFine", ctx, mock.MatchedBy(func(f domain.Fine) bool {
		return f.LoanID == loanID && f.Amount.Equal(req.Amount) && !f.Paid
	})).Return(nil).Once()

	fine, err := suite.service.CreateFine(ctx, req, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Require().NotNil(fine)
	suite.Equal(loanID, fine.LoanID)
	suite.mockFineRepo.AssertExpectations(suite.T())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestCreateFine_UserForbidden() {
	ctx := context.Background()
	req := dto.CreateFineRequest{LoanID: uuid.NewString(), Amount: decimal.NewFromInt(25)}

	fine, err := suite.service.CreateFine(ctx, req, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(fine)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockFineRepo.AssertNotCalled(suite.T(), "SaveFine")
}

func (suite *FineServiceTestSuite) TestCreateFine_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateFineRequest{LoanID: uuid.NewString(), Amount: decimal.Zero}

	fine, err := suite.service.CreateFine(ctx, req, suite.adminID, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(fine)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FineServiceTestSuite) TestSweepOverdueFines_ChargesPerDayLate() {
	ctx := context.Background()
	now := time.Now()
	overdue := []domain.Loan{
		{LoanID: uuid.NewString(), DueDate: now.Add(-72 * time.Hour)},  // 3 days late
		{LoanID: uuid.NewString(), DueDate: now.Add(-240 * time.Hour)}, // 10 days late
		{LoanID: uuid.NewString(), DueDate: now.Add(-2 * time.Hour)},   // under a day, still 1 day charged
	}

	suite.mockLoanRepo.On("FindOverdueLoansWithoutFine", ctx, mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	suite.mockFineRepo.On("SaveFinesIdempotent", ctx, mock.MatchedBy(func(fines []domain.Fine) bool {
		return len(fines) == 3 &&
			fines[0].Amount.Equal(decimal.NewFromInt(15)) &&
			fines[1].Amount.Equal(decimal.NewFromInt(50)) &&
			fines[2].Amount.Equal(decimal.NewFromInt(5))
	})).Return([]domain.Fine{{}, {}, {}}, nil).Once()

	fines, err := suite.service.SweepOverdueFines(ctx, dto.SweepFinesRequest{}, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Len(fines, 3)
	suite.mockFineRepo.AssertExpectations(suite.T())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestSweepOverdueFines_CustomRate() {
	ctx := context.Background()
	now := time.Now()
	rate := int64(10)
	overdue := []domain.Loan{
		{LoanID: uuid.NewString(), DueDate: now.Add(-48 * time.Hour)}, // 2 days late
	}

	suite.mockLoanRepo.On("FindOverdueLoansWithoutFine", ctx, mock.AnythingOfType("time.Time")).Return(overdue, nil).Once()
	suite.mockFineRepo.On("SaveFinesIdempotent", ctx, mock.MatchedBy(func(fines []domain.Fine) bool {
		return len(fines) == 1 && fines[0].Amount.Equal(decimal.NewFromInt(20))
	})).Return([]domain.Fine{{}}, nil).Once()

	fines, err := suite.service.SweepOverdueFines(ctx, dto.SweepFinesRequest{PerDayRate: &rate}, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Len(fines, 1)
	suite.mockFineRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestSweepOverdueFines_NothingOverdue() {
	ctx := context.Background()

	suite.mockLoanRepo.On("FindOverdueLoansWithoutFine", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Loan{}, nil).Once()
	suite.mockFineRepo.On("SaveFinesIdempotent", ctx, mock.AnythingOfType("[]domain.Fine")).Return([]domain.Fine{}, nil).Once()

	fines, err := suite.service.SweepOverdueFines(ctx, dto.SweepFinesRequest{}, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Empty(fines)
}

func (suite *FineServiceTestSuite) TestSweepOverdueFines_UserForbidden() {
	ctx := context.Background()

	fines, err := suite.service.SweepOverdueFines(ctx, dto.SweepFinesRequest{}, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(fines)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "FindOverdueLoansWithoutFine")
}

func (suite *FineServiceTestSuite) TestPayFine_AlreadyPaidConflict() {
	ctx := context.Background()
	fineID := uuid.NewString()

	suite.mockFineRepo.On("MarkFinePaid", ctx, fineID, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrConflict).Once()

	fine, err := suite.service.PayFine(ctx, fineID, suite.adminID, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(fine)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *FineServiceTestSuite) TestListFines_UserIsScopedToOwn() {
	ctx := context.Background()
	borrowerID := uuid.NewString()

	suite.mockFineRepo.On("FindFines", ctx, borrowerID, 50, 0).Return([]domain.Fine{}, nil).Once()

	_, err := suite.service.ListFines(ctx, 50, 0, borrowerID, domain.RoleUser)

	suite.Require().NoError(err)
	suite.mockFineRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestGetFineByID_OtherUsersFineForbidden() {
	ctx := context.Background()
	fineID := uuid.NewString()
	fine := &domain.Fine{FineID: fineID, BorrowerID: uuid.NewString()}

	suite.mockFineRepo.On("FindFineByID", ctx, fineID).Return(fine, nil).Once()

	got, err := suite.service.GetFineByID(ctx, fineID, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestFineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FineServiceTestSuite))
}
