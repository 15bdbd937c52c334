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

// --- Mock MaestroRepository ---
type MockMaestroRepository struct {
	mock.Mock
}

func (m *MockMaestroRepository) FindMaestroByID(ctx context.Context, maestroID string) (*domain.Maestro, error) {
	args := m.Called(ctx, maestroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Maestro), args.Error(1)
}

func (m *MockMaestroRepository) FindMaestros(ctx context.Context, limit int, offset int) ([]domain.Maestro, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Maestro), args.Error(1)
}

func (m *MockMaestroRepository) FindDailyNetAmounts(ctx context.Context, maestroID string, since time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, maestroID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockMaestroRepository) SaveMaestro(ctx context.Context, maestro domain.Maestro) error {
	args := m.Called(ctx, maestro)
	return args.Error(0)
}

func (m *MockMaestroRepository) UpdateMaestro(ctx context.Context, maestro domain.Maestro) error {
	args := m.Called(ctx, maestro)
	return args.Error(0)
}

func (m *MockMaestroRepository) DeleteMaestro(ctx context.Context, maestroID string) error {
	args := m.Called(ctx, maestroID)
	return args.Error(0)
}

func (m *MockMaestroRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMaestroRepository) FindMovements(ctx context.Context, maestroID string, limit int, offset int) ([]domain.Movement, error) {
	args := m.Called(ctx, maestroID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMaestroRepository) SaveMovement(ctx context.Context, movement domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMaestroRepository) DeleteMovement(ctx context.Context, movementID string) error {
	args := m.Called(ctx, movementID)
	return args.Error(0)
}

// --- Test Suite ---
type MaestroServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMaestroRepository
	service  portssvc.MaestroSvcFacade
	adminID  string
}

func (suite *MaestroServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMaestroRepository)
	suite.service = services.NewMaestroService(suite.mockRepo)
	suite.adminID = uuid.NewString()
}

func (suite *MaestroServiceTestSuite) TestCreateMaestro_Success() {
	ctx := context.Background()
	opening := decimal.NewFromInt(100)
	req := dto.CreateMaestroRequest{Name: "Caja General", OpeningBalance: &opening}

	suite.mockRepo.On("SaveMaestro", ctx, mock.MatchedBy(func(m domain.Maestro) bool {
		return m.Name == req.Name && m.Balance.Equal(opening) && m.CreatedBy == suite.adminID
	})).Return(nil).Once()

	maestro, err := suite.service.CreateMaestro(ctx, req, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Require().NotNil(maestro)
	suite.Equal(req.Name, maestro.Name)
	suite.True(maestro.Balance.Equal(opening))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MaestroServiceTestSuite) TestCreateMaestro_DefaultsToZeroBalance() {
	ctx := context.Background()
	req := dto.CreateMaestroRequest{Name: "Multas"}

	suite.mockRepo.On("SaveMaestro", ctx, mock.MatchedBy(func(m domain.Maestro) bool {
		return m.Balance.IsZero()
	})).Return(nil).Once()

	maestro, err := suite.service.CreateMaestro(ctx, req, suite.adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.True(maestro.Balance.IsZero())
}

func (suite *MaestroServiceTestSuite) TestCreateMaestro_NegativeOpeningBalance() {
	ctx := context.Background()
	opening := decimal.NewFromInt(-1)
	req := dto.CreateMaestroRequest{Name: "Caja", OpeningBalance: &opening}

	maestro, err := suite.service.CreateMaestro(ctx, req, suite.adminID, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(maestro)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMaestro")
}

func (suite *MaestroServiceTestSuite) TestCreateMaestro_UserForbidden() {
	ctx := context.Background()
	req := dto.CreateMaestroRequest{Name: "Caja"}

	maestro, err := suite.service.CreateMaestro(ctx, req, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(maestro)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *MaestroServiceTestSuite) TestCreateMovement_Success() {
	ctx := context.Background()
	maestroID := uuid.NewString()
	req := dto.CreateMovementRequest{MaestroID: maestroID, Kind: "ENTRADA", Amount: decimal.NewFromInt(50)}

	suite.mockRepo.On("SaveMovement", ctx, mock.MatchedBy(func(m domain.Movement) bool {
		return m.MaestroID == maestroID && m.Kind == domain.MovementEntrada &&
			m.Amount.Equal(req.Amount) && m.Responsible == "Ada Admin"
	})).Return(nil).Once()

	movement, err := suite.service.CreateMovement(ctx, req, suite.adminID, "Ada Admin", domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.Equal(domain.MovementEntrada, movement.Kind)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MaestroServiceTestSuite) TestCreateMovement_InsufficientBalance() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{MaestroID: uuid.NewString(), Kind: "SALIDA", Amount: decimal.NewFromInt(999)}

	suite.mockRepo.On("SaveMovement", ctx, mock.AnythingOfType("domain.Movement")).Return(apperrors.ErrConflict).Once()

	movement, err := suite.service.CreateMovement(ctx, req, suite.adminID, "Ada Admin", domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *MaestroServiceTestSuite) TestCreateMovement_InvalidKind() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{MaestroID: uuid.NewString(), Kind: "TRANSFER", Amount: decimal.NewFromInt(10)}

	movement, err := suite.service.CreateMovement(ctx, req, suite.adminID, "Ada Admin", domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMovement")
}

func (suite *MaestroServiceTestSuite) TestGetDailyBalances_WalksBackFromCurrentBalance() {
	ctx := context.Background()
	maestroID := uuid.NewString()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	maestro := &domain.Maestro{MaestroID: maestroID, Balance: decimal.NewFromInt(100)}
	nets := map[string]decimal.Decimal{
		today.Format("2006-01-02"):     decimal.NewFromInt(10),
		yesterday.Format("2006-01-02"): decimal.NewFromInt(-5),
	}

	suite.mockRepo.On("FindMaestroByID", ctx, maestroID).Return(maestro, nil).Once()
	suite.mockRepo.On("FindDailyNetAmounts", ctx, maestroID, mock.AnythingOfType("time.Time")).Return(nets, nil).Once()

	balances, err := suite.service.GetDailyBalances(ctx, maestroID, 3)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 3)
	// Today ends at the current balance; each earlier day undoes that day's net.
	suite.True(balances[2].Balance.Equal(decimal.NewFromInt(100)))
	suite.True(balances[1].Balance.Equal(decimal.NewFromInt(90)))
	suite.True(balances[0].Balance.Equal(decimal.NewFromInt(95)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MaestroServiceTestSuite) TestGetDailyBalances_CapsWindowAtOneYear() {
	ctx := context.Background()
	maestroID := uuid.NewString()

	maestro := &domain.Maestro{MaestroID: maestroID, Balance: decimal.NewFromInt(100)}

	suite.mockRepo.On("FindMaestroByID", ctx, maestroID).Return(maestro, nil).Once()
	suite.mockRepo.On("FindDailyNetAmounts", ctx, maestroID, mock.MatchedBy(func(since time.Time) bool {
		// The window starts 364 days back from today, never earlier.
		return time.Since(since) < 366*24*time.Hour
	})).Return(map[string]decimal.Decimal{}, nil).Once()

	balances, err := suite.service.GetDailyBalances(ctx, maestroID, 500000)

	suite.Require().NoError(err)
	suite.Len(balances, 365)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MaestroServiceTestSuite) TestDeleteMovement_NegativeReversalConflict() {
	ctx := context.Background()
	movementID := uuid.NewString()

	suite.mockRepo.On("DeleteMovement", ctx, movementID).Return(apperrors.ErrConflict).Once()

	err := suite.service.DeleteMovement(ctx, movementID, suite.adminID, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestMaestroServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaestroServiceTestSuite))
}
