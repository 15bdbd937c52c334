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

// --- Mock BookRepository ---
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindBooks(ctx context.Context, category string, limit int, offset int) ([]domain.Book, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) SearchBooks(ctx context.Context, term string, limit int, offset int) ([]domain.Book, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) DeleteBook(ctx context.Context, bookID string) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

// --- Test Suite ---
type BookServiceTestSuite struct {
	suite.Suite
	mockRepo *MockBookRepository
	service  portssvc.BookSvcFacade
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBookRepository)
	suite.service = services.NewBookService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *BookServiceTestSuite) TestCreateBook_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	req := dto.CreateBookRequest{
		Title:           "Cien años de soledad",
		Author:          "Gabriel García Márquez",
		PublishedOn:     time.Date(1967, 5, 30, 0, 0, 0, 0, time.UTC),
		Category:        "Novela",
		AvailableCopies: 3,
	}

	suite.mockRepo.On("SaveBook", ctx, mock.MatchedBy(func(b domain.Book) bool {
		return b.Title == req.Title && b.AvailableCopies == 3 && b.CreatedBy == adminID
	})).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, req, adminID, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Equal(req.Author, book.Author)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestCreateBook_UserForbidden() {
	ctx := context.Background()

	_, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{Title: "X"}, uuid.NewString(), domain.RoleUser)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveBook")
}

func (suite *BookServiceTestSuite) TestSearchBooks_MatchesTitleOrAuthor() {
	ctx := context.Background()
	found := []domain.Book{
		{BookID: uuid.NewString(), Title: "El Aleph", Author: "Jorge Luis Borges"},
		{BookID: uuid.NewString(), Title: "Ficciones", Author: "Jorge Luis Borges"},
	}

	suite.mockRepo.On("SearchBooks", ctx, "borges", 50, 0).Return(found, nil).Once()

	books, err := suite.service.SearchBooks(ctx, dto.SearchBooksParams{
		Q:          "borges",
		ListParams: dto.ListParams{Limit: 50, Offset: 0},
	})

	suite.Require().NoError(err)
	suite.Len(books, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestSearchBooks_TrimsTerm() {
	ctx := context.Background()

	suite.mockRepo.On("SearchBooks", ctx, "aleph", 50, 0).Return([]domain.Book{}, nil).Once()

	_, err := suite.service.SearchBooks(ctx, dto.SearchBooksParams{
		Q:          "  aleph  ",
		ListParams: dto.ListParams{Limit: 50, Offset: 0},
	})

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestSearchBooks_BlankTerm() {
	ctx := context.Background()

	_, err := suite.service.SearchBooks(ctx, dto.SearchBooksParams{Q: "   "})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SearchBooks")
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
