package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
)

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByProductID(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSummary), args.Error(1)
}

func newTestReviewService(repo *mockReviewRepository) *ReviewService {
	logger := newTestLogger()
	producer := newTestEventProducer()
	return NewReviewService(repo, nil, producer, logger)
}

// --- CreateReview Tests ---

func TestCreateReview_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)

	input := &CreateReviewInput{
		ProductID: "p-1",
		UserID:    "user-1",
		Rating:    4,
		Comment:   "  Solid build, battery could be better.  ",
	}

	review, err := svc.CreateReview(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "p-1", review.ProductID)
	assert.Equal(t, "user-1", review.UserID)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Solid build, battery could be better.", review.Comment)
	assert.NotZero(t, review.CreatedAt)

	repo.AssertExpectations(t)
}

func TestCreateReview_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input CreateReviewInput
	}{
		{
			name:  "missing product_id",
			input: CreateReviewInput{UserID: "user-1", Rating: 4, Comment: "Nice"},
		},
		{
			name:  "missing user_id",
			input: CreateReviewInput{ProductID: "p-1", Rating: 4, Comment: "Nice"},
		},
		{
			name:  "rating too low",
			input: CreateReviewInput{ProductID: "p-1", UserID: "user-1", Rating: 0, Comment: "Nice"},
		},
		{
			name:  "rating too high",
			input: CreateReviewInput{ProductID: "p-1", UserID: "user-1", Rating: 6, Comment: "Nice"},
		},
		{
			name:  "blank comment",
			input: CreateReviewInput{ProductID: "p-1", UserID: "user-1", Rating: 4, Comment: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockReviewRepository)
			svc := newTestReviewService(repo)

			review, err := svc.CreateReview(context.Background(), &tt.input)

			assert.Nil(t, review)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateReview_Duplicate(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.AlreadyExists("review", "product", "p-1"))

	review, err := svc.CreateReview(ctx, &CreateReviewInput{
		ProductID: "p-1",
		UserID:    "user-1",
		Rating:    5,
		Comment:   "Again!",
	})

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCreateReview_ProductMissing(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.NotFound("product", "ghost"))

	review, err := svc.CreateReview(ctx, &CreateReviewInput{
		ProductID: "ghost",
		UserID:    "user-1",
		Rating:    3,
		Comment:   "Hmm",
	})

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- ListReviews Tests ---

func TestListReviews_FirstPage(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	reviews := []domain.Review{
		{ID: "r-2", ProductID: "p-1", Username: "alice", Rating: 5, CreatedAt: time.Now().UTC()},
		{ID: "r-1", ProductID: "p-1", Username: "bob", Rating: 3, CreatedAt: time.Now().UTC().Add(-time.Hour)},
	}
	summary := &domain.ReviewSummary{AverageRating: 4.0, TotalCount: 12}

	repo.On("ListByProductID", ctx, "p-1", 5, 0).Return(reviews, 12, nil)
	repo.On("GetSummary", ctx, "p-1").Return(summary, nil)

	result, err := svc.ListReviews(ctx, "p-1", 1, 5)

	require.NoError(t, err)
	assert.Len(t, result.Reviews, 2)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 12, result.TotalReviews)
	assert.Equal(t, 4.0, result.Summary.AverageRating)

	repo.AssertExpectations(t)
}

func TestListReviews_DefaultsAndClamping(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	// Zero page and limit fall back to page 1, limit 5.
	repo.On("ListByProductID", ctx, "p-1", 5, 0).Return([]domain.Review{}, 0, nil).Once()
	repo.On("GetSummary", ctx, "p-1").Return(&domain.ReviewSummary{}, nil)

	result, err := svc.ListReviews(ctx, "p-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentPage)

	// Oversized limit is capped at 100.
	repo.On("ListByProductID", ctx, "p-1", 100, 100).Return([]domain.Review{}, 0, nil).Once()

	result, err = svc.ListReviews(ctx, "p-1", 2, 500)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CurrentPage)

	repo.AssertExpectations(t)
}

func TestListReviews_PastTheEndPage(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)
	ctx := context.Background()

	repo.On("ListByProductID", ctx, "p-1", 5, 45).Return([]domain.Review{}, 12, nil)
	repo.On("GetSummary", ctx, "p-1").Return(&domain.ReviewSummary{AverageRating: 4.0, TotalCount: 12}, nil)

	result, err := svc.ListReviews(ctx, "p-1", 10, 5)

	require.NoError(t, err)
	assert.Empty(t, result.Reviews)
	assert.Equal(t, 10, result.CurrentPage)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 12, result.TotalReviews)
}

func TestListReviews_MissingProductID(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	result, err := svc.ListReviews(context.Background(), "", 1, 5)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "ListByProductID")
}
