package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/event"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
	"github.com/utafrali/ProductReviewGo/pkg/pagination"
)

// productInvalidator drops a product's cache entry after its cached rating
// aggregate changes.
type productInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo     repository.ReviewRepository
	cache    productInvalidator
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service. cache may be nil.
func NewReviewService(
	repo repository.ReviewRepository,
	cache productInvalidator,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	UserID    string
	Rating    int
	Comment   string
}

// ReviewListResult contains one page of reviews plus the aggregate summary.
type ReviewListResult struct {
	Reviews      []domain.Review       `json:"reviews"`
	Summary      *domain.ReviewSummary `json:"summary"`
	CurrentPage  int                   `json:"current_page"`
	TotalPages   int                   `json:"total_pages"`
	TotalReviews int                   `json:"total_reviews"`
}

// CreateReview creates a new product review. The repository persists the
// review and recomputes the product's rating aggregate in one transaction.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	// The product's cached average rating just changed.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, review.ProductID); err != nil {
			s.logger.WarnContext(ctx, "product cache invalidation failed",
				slog.String("product_id", review.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns one page of reviews for a product, newest first, along
// with the aggregate summary. Pages past the end yield an empty slice with
// the totals intact.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, limit int) (*ReviewListResult, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	params := pagination.Clamp(page, limit)

	reviews, total, err := s.repo.ListByProductID(ctx, productID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.repo.GetSummary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	return &ReviewListResult{
		Reviews:      reviews,
		Summary:      summary,
		CurrentPage:  params.Page,
		TotalPages:   pagination.TotalPages(total, params.Limit),
		TotalReviews: total,
	}, nil
}
