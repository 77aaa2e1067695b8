package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/pkg/database"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
)

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const insertReviewQuery = `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

// recomputeRatingQuery updates the product's cached aggregate from a single
// aggregate subquery, so concurrent review inserts never lose updates.
const recomputeRatingQuery = `
		UPDATE products p
		SET average_rating = s.avg_rating,
		    review_count = s.review_count,
		    updated_at = NOW()
		FROM (
			SELECT (ROUND(AVG(rating)::numeric, 1))::float8 AS avg_rating,
			       COUNT(*) AS review_count
			FROM reviews
			WHERE product_id = $1
		) s
		WHERE p.id = $1`

// Create inserts a new review and recomputes the product's cached average
// rating inside one transaction. A duplicate (product, user) pair maps to
// AlreadyExists via the unique constraint; a missing product maps to NotFound
// via the foreign key.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertReviewQuery,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "product", review.ProductID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", review.ProductID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	if _, err := tx.Exec(ctx, recomputeRatingQuery, review.ProductID); err != nil {
		return fmt.Errorf("recompute product rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListByProductID returns one page of reviews for a product, newest first,
// with the author's username joined in, along with the total count.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	query := `
		SELECT r.id, r.product_id, r.user_id, u.username, r.rating, r.comment, r.created_at,
		       count(*) OVER() AS total_count
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Username,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	// The window count is zero-valued when the page is past the end, so a
	// separate count query keeps the totals correct for out-of-range pages.
	if len(reviews) == 0 {
		countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`
		if err := r.pool.QueryRow(ctx, countQuery, productID).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("count reviews: %w", err)
		}
	}

	return reviews, totalCount, nil
}

// GetSummary returns the average rating and total count of reviews for a product.
func (r *ReviewRepository) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1`

	var summary domain.ReviewSummary

	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&summary.AverageRating,
		&summary.TotalCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	// Round average rating to one decimal place.
	summary.AverageRating = math.Round(summary.AverageRating*10) / 10

	return &summary, nil
}
