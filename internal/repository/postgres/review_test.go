package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ProductReviewGo/internal/domain"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
)

var reviewTime = time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:        "rev-1",
		ProductID: "prod-1",
		UserID:    "u-1",
		Rating:    4,
		Comment:   "Solid build, good value.",
		CreatedAt: reviewTime,
	}
}

var reviewListColumns = []string{
	"id", "product_id", "user_id", "username", "rating", "comment",
	"created_at", "total_count",
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReviewRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE products p").
		WithArgs(rv.ProductID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_Duplicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint \"reviews_product_id_user_id_key\" (SQLSTATE 23505)"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ProductMissing(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	rv.ProductID = "ghost"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		WillReturnError(fmt.Errorf("ERROR: insert or update on table \"reviews\" violates foreign key constraint (SQLSTATE 23503)"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_RecomputeFails_RollsBack(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rv := sampleReview()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE products p").
		WithArgs(rv.ProductID).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recompute product rating")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByProductID
// ---------------------------------------------------------------------------

func TestReviewRepository_ListByProductID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rows := pgxmock.NewRows(reviewListColumns).
		AddRow("rev-2", "prod-1", "u-2", "bob", 5, "Excellent", reviewTime.Add(time.Hour), 7).
		AddRow("rev-1", "prod-1", "u-1", "alice", 4, "Solid build", reviewTime, 7)

	mock.ExpectQuery("SELECT .+ FROM reviews r JOIN users u").
		WithArgs("prod-1", 5, 0).
		WillReturnRows(rows)

	reviews, total, err := repo.ListByProductID(context.Background(), "prod-1", 5, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 7, total)
	assert.Equal(t, "bob", reviews[0].Username)
	assert.Equal(t, "alice", reviews[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_PastTheEndPage(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// The window-function total is lost when the page has no rows, so the
	// repository issues a separate count.
	mock.ExpectQuery("SELECT .+ FROM reviews r JOIN users u").
		WithArgs("prod-1", 5, 10).
		WillReturnRows(pgxmock.NewRows(reviewListColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reviews").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	reviews, total, err := repo.ListByProductID(context.Background(), "prod-1", 5, 10)
	require.NoError(t, err)
	assert.NotNil(t, reviews, "empty page should be a non-nil slice")
	assert.Empty(t, reviews)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_NoReviews(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews r JOIN users u").
		WithArgs("prod-lonely", 5, 0).
		WillReturnRows(pgxmock.NewRows(reviewListColumns))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reviews").
		WithArgs("prod-lonely").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	reviews, total, err := repo.ListByProductID(context.Background(), "prod-lonely", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetSummary
// ---------------------------------------------------------------------------

func TestReviewRepository_GetSummary_RoundsToOneDecimal(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// Mean of 4, 5, 3, 2 is 3.5; the database AVG arrives unrounded.
	mock.ExpectQuery("SELECT COALESCE\\(AVG\\(rating\\), 0\\), COUNT\\(\\*\\)").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(3.5, 4))

	summary, err := repo.GetSummary(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, summary.AverageRating)
	assert.Equal(t, 4, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetSummary_RepeatingDecimal(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// Mean of 4 and 5 and 5 is 4.666...; expect 4.7 after rounding.
	mock.ExpectQuery("SELECT COALESCE\\(AVG\\(rating\\), 0\\), COUNT\\(\\*\\)").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.666666666666667, 3))

	summary, err := repo.GetSummary(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 4.7, summary.AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetSummary_ZeroReviews(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT COALESCE\\(AVG\\(rating\\), 0\\), COUNT\\(\\*\\)").
		WithArgs("prod-lonely").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	summary, err := repo.GetSummary(context.Background(), "prod-lonely")
	require.NoError(t, err)
	assert.Zero(t, summary.AverageRating)
	assert.Zero(t, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
