package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

const reviewColumns = `id, listing_id, user_id, user_name, rating, comment, created_at`

// ReviewStore persists reviews in PostgreSQL.
type ReviewStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewReviewStore(db *sql.DB, log logger.Logger) *ReviewStore {
	return &ReviewStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "reviews"}),
	}
}

func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		review.ID, review.ListingID, review.UserID, review.UserName,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

func (s *ReviewStore) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var r models.Review
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.ListingID, &r.UserID, &r.UserName,
		&r.Rating, &r.Comment, &r.CreatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("Review")
	}
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &r, nil
}

// ListByListing returns a listing's reviews, newest first.
func (s *ReviewStore) ListByListing(ctx context.Context, listingID string) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE listing_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(
			&r.ID, &r.ListingID, &r.UserID, &r.UserName,
			&r.Rating, &r.Comment, &r.CreatedAt,
		); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return reviews, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("Review")
	}
	return nil
}

// Summary recomputes the rating aggregate for a listing. An unreviewed
// listing yields a zero average and zero count.
func (s *ReviewStore) Summary(ctx context.Context, listingID string) (models.RatingSummary, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE listing_id = $1`

	var summary models.RatingSummary
	err := s.db.QueryRowContext(ctx, query, listingID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return models.RatingSummary{}, errors.NewDatabaseError(err)
	}
	return summary, nil
}
