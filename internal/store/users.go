package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

const userColumns = `id, name, email, phone, password_hash, role, skills, bio, experience, location, rating, completed_jobs, created_at, updated_at`

// UserStore persists accounts in PostgreSQL.
type UserStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserStore(db *sql.DB, log logger.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "users"}),
	}
}

// Create inserts a new user. A taken email address yields a duplicate error.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role,
		pq.Array(user.Skills), user.Bio, user.Experience, user.Location,
		user.Rating, user.CompletedJobs, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errors.NewDuplicateError("Email already registered")
		}
		return errors.NewDatabaseError(err)
	}
	return nil
}

// FindByEmail resolves a user for login. Returns a not-found error when
// no account exists for the address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

// FindByID resolves a user by primary key.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *UserStore) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.Role,
		pq.Array(&user.Skills), &user.Bio, &user.Experience, &user.Location,
		&user.Rating, &user.CompletedJobs, &user.CreatedAt, &user.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("User")
	}
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &user, nil
}
