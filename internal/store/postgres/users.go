package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"friendfeed/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, username, image_file, gender, dob, job, home, last_studies, friends, created_at, updated_at, last_login_at`

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u           domain.User
		idUUID      pgtype.UUID
		dob         pgtype.Date
		lastLoginTS pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&u.ImageFile,
		&u.Gender,
		&dob,
		&u.Job,
		&u.Home,
		&u.LastStudies,
		&u.Friends,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.ID = uuidOrEmpty(idUUID)
	u.DOB = datePtr(dob)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, username, passwordHash))
	if err != nil {
		return domain.User{}, mapUserWriteError("create user", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	const q = `SELECT password_hash, ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`

	var (
		u           domain.UserWithPassword
		idUUID      pgtype.UUID
		dob         pgtype.Date
		lastLoginTS pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&u.PasswordHash,
		&idUUID,
		&u.Email,
		&u.Username,
		&u.ImageFile,
		&u.Gender,
		&dob,
		&u.Job,
		&u.Home,
		&u.LastStudies,
		&u.Friends,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by email: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.DOB = datePtr(dob)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	const q = `
		UPDATE users
		SET username = $2, email = $3, gender = $4, dob = $5, job = $6, home = $7, last_studies = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q,
		userID, upd.Username, upd.Email, upd.Gender, dateArg(upd.DOB), upd.Job, upd.Home, upd.LastStudies))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, mapUserWriteError("update profile", err)
	}
	return u, nil
}

func (s *UsersStore) SetImageFile(ctx context.Context, userID, imageFile string) error {
	const q = `
		UPDATE users
		SET image_file = $2, updated_at = now()
		WHERE id = $1
	`
	ct, err := s.pool.Exec(ctx, q, userID, imageFile)
	if err != nil {
		return fmt.Errorf("set image file: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	const q = `
		UPDATE users
		SET last_login_at = $2
		WHERE id = $1
	`
	if _, err := s.pool.Exec(ctx, q, userID, when); err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

func mapUserWriteError(op string, err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		if pgerr.ConstraintName == "users_email_uq" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("%s: unique violation (%s): %w", op, pgerr.ConstraintName, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
