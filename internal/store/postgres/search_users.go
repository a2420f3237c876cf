package postgres

import (
	"context"
	"fmt"

	"friendfeed/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserSearchStore struct {
	pool *pgxpool.Pool
}

func NewUserSearchStore(pool *pgxpool.Pool) *UserSearchStore {
	return &UserSearchStore{pool: pool}
}

// SearchByPrefix matches users whose username shares the query's first three
// characters, case-insensitively. Usernames shorter than three characters
// never match. The caller guarantees len(q) >= 3.
func (s *UserSearchStore) SearchByPrefix(ctx context.Context, q string) ([]domain.UserSummary, error) {
	const query = `
		SELECT id, username, image_file
		FROM users
		WHERE char_length(username) >= 3
		  AND upper(left(username, 3)) = upper(left($1, 3))
		ORDER BY username ASC
	`

	rows, err := s.pool.Query(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var u domain.UserSummary
		if err := rows.Scan(&idUUID, &u.Username, &u.ImageFile); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID = uuidOrEmpty(idUUID)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return out, nil
}
