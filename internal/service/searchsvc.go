package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"friendfeed/internal/domain"
)

type UserSearchStore interface {
	SearchByPrefix(ctx context.Context, q string) ([]domain.UserSummary, error)
}

type SearchService struct {
	Store UserSearchStore
}

// Search matches the first three characters of the query against the first
// three characters of every username, case-insensitively. Queries shorter
// than three characters are rejected rather than compared out of bounds;
// stored usernames shorter than three characters never match.
func (s *SearchService) Search(ctx context.Context, q string) ([]domain.UserSummary, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < 3 {
		return nil, domain.NewValidationError(map[string]string{"username": "must be at least 3 characters"})
	}
	return s.Store.SearchByPrefix(ctx, q)
}
