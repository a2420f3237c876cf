package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"friendfeed/internal/domain"
)

type PostsStore interface {
	CreatePost(ctx context.Context, userID, content, image string) (domain.Post, error)
	GetPost(ctx context.Context, id string) (domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error)
	ListPostsByUser(ctx context.Context, userID string) ([]domain.PostWithAuthor, error)
	DeletePost(ctx context.Context, id string) error
}

type PostsService struct {
	Store PostsStore
}

// Create validates the content and stores the post; the creation timestamp
// comes from the store's clock, never from the client. image is a filename
// reference produced by the imaging layer, or empty.
func (s *PostsService) Create(ctx context.Context, ownerID, content, image string) (domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Post{}, domain.NewValidationError(map[string]string{"content": "required"})
	}
	if utf8.RuneCountInString(content) > domain.MaxPostContentLen {
		return domain.Post{}, domain.NewValidationError(map[string]string{"content": "must be 1000 characters or less"})
	}

	return s.Store.CreatePost(ctx, ownerID, content, image)
}

// Feed is the full chronological feed, newest first.
func (s *PostsService) Feed(ctx context.Context) ([]domain.PostWithAuthor, error) {
	return s.Store.ListPosts(ctx)
}

func (s *PostsService) ByUser(ctx context.Context, userID string) ([]domain.PostWithAuthor, error) {
	return s.Store.ListPostsByUser(ctx, userID)
}

// Delete removes a post. Only the owner may delete; callers always pass the
// authenticated actor, never a client-supplied identity.
func (s *PostsService) Delete(ctx context.Context, actorID, postID string) (domain.Post, error) {
	p, err := s.Store.GetPost(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if p.UserID != actorID {
		return domain.Post{}, domain.ErrForbidden
	}

	if err := s.Store.DeletePost(ctx, p.ID); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}
