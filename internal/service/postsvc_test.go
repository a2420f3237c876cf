package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"friendfeed/internal/domain"
)

type stubPostsStore struct {
	t *testing.T

	createPostFunc func(context.Context, string, string, string) (domain.Post, error)
	getPostFunc    func(context.Context, string) (domain.Post, error)
	deletePostFunc func(context.Context, string) error
}

func (s *stubPostsStore) CreatePost(ctx context.Context, userID, content, image string) (domain.Post, error) {
	if s.createPostFunc != nil {
		return s.createPostFunc(ctx, userID, content, image)
	}
	s.t.Fatalf("unexpected CreatePost call")
	return domain.Post{}, nil
}

func (s *stubPostsStore) GetPost(ctx context.Context, id string) (domain.Post, error) {
	if s.getPostFunc != nil {
		return s.getPostFunc(ctx, id)
	}
	s.t.Fatalf("unexpected GetPost call")
	return domain.Post{}, nil
}

func (s *stubPostsStore) ListPosts(_ context.Context) ([]domain.PostWithAuthor, error) {
	s.t.Fatalf("unexpected ListPosts call")
	return nil, nil
}

func (s *stubPostsStore) ListPostsByUser(_ context.Context, _ string) ([]domain.PostWithAuthor, error) {
	s.t.Fatalf("unexpected ListPostsByUser call")
	return nil, nil
}

func (s *stubPostsStore) DeletePost(ctx context.Context, id string) error {
	if s.deletePostFunc != nil {
		return s.deletePostFunc(ctx, id)
	}
	s.t.Fatalf("unexpected DeletePost call")
	return nil
}

func TestCreatePostAtLengthLimit(t *testing.T) {
	content := strings.Repeat("x", domain.MaxPostContentLen)
	store := &stubPostsStore{
		t: t,
		createPostFunc: func(_ context.Context, userID, got, image string) (domain.Post, error) {
			if userID != "u1" || got != content || image != "" {
				t.Fatalf("unexpected args: %q %q %q", userID, got, image)
			}
			return domain.Post{ID: "p1", UserID: userID, Content: got}, nil
		},
	}
	svc := &PostsService{Store: store}

	p, err := svc.Create(context.Background(), "u1", content, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("unexpected post: %#v", p)
	}
}

func TestCreatePostTooLong(t *testing.T) {
	svc := &PostsService{Store: &stubPostsStore{t: t}}

	content := strings.Repeat("x", domain.MaxPostContentLen+1)
	_, err := svc.Create(context.Background(), "u1", content, "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePostLengthCountsRunes(t *testing.T) {
	// Multibyte content at the limit is fine even though its byte length
	// is far over it.
	content := strings.Repeat("é", domain.MaxPostContentLen)
	store := &stubPostsStore{
		t: t,
		createPostFunc: func(_ context.Context, userID, got, _ string) (domain.Post, error) {
			return domain.Post{ID: "p1", UserID: userID, Content: got}, nil
		},
	}
	svc := &PostsService{Store: store}

	if _, err := svc.Create(context.Background(), "u1", content, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestCreatePostEmpty(t *testing.T) {
	svc := &PostsService{Store: &stubPostsStore{t: t}}

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), "u1", content, "")
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("content %q: expected validation error, got %v", content, err)
		}
	}
}

func TestDeletePostByOwner(t *testing.T) {
	deleted := false
	store := &stubPostsStore{
		t: t,
		getPostFunc: func(_ context.Context, id string) (domain.Post, error) {
			return domain.Post{ID: id, UserID: "u1", Image: "pic.jpg"}, nil
		},
		deletePostFunc: func(_ context.Context, id string) error {
			if id != "p1" {
				t.Fatalf("unexpected delete id %q", id)
			}
			deleted = true
			return nil
		},
	}
	svc := &PostsService{Store: store}

	p, err := svc.Delete(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("store delete not called")
	}
	if p.Image != "pic.jpg" {
		t.Fatalf("expected deleted post returned, got %#v", p)
	}
}

func TestDeletePostByNonOwnerForbidden(t *testing.T) {
	store := &stubPostsStore{
		t: t,
		getPostFunc: func(_ context.Context, id string) (domain.Post, error) {
			return domain.Post{ID: id, UserID: "u1"}, nil
		},
	}
	svc := &PostsService{Store: store}

	_, err := svc.Delete(context.Background(), "u2", "p1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeletePostMissing(t *testing.T) {
	store := &stubPostsStore{
		t: t,
		getPostFunc: func(_ context.Context, _ string) (domain.Post, error) {
			return domain.Post{}, domain.ErrNotFound
		},
	}
	svc := &PostsService{Store: store}

	_, err := svc.Delete(context.Background(), "u1", "p404")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
