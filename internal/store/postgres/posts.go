package postgres

import (
	"context"
	"errors"
	"fmt"

	"friendfeed/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsStore struct {
	pool *pgxpool.Pool
}

func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

func (s *PostsStore) CreatePost(ctx context.Context, userID, content, image string) (domain.Post, error) {
	const q = `
		INSERT INTO posts (user_id, content, image)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, content, image, created_at
	`

	p, err := scanPost(s.pool.QueryRow(ctx, q, userID, content, nullIfEmpty(image)))
	if err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func scanPost(row rowScanner) (domain.Post, error) {
	var (
		p       domain.Post
		idUUID  pgtype.UUID
		usrUUID pgtype.UUID
		image   pgtype.Text
	)
	if err := row.Scan(&idUUID, &usrUUID, &p.Content, &image, &p.CreatedAt); err != nil {
		return domain.Post{}, err
	}
	p.ID = uuidOrEmpty(idUUID)
	p.UserID = uuidOrEmpty(usrUUID)
	p.Image = textOrEmpty(image)
	return p, nil
}

func (s *PostsStore) GetPost(ctx context.Context, id string) (domain.Post, error) {
	const q = `SELECT id, user_id, content, image, created_at FROM posts WHERE id = $1`

	p, err := scanPost(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

const postWithAuthorQuery = `
	SELECT p.id, p.user_id, p.content, p.image, p.created_at, u.id, u.username, u.image_file
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

// ListPosts returns every post, newest first. The feed is a full-table read
// on purpose; there is no pagination in this application.
func (s *PostsStore) ListPosts(ctx context.Context) ([]domain.PostWithAuthor, error) {
	return s.queryPosts(ctx, postWithAuthorQuery+` ORDER BY p.created_at DESC`)
}

func (s *PostsStore) ListPostsByUser(ctx context.Context, userID string) ([]domain.PostWithAuthor, error) {
	return s.queryPosts(ctx, postWithAuthorQuery+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
}

func (s *PostsStore) queryPosts(ctx context.Context, q string, args ...any) ([]domain.PostWithAuthor, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []domain.PostWithAuthor
	for rows.Next() {
		var (
			p       domain.PostWithAuthor
			idUUID  pgtype.UUID
			usrUUID pgtype.UUID
			image   pgtype.Text
			auUUID  pgtype.UUID
		)
		if err := rows.Scan(&idUUID, &usrUUID, &p.Content, &image, &p.CreatedAt, &auUUID, &p.Author.Username, &p.Author.ImageFile); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.ID = uuidOrEmpty(idUUID)
		p.UserID = uuidOrEmpty(usrUUID)
		p.Image = textOrEmpty(image)
		p.Author.ID = uuidOrEmpty(auUUID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (s *PostsStore) DeletePost(ctx context.Context, id string) error {
	const q = `DELETE FROM posts WHERE id = $1`

	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
