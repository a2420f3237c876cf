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

type FriendshipsStore struct {
	pool *pgxpool.Pool
}

func NewFriendshipsStore(pool *pgxpool.Pool) *FriendshipsStore {
	return &FriendshipsStore{pool: pool}
}

// Transition runs fn against the edge primitives inside one transaction.
// The service layer drives every friendship state change through here.
func (s *FriendshipsStore) Transition(ctx context.Context, fn func(domain.FriendshipTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin friendship tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&friendshipTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit friendship tx: %w", err)
	}
	return nil
}

type friendshipTx struct {
	tx pgx.Tx
}

func (t *friendshipTx) LockPair(ctx context.Context, a, b string) error {
	const q = `SELECT id FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := t.tx.Query(ctx, q, []string{a, b})
	if err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	if n != 2 {
		return domain.ErrNotFound
	}
	return nil
}

func scanEdge(row rowScanner) (domain.FriendshipEdge, error) {
	var (
		e      domain.FriendshipEdge
		idUUID pgtype.UUID
		u1UUID pgtype.UUID
		u2UUID pgtype.UUID
	)
	if err := row.Scan(&idUUID, &u1UUID, &u2UUID, &e.Status, &e.CreatedAt); err != nil {
		return domain.FriendshipEdge{}, err
	}
	e.ID = uuidOrEmpty(idUUID)
	e.User1ID = uuidOrEmpty(u1UUID)
	e.User2ID = uuidOrEmpty(u2UUID)
	return e, nil
}

func (t *friendshipTx) EdgeByID(ctx context.Context, id string) (domain.FriendshipEdge, error) {
	const q = `
		SELECT id, user1_id, user2_id, status, created_at
		FROM friendships
		WHERE id = $1
		FOR UPDATE
	`
	e, err := scanEdge(t.tx.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FriendshipEdge{}, domain.ErrNotFound
		}
		return domain.FriendshipEdge{}, fmt.Errorf("get edge: %w", err)
	}
	return e, nil
}

func (t *friendshipTx) EdgesBetween(ctx context.Context, a, b string) ([]domain.FriendshipEdge, error) {
	const q = `
		SELECT id, user1_id, user2_id, status, created_at
		FROM friendships
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		ORDER BY created_at ASC
		FOR UPDATE
	`
	return queryEdges(ctx, t.tx, q, a, b)
}

func (t *friendshipTx) InsertEdge(ctx context.Context, user1ID, user2ID string, status domain.FriendshipStatus) (domain.FriendshipEdge, error) {
	const q = `
		INSERT INTO friendships (user1_id, user2_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user1_id, user2_id, status, created_at
	`
	e, err := scanEdge(t.tx.QueryRow(ctx, q, user1ID, user2ID, status))
	if err != nil {
		return domain.FriendshipEdge{}, fmt.Errorf("insert edge: %w", err)
	}
	return e, nil
}

func (t *friendshipTx) SetEdgeStatus(ctx context.Context, id string, status domain.FriendshipStatus) error {
	const q = `UPDATE friendships SET status = $2 WHERE id = $1`
	ct, err := t.tx.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("set edge status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *friendshipTx) DeleteEdge(ctx context.Context, id string) error {
	const q = `DELETE FROM friendships WHERE id = $1`
	ct, err := t.tx.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *friendshipTx) AdjustFriendCounts(ctx context.Context, userA, userB string, delta int) error {
	const q = `UPDATE users SET friends = friends + $2 WHERE id = ANY($1)`
	ct, err := t.tx.Exec(ctx, q, []string{userA, userB}, delta)
	if err != nil {
		return fmt.Errorf("adjust friend counts: %w", err)
	}
	if ct.RowsAffected() != 2 {
		return fmt.Errorf("adjust friend counts: updated %d of 2 users", ct.RowsAffected())
	}
	return nil
}

// EdgesBetween outside a transition is a plain read for rendering.
func (s *FriendshipsStore) EdgesBetween(ctx context.Context, a, b string) ([]domain.FriendshipEdge, error) {
	const q = `
		SELECT id, user1_id, user2_id, status, created_at
		FROM friendships
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
		ORDER BY created_at ASC
	`
	return queryEdges(ctx, s.pool, q, a, b)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryEdges(ctx context.Context, q querier, sql string, args ...any) ([]domain.FriendshipEdge, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var out []domain.FriendshipEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	return out, nil
}

// ListIncoming returns the pending requests addressed to userID, newest first.
func (s *FriendshipsStore) ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	const q = `
		SELECT f.id, f.created_at, u.id, u.username, u.image_file
		FROM friendships f
		JOIN users u ON u.id = f.user1_id
		WHERE f.user2_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC
	`

	rows, err := s.pool.Query(ctx, q, userID, domain.FriendshipPending)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	defer rows.Close()

	var out []domain.FriendRequest
	for rows.Next() {
		var (
			reqIDUUID  pgtype.UUID
			fromIDUUID pgtype.UUID
			fr         domain.FriendRequest
		)
		if err := rows.Scan(&reqIDUUID, &fr.CreatedAt, &fromIDUUID, &fr.From.Username, &fr.From.ImageFile); err != nil {
			return nil, fmt.Errorf("scan incoming request: %w", err)
		}
		fr.ID = uuidOrEmpty(reqIDUUID)
		fr.From.ID = uuidOrEmpty(fromIDUUID)
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return out, nil
}

func (s *FriendshipsStore) CountIncoming(ctx context.Context, userID string) (int, error) {
	const q = `SELECT count(*) FROM friendships WHERE user2_id = $1 AND status = $2`

	var n int
	if err := s.pool.QueryRow(ctx, q, userID, domain.FriendshipPending).Scan(&n); err != nil {
		return 0, fmt.Errorf("count incoming requests: %w", err)
	}
	return n, nil
}

// CountAccepted counts the accepted edges pointing away from userID, which
// equals the user's accepted mirror-pair count when the invariants hold.
func (s *FriendshipsStore) CountAccepted(ctx context.Context, userID string) (int, error) {
	const q = `SELECT count(*) FROM friendships WHERE user1_id = $1 AND status = $2`

	var n int
	if err := s.pool.QueryRow(ctx, q, userID, domain.FriendshipAccepted).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accepted friendships: %w", err)
	}
	return n, nil
}
