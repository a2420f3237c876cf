package domain

import (
	"context"
	"time"
)

type FriendshipStatus int

const (
	FriendshipPending  FriendshipStatus = 0
	FriendshipAccepted FriendshipStatus = 1
)

// FriendshipEdge is one directed friendship row. A pending request is a
// single edge (requester -> target, status 0); an accepted relationship is
// two mirrored edges, one in each direction, both with status 1.
type FriendshipEdge struct {
	ID        string           `json:"id"`
	User1ID   string           `json:"user1_id"`
	User2ID   string           `json:"user2_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	ImageFile string `json:"image_file,omitempty"`
}

type FriendRequest struct {
	ID        string      `json:"id"`
	From      UserSummary `json:"from"`
	CreatedAt time.Time   `json:"created_at"`
}

// PairState is the derived relationship between a viewer and another user,
// collapsing the directed edge rows into what the UI needs to render.
type PairState string

const (
	PairNone            PairState = "none"
	PairPendingOutgoing PairState = "pending_outgoing"
	PairPendingIncoming PairState = "pending_incoming"
	PairAccepted        PairState = "accepted"
)

// PairView is the viewer-relative relationship with another user plus the
// edge id the viewer would act on (accept/ignore the incoming request).
type PairView struct {
	State  PairState `json:"state"`
	EdgeID string    `json:"edge_id,omitempty"`
}

// FriendshipTx exposes the edge and counter primitives available inside a
// single atomic friendship transition. Reads lock the touched rows until the
// transaction ends, so concurrent transitions on the same pair serialize.
type FriendshipTx interface {
	// LockPair takes row locks on both user records in a stable order, so
	// two concurrent transitions on the same unordered pair serialize even
	// when no edge row exists yet to lock.
	LockPair(ctx context.Context, a, b string) error
	// EdgeByID returns the edge or ErrNotFound.
	EdgeByID(ctx context.Context, id string) (FriendshipEdge, error)
	// EdgesBetween returns the edges linking a and b in either direction.
	EdgesBetween(ctx context.Context, a, b string) ([]FriendshipEdge, error)
	InsertEdge(ctx context.Context, user1ID, user2ID string, status FriendshipStatus) (FriendshipEdge, error)
	SetEdgeStatus(ctx context.Context, id string, status FriendshipStatus) error
	DeleteEdge(ctx context.Context, id string) error
	// AdjustFriendCounts moves both users' denormalized friends counters by
	// delta. It is the only way any transition touches the counters.
	AdjustFriendCounts(ctx context.Context, userA, userB string, delta int) error
}
