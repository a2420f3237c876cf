package service

import (
	"context"

	"friendfeed/internal/domain"
)

type FriendshipsStore interface {
	// Transition runs fn as one atomic read-modify-write transaction.
	Transition(ctx context.Context, fn func(domain.FriendshipTx) error) error
	EdgesBetween(ctx context.Context, a, b string) ([]domain.FriendshipEdge, error)
	ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error)
	CountIncoming(ctx context.Context, userID string) (int, error)
	CountAccepted(ctx context.Context, userID string) (int, error)
}

// FriendsService owns the friendship state machine. Per unordered pair the
// states are NONE -> PENDING(requester) -> ACCEPTED, with PENDING -> NONE
// (ignored) and ACCEPTED -> NONE (unfriended). A pending request is one edge
// row; an accepted relationship is two mirrored rows. The denormalized
// friends counters move only inside AdjustFriendCounts, only for transitions
// into or out of ACCEPTED.
type FriendsService struct {
	Users       UsersStore
	Friendships FriendshipsStore
}

// Request creates a pending edge actor -> target. If any edge already links
// the pair, in either direction and whatever its status, the call is a
// silent no-op: repeating a request, or requesting someone who already
// requested you, never surfaces an error.
func (s *FriendsService) Request(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.NewValidationError(map[string]string{"user": "cannot friend yourself"})
	}

	if _, err := s.Users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	return s.Friendships.Transition(ctx, func(tx domain.FriendshipTx) error {
		if err := tx.LockPair(ctx, actorID, targetID); err != nil {
			return err
		}
		edges, err := tx.EdgesBetween(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if len(edges) > 0 {
			return nil
		}
		_, err = tx.InsertEdge(ctx, actorID, targetID, domain.FriendshipPending)
		return err
	})
}

// Accept flips a pending edge to accepted, inserts the mirror edge and
// increments both counters. Only the addressee of the request may accept.
// Accepting an already-accepted edge is a no-op, so counters never move
// twice for one relationship.
func (s *FriendsService) Accept(ctx context.Context, actorID, edgeID string) error {
	return s.Friendships.Transition(ctx, func(tx domain.FriendshipTx) error {
		e, err := tx.EdgeByID(ctx, edgeID)
		if err != nil {
			return err
		}
		if e.User2ID != actorID {
			return domain.ErrForbidden
		}
		if e.Status == domain.FriendshipAccepted {
			return nil
		}

		if err := tx.SetEdgeStatus(ctx, e.ID, domain.FriendshipAccepted); err != nil {
			return err
		}
		if _, err := tx.InsertEdge(ctx, e.User2ID, e.User1ID, domain.FriendshipAccepted); err != nil {
			return err
		}
		return tx.AdjustFriendCounts(ctx, e.User1ID, e.User2ID, 1)
	})
}

// Ignore deletes the edge. A pending request just disappears; ignoring an
// accepted edge tears down the whole relationship, mirror row and counters
// included, exactly like Remove. Only a participant may ignore.
func (s *FriendsService) Ignore(ctx context.Context, actorID, edgeID string) error {
	return s.Friendships.Transition(ctx, func(tx domain.FriendshipTx) error {
		e, err := tx.EdgeByID(ctx, edgeID)
		if err != nil {
			return err
		}
		if e.User1ID != actorID && e.User2ID != actorID {
			return domain.ErrForbidden
		}

		if e.Status == domain.FriendshipPending {
			return tx.DeleteEdge(ctx, e.ID)
		}
		return removeAccepted(ctx, tx, e)
	})
}

// Remove tears down whatever links actor and other: an accepted pair loses
// both rows and one counter tick on each side, a pending request is simply
// cancelled. No edges at all is NotFound.
func (s *FriendsService) Remove(ctx context.Context, actorID, otherID string) error {
	if actorID == otherID {
		return domain.NewValidationError(map[string]string{"user": "cannot unfriend yourself"})
	}

	return s.Friendships.Transition(ctx, func(tx domain.FriendshipTx) error {
		if err := tx.LockPair(ctx, actorID, otherID); err != nil {
			return err
		}
		edges, err := tx.EdgesBetween(ctx, actorID, otherID)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			return domain.ErrNotFound
		}

		if edges[0].Status == domain.FriendshipPending {
			// A pending request never counted, so no counter change.
			return tx.DeleteEdge(ctx, edges[0].ID)
		}
		return removeAccepted(ctx, tx, edges[0])
	})
}

// removeAccepted deletes an accepted edge together with its mirror and
// decrements both counters once. A lone accepted edge means the store has
// been corrupted outside the state machine; surface it instead of crashing.
func removeAccepted(ctx context.Context, tx domain.FriendshipTx, e domain.FriendshipEdge) error {
	edges, err := tx.EdgesBetween(ctx, e.User1ID, e.User2ID)
	if err != nil {
		return err
	}

	var mirror *domain.FriendshipEdge
	for i := range edges {
		if edges[i].ID != e.ID && edges[i].Status == domain.FriendshipAccepted {
			mirror = &edges[i]
			break
		}
	}
	if mirror == nil {
		return domain.ErrMissingMirrorEdge
	}

	if err := tx.DeleteEdge(ctx, e.ID); err != nil {
		return err
	}
	if err := tx.DeleteEdge(ctx, mirror.ID); err != nil {
		return err
	}
	return tx.AdjustFriendCounts(ctx, e.User1ID, e.User2ID, -1)
}

func (s *FriendsService) IncomingRequests(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	return s.Friendships.ListIncoming(ctx, userID)
}

func (s *FriendsService) CountIncoming(ctx context.Context, userID string) (int, error) {
	return s.Friendships.CountIncoming(ctx, userID)
}

// PairView collapses the directed edges between viewer and other into the
// relationship the UI renders, viewer-relative.
func (s *FriendsService) PairView(ctx context.Context, viewerID, otherID string) (domain.PairView, error) {
	if viewerID == otherID {
		return domain.PairView{State: domain.PairNone}, nil
	}

	edges, err := s.Friendships.EdgesBetween(ctx, viewerID, otherID)
	if err != nil {
		return domain.PairView{}, err
	}
	if len(edges) == 0 {
		return domain.PairView{State: domain.PairNone}, nil
	}

	e := edges[0]
	if e.Status == domain.FriendshipAccepted {
		return domain.PairView{State: domain.PairAccepted, EdgeID: e.ID}, nil
	}
	if e.User1ID == viewerID {
		return domain.PairView{State: domain.PairPendingOutgoing, EdgeID: e.ID}, nil
	}
	return domain.PairView{State: domain.PairPendingIncoming, EdgeID: e.ID}, nil
}

// AcceptedCount recomputes a user's accepted-pair count from the edge set,
// bypassing the denormalized counter. Used to cross-check counter drift.
func (s *FriendsService) AcceptedCount(ctx context.Context, userID string) (int, error) {
	return s.Friendships.CountAccepted(ctx, userID)
}
