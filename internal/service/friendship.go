package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
)

// FriendshipEngine maintains the directional friendship edges between
// users.  For every ordered pair (A,B) the edge A→B is absent, PENDING or
// CONFIRMED; when both A→B and B→A exist both are CONFIRMED, and a lone
// edge is PENDING.
type FriendshipEngine struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
	locks  *pairLocks
	now    func() time.Time
}

// NewFriendshipEngine constructs the engine.  events may be nil.
func NewFriendshipEngine(store repository.Store, events EventPublisher, log *zap.Logger) *FriendshipEngine {
	return &FriendshipEngine{
		store:  store,
		events: events,
		log:    orNop(log).Named("friendship"),
		locks:  newPairLocks(),
		now:    utcNow,
	}
}

// AddFriend records that ownerID befriends targetID.  If targetID had
// already added ownerID both edges become CONFIRMED, otherwise the new
// edge is PENDING.  Adding an existing edge is a ConflictError.
func (e *FriendshipEngine) AddFriend(ctx context.Context, ownerID, targetID uint64) error {
	if ownerID == targetID {
		return model.Invalid("friendId", "User cannot add themselves as a friend")
	}
	unlock := e.locks.lock(ownerID, targetID)
	defer unlock()

	status := model.FriendshipPending
	err := e.store.WithTx(ctx, func(tx repository.Store) error {
		if err := requireUsers(ctx, tx, ownerID, targetID); err != nil {
			return err
		}
		_, exists, err := tx.GetFriendship(ctx, ownerID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return model.Conflict("User %d is already a friend of user %d", targetID, ownerID)
		}
		_, reverse, err := tx.GetFriendship(ctx, targetID, ownerID)
		if err != nil {
			return err
		}
		if reverse {
			status = model.FriendshipConfirmed
			if err := tx.SaveFriendship(ctx, targetID, ownerID, model.FriendshipConfirmed); err != nil {
				return err
			}
		}
		return tx.SaveFriendship(ctx, ownerID, targetID, status)
	})
	if err != nil {
		return err
	}

	ev := queue.ActivityEvent{
		Type:       queue.FriendAdded,
		UserID:     ownerID,
		TargetID:   targetID,
		Status:     string(status),
		OccurredAt: e.now(),
	}
	if status == model.FriendshipConfirmed {
		ev.Type = queue.FriendConfirmed
		metrics.FriendshipTransitions.WithLabelValues(metrics.TransitionConfirmed).Inc()
	} else {
		metrics.FriendshipTransitions.WithLabelValues(metrics.TransitionRequested).Inc()
	}
	e.log.Info("friend added",
		zap.Uint64("user_id", ownerID), zap.Uint64("friend_id", targetID), zap.String("status", string(status)))
	emit(ctx, e.events, e.log, ev)
	return nil
}

// RemoveFriend deletes the edge ownerID→targetID.  A CONFIRMED reverse
// edge falls back to PENDING.  Removing an absent edge is a no-op.
func (e *FriendshipEngine) RemoveFriend(ctx context.Context, ownerID, targetID uint64) error {
	unlock := e.locks.lock(ownerID, targetID)
	defer unlock()

	var removed, downgraded bool
	err := e.store.WithTx(ctx, func(tx repository.Store) error {
		if err := requireUsers(ctx, tx, ownerID, targetID); err != nil {
			return err
		}
		var err error
		if removed, err = tx.DeleteFriendship(ctx, ownerID, targetID); err != nil {
			return err
		}
		status, reverse, err := tx.GetFriendship(ctx, targetID, ownerID)
		if err != nil {
			return err
		}
		if reverse && status == model.FriendshipConfirmed {
			downgraded = true
			return tx.SaveFriendship(ctx, targetID, ownerID, model.FriendshipPending)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !removed {
		e.log.Debug("friend removal was a no-op",
			zap.Uint64("user_id", ownerID), zap.Uint64("friend_id", targetID))
		return nil
	}

	metrics.FriendshipTransitions.WithLabelValues(metrics.TransitionRemoved).Inc()
	if downgraded {
		metrics.FriendshipTransitions.WithLabelValues(metrics.TransitionDowngraded).Inc()
	}
	e.log.Info("friend removed",
		zap.Uint64("user_id", ownerID), zap.Uint64("friend_id", targetID), zap.Bool("reverse_downgraded", downgraded))
	emit(ctx, e.events, e.log, queue.ActivityEvent{
		Type:       queue.FriendRemoved,
		UserID:     ownerID,
		TargetID:   targetID,
		OccurredAt: e.now(),
	})
	return nil
}

// ListFriends returns the users userID has an edge to, ordered by id.
func (e *FriendshipEngine) ListFriends(ctx context.Context, userID uint64) ([]*model.User, error) {
	var friends []*model.User
	err := e.store.WithTx(ctx, func(tx repository.Store) error {
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		friends, err = tx.ListUsersByIDs(ctx, u.FriendIDs())
		return err
	})
	return friends, err
}

// CommonFriends returns the users both userID and otherID have an edge
// to, ordered by id.
func (e *FriendshipEngine) CommonFriends(ctx context.Context, userID, otherID uint64) ([]*model.User, error) {
	var common []*model.User
	err := e.store.WithTx(ctx, func(tx repository.Store) error {
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		other, err := tx.GetUser(ctx, otherID)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0)
		for _, id := range u.FriendIDs() {
			if _, ok := other.Friends[id]; ok {
				ids = append(ids, id)
			}
		}
		common, err = tx.ListUsersByIDs(ctx, ids)
		return err
	})
	return common, err
}

// requireUsers returns the NotFoundError of the first missing user.
func requireUsers(ctx context.Context, tx repository.Store, ids ...uint64) error {
	for _, id := range ids {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
