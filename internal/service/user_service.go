package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

// UserService manages user profiles.  Friendships live in
// FriendshipEngine.
type UserService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(store repository.Store, log *zap.Logger) *UserService {
	return &UserService{store: store, log: orNop(log).Named("users"), now: time.Now}
}

// Add validates and stores a new user.  A blank name is replaced by the
// login.  An email or login already in use is a ConflictError.
func (s *UserService) Add(ctx context.Context, u *model.User) (*model.User, error) {
	if err := s.validate(u); err != nil {
		return nil, err
	}
	if err := s.store.WithTx(ctx, func(tx repository.Store) error {
		return tx.CreateUser(ctx, u)
	}); err != nil {
		return nil, err
	}
	s.log.Info("user added", zap.Uint64("user_id", u.ID), zap.String("login", u.Login))
	return s.store.GetUser(ctx, u.ID)
}

// Update overwrites the profile of an existing user.  Friendships are
// kept.
func (s *UserService) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if err := s.validate(u); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetUser(ctx, u.ID); err != nil {
			return err
		}
		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.Uint64("user_id", u.ID))
	return s.store.GetUser(ctx, u.ID)
}

// Get returns a single user with its friendship map.
func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) validate(u *model.User) error {
	if err := model.ValidateUser(u, s.now()); err != nil {
		s.log.Warn("user rejected", zap.Error(err))
		return err
	}
	return nil
}
