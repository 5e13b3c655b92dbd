package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/liftboard/internal/services/board/handle"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"go.uber.org/zap"
)

// HandleExists reports whether rawHandle belongs to a user. Malformed
// handles never exist.
func (s *Service) HandleExists(ctx context.Context, rawHandle string) (bool, error) {
	canonical, err := handle.Canonicalize(rawHandle)
	if err != nil {
		return false, nil
	}
	if _, err := s.store.GetUserByHandle(ctx, canonical); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user: %w", err)
	}
	return true, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (storage.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, ErrUserNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByHandle returns a user by handle.
func (s *Service) GetUserByHandle(ctx context.Context, rawHandle string) (storage.User, error) {
	canonical, err := handle.Canonicalize(rawHandle)
	if err != nil {
		return storage.User{}, ErrUserNotFound
	}
	user, err := s.store.GetUserByHandle(ctx, canonical)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, ErrUserNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of users ordered by handle.
func (s *Service) ListUsers(ctx context.Context, pageToken string) (Page[storage.User], error) {
	window, err := s.resolvePage(pageToken, "users", "handle")
	if err != nil {
		return Page[storage.User]{}, err
	}
	users, err := s.store.ListUsers(ctx, window.limit(), window.offset)
	if err != nil {
		return Page[storage.User]{}, fmt.Errorf("list users: %w", err)
	}
	return paginate(window, users)
}

// DeleteUser removes a user with their posts, likes, comments and sessions.
// Users may delete themselves; moderators may delete anyone.
func (s *Service) DeleteUser(ctx context.Context, viewer Viewer, userID string) (err error) {
	ctx, end := s.start(ctx, "DeleteUser", userAttr(userID))
	defer end(&err)

	if !viewer.SignedIn {
		return ErrNotSignedIn
	}
	if userID == "" {
		return ErrUserNotFound
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !viewer.CanManage(userID) {
		return ErrForbidden
	}
	postIDs, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	for _, postID := range postIDs {
		s.removeThumbnail(ctx, postID)
	}
	s.logger.Info("user deleted",
		zap.String("user_id", userID),
		zap.String("actor_id", viewer.UserID),
		zap.Int("posts", len(postIDs)),
	)
	return nil
}

// SetModerator grants or revokes moderation for the user behind rawHandle.
func (s *Service) SetModerator(ctx context.Context, rawHandle string, moderator bool) (user storage.User, err error) {
	ctx, end := s.start(ctx, "SetModerator")
	defer end(&err)

	user, err = s.GetUserByHandle(ctx, rawHandle)
	if err != nil {
		return storage.User{}, err
	}
	now := s.clock()
	if err := s.store.SetModerator(ctx, user.ID, moderator, now); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, ErrUserNotFound
		}
		return storage.User{}, fmt.Errorf("set moderator: %w", err)
	}
	user.Moderator = moderator
	user.UpdatedAt = now
	s.logger.Info("moderator updated", zap.String("user_id", user.ID), zap.Bool("moderator", moderator))
	return user, nil
}
