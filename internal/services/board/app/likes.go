package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/liftboard/internal/services/board/storage"
)

// LikeResult is a post's like state after a like or unlike.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// LikePost records the viewer's like. Liking twice is a no-op.
func (s *Service) LikePost(ctx context.Context, viewer Viewer, postID string) (result LikeResult, err error) {
	ctx, end := s.start(ctx, "LikePost", postAttr(postID))
	defer end(&err)

	if !viewer.SignedIn {
		return LikeResult{}, ErrNotSignedIn
	}
	if postID == "" {
		return LikeResult{}, ErrPostNotFound
	}
	like := storage.Like{PostID: postID, UserID: viewer.UserID, CreatedAt: s.clock()}
	if _, err := s.store.PutLike(ctx, like); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LikeResult{}, ErrPostNotFound
		}
		return LikeResult{}, fmt.Errorf("put like: %w", err)
	}
	return s.likeResult(ctx, postID, true)
}

// RemoveLike deletes the viewer's like. Removing a missing like is a no-op.
func (s *Service) RemoveLike(ctx context.Context, viewer Viewer, postID string) (result LikeResult, err error) {
	ctx, end := s.start(ctx, "RemoveLike", postAttr(postID))
	defer end(&err)

	if !viewer.SignedIn {
		return LikeResult{}, ErrNotSignedIn
	}
	if _, err := s.loadPost(ctx, postID); err != nil {
		return LikeResult{}, err
	}
	if _, err := s.store.DeleteLike(ctx, postID, viewer.UserID); err != nil {
		return LikeResult{}, fmt.Errorf("delete like: %w", err)
	}
	return s.likeResult(ctx, postID, false)
}

// IsLiked reports whether the viewer likes postID.
func (s *Service) IsLiked(ctx context.Context, viewer Viewer, postID string) (bool, error) {
	if !viewer.SignedIn || postID == "" {
		return false, nil
	}
	liked, err := s.store.HasLike(ctx, postID, viewer.UserID)
	if err != nil {
		return false, fmt.Errorf("has like: %w", err)
	}
	return liked, nil
}

func (s *Service) likeResult(ctx context.Context, postID string, liked bool) (LikeResult, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Likes: post.Likes, Liked: liked}, nil
}
