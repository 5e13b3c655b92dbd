package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"go.uber.org/zap"
)

// CommentView is a comment as seen by one viewer.
type CommentView struct {
	storage.Comment
	CanDelete bool
}

// CreateComment adds a comment to postID.
func (s *Service) CreateComment(ctx context.Context, viewer Viewer, postID string, body string) (comment storage.Comment, err error) {
	ctx, end := s.start(ctx, "CreateComment", postAttr(postID))
	defer end(&err)

	if !viewer.SignedIn {
		return storage.Comment{}, ErrNotSignedIn
	}
	if postID == "" {
		return storage.Comment{}, ErrPostNotFound
	}
	body, err = normalizeComment(body)
	if err != nil {
		return storage.Comment{}, err
	}
	commentID, err := s.generateID()
	if err != nil {
		return storage.Comment{}, err
	}
	comment = storage.Comment{
		ID:        commentID,
		PostID:    postID,
		UserID:    viewer.UserID,
		UserName:  viewer.Name,
		Body:      body,
		CreatedAt: s.clock(),
	}
	if err := s.store.PutComment(ctx, comment); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Comment{}, ErrPostNotFound
		}
		return storage.Comment{}, fmt.Errorf("put comment: %w", err)
	}
	return comment, nil
}

// ListComments returns one page of a post's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, viewer Viewer, postID string, pageToken string) (Page[CommentView], error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return Page[CommentView]{}, err
	}
	window, err := s.resolvePage(pageToken, "comments post_id="+postID, "created_at asc")
	if err != nil {
		return Page[CommentView]{}, err
	}
	comments, err := s.store.ListCommentsByPost(ctx, postID, window.limit(), window.offset)
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("list comments: %w", err)
	}
	return commentPage(window, comments, func(comment storage.Comment) bool {
		return viewer.CanManage(comment.UserID) || viewer.CanManage(post.UserID)
	})
}

// ListAllComments returns one page of every comment, newest first.
// Moderators only.
func (s *Service) ListAllComments(ctx context.Context, viewer Viewer, pageToken string) (Page[CommentView], error) {
	if !viewer.SignedIn {
		return Page[CommentView]{}, ErrNotSignedIn
	}
	if !viewer.Moderator {
		return Page[CommentView]{}, ErrForbidden
	}
	window, err := s.resolvePage(pageToken, "comments", "created_at desc")
	if err != nil {
		return Page[CommentView]{}, err
	}
	comments, err := s.store.ListComments(ctx, window.limit(), window.offset)
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("list comments: %w", err)
	}
	return commentPage(window, comments, func(storage.Comment) bool { return true })
}

// DeleteComment removes a comment. The author, the post owner and
// moderators may delete it.
func (s *Service) DeleteComment(ctx context.Context, viewer Viewer, commentID string) (err error) {
	ctx, end := s.start(ctx, "DeleteComment")
	defer end(&err)

	if !viewer.SignedIn {
		return ErrNotSignedIn
	}
	if commentID == "" {
		return ErrCommentNotFound
	}
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if !viewer.CanManage(comment.UserID) {
		post, err := s.loadPost(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if !viewer.CanManage(post.UserID) {
			return ErrForbidden
		}
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	s.logger.Info("comment deleted", zap.String("comment_id", commentID), zap.String("actor_id", viewer.UserID))
	return nil
}

func commentPage(window pageWindow, comments []storage.Comment, canDelete func(storage.Comment) bool) (Page[CommentView], error) {
	page, err := paginate(window, comments)
	if err != nil {
		return Page[CommentView]{}, err
	}
	views := make([]CommentView, len(page.Items))
	for i, comment := range page.Items {
		views[i] = CommentView{Comment: comment, CanDelete: canDelete(comment)}
	}
	return Page[CommentView]{
		Items:         views,
		NextPageToken: page.NextPageToken,
		PrevPageToken: page.PrevPageToken,
		HasPrev:       page.HasPrev,
	}, nil
}
