package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/thumbcache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PostInput carries the submit form's text fields.
type PostInput struct {
	Title       string
	Description string
	Lift        string
	Weight      string
}

// PostView is a post as seen by one viewer.
type PostView struct {
	storage.Post
	Liked     bool
	Owner     bool
	CanDelete bool
}

func postAttr(postID string) attribute.KeyValue {
	return attribute.String("board.post_id", postID)
}

// CreatePost stores the thumbnail and then the post row.
func (s *Service) CreatePost(ctx context.Context, viewer Viewer, input PostInput, thumbnail io.Reader) (post storage.Post, err error) {
	ctx, end := s.start(ctx, "CreatePost", userAttr(viewer.UserID))
	defer end(&err)

	if !viewer.SignedIn {
		return storage.Post{}, ErrNotSignedIn
	}
	fields, err := normalizePost(input)
	if err != nil {
		return storage.Post{}, err
	}
	if thumbnail == nil {
		return storage.Post{}, invalid("thumbnail", "Insert an image")
	}
	data, err := io.ReadAll(io.LimitReader(thumbnail, s.maxThumbnailBytes+1))
	if err != nil {
		return storage.Post{}, fmt.Errorf("read thumbnail: %w", err)
	}
	contentType, err := sniffThumbnail(data, s.maxThumbnailBytes)
	if err != nil {
		return storage.Post{}, err
	}
	postID, err := s.generateID()
	if err != nil {
		return storage.Post{}, err
	}

	if err := s.blobs.Put(ctx, postID, data, contentType); err != nil {
		return storage.Post{}, fmt.Errorf("store thumbnail: %w", err)
	}
	post = storage.Post{
		ID:            postID,
		Title:         fields.Title,
		Description:   fields.Description,
		Lift:          fields.Lift,
		Weight:        fields.Weight,
		ThumbnailType: contentType,
		UserID:        viewer.UserID,
		UserName:      viewer.Name,
		CreatedAt:     s.clock(),
	}
	if err := s.store.PutPost(ctx, post); err != nil {
		s.removeThumbnail(ctx, postID)
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Post{}, ErrNotSignedIn
		}
		return storage.Post{}, fmt.Errorf("put post: %w", err)
	}
	s.logger.Info("post created", zap.String("post_id", postID), zap.String("user_id", viewer.UserID))
	return post, nil
}

// GetPost returns one post as seen by viewer.
func (s *Service) GetPost(ctx context.Context, viewer Viewer, postID string) (PostView, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	views, err := s.viewPosts(ctx, viewer, []storage.Post{post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

// ListTopPosts returns one page of posts ordered by likes, then newest first.
func (s *Service) ListTopPosts(ctx context.Context, viewer Viewer, pageToken string) (Page[PostView], error) {
	window, err := s.resolvePage(pageToken, "posts", "likes desc, created_at desc")
	if err != nil {
		return Page[PostView]{}, err
	}
	posts, err := s.store.ListTopPosts(ctx, window.limit(), window.offset)
	if err != nil {
		return Page[PostView]{}, fmt.Errorf("list top posts: %w", err)
	}
	return s.postPage(ctx, viewer, window, posts)
}

// ListPostsByUser returns one page of a user's posts, newest first.
func (s *Service) ListPostsByUser(ctx context.Context, viewer Viewer, userID string, pageToken string) (Page[PostView], error) {
	window, err := s.resolvePage(pageToken, "posts user_id="+userID, "created_at desc")
	if err != nil {
		return Page[PostView]{}, err
	}
	posts, err := s.store.ListPostsByUser(ctx, userID, window.limit(), window.offset)
	if err != nil {
		return Page[PostView]{}, fmt.Errorf("list user posts: %w", err)
	}
	return s.postPage(ctx, viewer, window, posts)
}

// DeletePost removes a post with its likes, comments and thumbnail.
func (s *Service) DeletePost(ctx context.Context, viewer Viewer, postID string) (err error) {
	ctx, end := s.start(ctx, "DeletePost", postAttr(postID))
	defer end(&err)

	if !viewer.SignedIn {
		return ErrNotSignedIn
	}
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !viewer.CanManage(post.UserID) {
		return ErrForbidden
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.removeThumbnail(ctx, postID)
	s.logger.Info("post deleted", zap.String("post_id", postID), zap.String("actor_id", viewer.UserID))
	return nil
}

// Thumbnail returns a post's stored image, reading through the cache.
func (s *Service) Thumbnail(ctx context.Context, postID string) (thumbcache.Entry, error) {
	if entry, ok := s.thumbnails.Get(postID); ok {
		return entry, nil
	}
	generation := s.thumbnails.Generation()
	if !blob.ValidKey(postID) {
		return thumbcache.Entry{}, ErrThumbnailNotFound
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return thumbcache.Entry{}, ErrThumbnailNotFound
		}
		return thumbcache.Entry{}, fmt.Errorf("get post: %w", err)
	}
	data, err := s.blobs.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return thumbcache.Entry{}, ErrThumbnailNotFound
		}
		return thumbcache.Entry{}, fmt.Errorf("get thumbnail: %w", err)
	}
	entry := thumbcache.Entry{Data: data, ContentType: post.ThumbnailType}
	s.thumbnails.PutIfCurrent(postID, generation, entry)
	return entry, nil
}

func (s *Service) loadPost(ctx context.Context, postID string) (storage.Post, error) {
	if postID == "" {
		return storage.Post{}, ErrPostNotFound
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Post{}, ErrPostNotFound
		}
		return storage.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Service) postPage(ctx context.Context, viewer Viewer, window pageWindow, posts []storage.Post) (Page[PostView], error) {
	page, err := paginate(window, posts)
	if err != nil {
		return Page[PostView]{}, err
	}
	views, err := s.viewPosts(ctx, viewer, page.Items)
	if err != nil {
		return Page[PostView]{}, err
	}
	return Page[PostView]{
		Items:         views,
		NextPageToken: page.NextPageToken,
		PrevPageToken: page.PrevPageToken,
		HasPrev:       page.HasPrev,
	}, nil
}

// viewPosts decorates posts with the viewer's like and ownership state.
func (s *Service) viewPosts(ctx context.Context, viewer Viewer, posts []storage.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	liked := map[string]bool{}
	if viewer.SignedIn && len(posts) > 0 {
		ids := make([]string, len(posts))
		for i, post := range posts {
			ids[i] = post.ID
		}
		var err error
		liked, err = s.store.LikedPostIDs(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, fmt.Errorf("liked posts: %w", err)
		}
	}
	for i, post := range posts {
		views[i] = PostView{
			Post:      post,
			Liked:     liked[post.ID],
			Owner:     viewer.SignedIn && viewer.UserID == post.UserID,
			CanDelete: viewer.CanManage(post.UserID),
		}
	}
	return views, nil
}
