// Package storage defines persistence contracts for board state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// User stores one board account.
type User struct {
	ID        string
	Handle    string
	Name      string
	Bio       string
	Moderator bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential stores the password hash for one user.
type Credential struct {
	UserID       string
	PasswordHash string
	UpdatedAt    time.Time
}

// Session stores one signed-in browser session. Only the token hash is kept.
type Session struct {
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Post stores one lift submission. Likes and Comments are denormalized
// counters maintained by the store.
type Post struct {
	ID            string
	Title         string
	Description   string
	Lift          string
	Weight        int
	ThumbnailType string
	Likes         int
	Comments      int
	UserID        string
	UserName      string
	CreatedAt     time.Time
}

// Like stores one user's like of a post.
type Like struct {
	PostID    string
	UserID    string
	CreatedAt time.Time
}

// Comment stores one comment on a post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	UserName  string
	Body      string
	CreatedAt time.Time
}

// UserStore persists accounts and their credentials.
type UserStore interface {
	// CreateUser inserts user and credential together. A taken handle
	// returns ErrAlreadyExists.
	CreateUser(ctx context.Context, user User, credential Credential) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByHandle(ctx context.Context, handle string) (User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]User, error)
	SetModerator(ctx context.Context, userID string, moderator bool, updatedAt time.Time) error
	// DeleteUser removes the user and everything they own, keeping the
	// counters of surviving posts consistent. It returns the IDs of the
	// deleted posts so their thumbnails can be removed.
	DeleteUser(ctx context.Context, userID string) ([]string, error)
	GetCredential(ctx context.Context, userID string) (Credential, error)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, tokenHash string) (Session, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PostStore persists posts.
type PostStore interface {
	PutPost(ctx context.Context, post Post) error
	GetPost(ctx context.Context, postID string) (Post, error)
	// ListTopPosts orders by likes descending, then newest first.
	ListTopPosts(ctx context.Context, limit int, offset int) ([]Post, error)
	// ListPostsByUser orders newest first.
	ListPostsByUser(ctx context.Context, userID string, limit int, offset int) ([]Post, error)
	DeletePost(ctx context.Context, postID string) error
}

// LikeStore persists likes and the post like counter.
type LikeStore interface {
	// PutLike records a like and reports whether it was new. A missing post
	// returns ErrNotFound.
	PutLike(ctx context.Context, like Like) (bool, error)
	// DeleteLike removes a like and reports whether one existed.
	DeleteLike(ctx context.Context, postID string, userID string) (bool, error)
	HasLike(ctx context.Context, postID string, userID string) (bool, error)
	// LikedPostIDs returns the subset of postIDs liked by userID.
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// CommentStore persists comments and the post comment counter.
type CommentStore interface {
	// PutComment inserts a comment. A missing post returns ErrNotFound.
	PutComment(ctx context.Context, comment Comment) error
	GetComment(ctx context.Context, commentID string) (Comment, error)
	// ListCommentsByPost orders oldest first.
	ListCommentsByPost(ctx context.Context, postID string, limit int, offset int) ([]Comment, error)
	// ListComments orders newest first across all posts.
	ListComments(ctx context.Context, limit int, offset int) ([]Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Store groups every board persistence contract.
type Store interface {
	UserStore
	SessionStore
	PostStore
	LikeStore
	CommentStore
	Close() error
}
