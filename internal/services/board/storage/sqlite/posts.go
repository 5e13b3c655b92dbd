package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/liftboard/internal/services/board/storage"
)

const postColumns = `id, user_id, user_name, title, description, lift, weight, thumbnail_type, likes, comments, created_at`

// PutPost inserts a post with zeroed counters.
func (s *Store) PutPost(ctx context.Context, post storage.Post) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	postID := strings.TrimSpace(post.ID)
	if postID == "" {
		return fmt.Errorf("post id is required")
	}
	if strings.TrimSpace(post.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	createdAt := post.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)`,
		postID, post.UserID, post.UserName, post.Title, post.Description, post.Lift,
		post.Weight, post.ThumbnailType, toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err, "posts.id") {
			return storage.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("put post: %w", err)
	}
	return nil
}

// GetPost returns one post by ID.
func (s *Store) GetPost(ctx context.Context, postID string) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, strings.TrimSpace(postID))
	post, err := scanPost(row)
	if err != nil {
		return storage.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// ListTopPosts returns posts ordered by likes, then newest first.
func (s *Store) ListTopPosts(ctx context.Context, limit int, offset int) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	limit, offset = normalizeLimit(limit, offset)
	return s.queryPosts(ctx, "list top posts",
		`SELECT `+postColumns+` FROM posts ORDER BY likes DESC, created_at DESC, id ASC LIMIT ? OFFSET ?`,
		limit, offset)
}

// ListPostsByUser returns one user's posts, newest first.
func (s *Store) ListPostsByUser(ctx context.Context, userID string, limit int, offset int) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	limit, offset = normalizeLimit(limit, offset)
	return s.queryPosts(ctx, "list user posts",
		`SELECT `+postColumns+` FROM posts WHERE user_id = ? ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		strings.TrimSpace(userID), limit, offset)
}

// DeletePost removes a post. Its likes and comments cascade.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, strings.TrimSpace(postID))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(result, "delete post")
}

func (s *Store) queryPosts(ctx context.Context, op string, query string, args ...any) ([]storage.Post, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []storage.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

func scanPost(row rowScanner) (storage.Post, error) {
	var (
		post      storage.Post
		createdAt int64
	)
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.UserName,
		&post.Title,
		&post.Description,
		&post.Lift,
		&post.Weight,
		&post.ThumbnailType,
		&post.Likes,
		&post.Comments,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Post{}, storage.ErrNotFound
		}
		return storage.Post{}, err
	}
	post.CreatedAt = fromMillis(createdAt)
	return post, nil
}
