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

// PutLike records a like and bumps the post counter in one transaction.
func (s *Store) PutLike(ctx context.Context, like storage.Like) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	postID := strings.TrimSpace(like.PostID)
	userID := strings.TrimSpace(like.UserID)
	createdAt := like.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var created bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(post_id, user_id) DO NOTHING`,
			postID, userID, toMillis(createdAt),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("put like: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("put like: %w", err)
		}
		if affected == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes = likes + 1 WHERE id = ?`, postID); err != nil {
			return fmt.Errorf("increment likes: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// DeleteLike removes a like and decrements the post counter in one
// transaction.
func (s *Store) DeleteLike(ctx context.Context, postID string, userID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	postID = strings.TrimSpace(postID)
	userID = strings.TrimSpace(userID)

	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ? AND user_id = ?`, postID, userID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if affected == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes = likes - 1 WHERE id = ?`, postID); err != nil {
			return fmt.Errorf("decrement likes: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// HasLike reports whether userID likes postID.
func (s *Store) HasLike(ctx context.Context, postID string, userID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var found int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT 1 FROM likes WHERE post_id = ? AND user_id = ?`,
		strings.TrimSpace(postID), strings.TrimSpace(userID),
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has like: %w", err)
	}
	return true, nil
}

// LikedPostIDs returns which of postIDs userID likes.
func (s *Store) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 || strings.TrimSpace(userID) == "" {
		return liked, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")
	args := make([]any, 0, len(postIDs)+1)
	args = append(args, strings.TrimSpace(userID))
	for _, postID := range postIDs {
		args = append(args, postID)
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT post_id FROM likes WHERE user_id = ? AND post_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("liked post ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, fmt.Errorf("liked post ids: %w", err)
		}
		liked[postID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("liked post ids: %w", err)
	}
	return liked, nil
}

func postExists(ctx context.Context, tx *sql.Tx, postID string) error {
	var found int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("check post: %w", err)
	}
	return nil
}
