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

const commentColumns = `id, post_id, user_id, user_name, body, created_at`

// PutComment inserts a comment and bumps the post counter in one
// transaction.
func (s *Store) PutComment(ctx context.Context, comment storage.Comment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	commentID := strings.TrimSpace(comment.ID)
	postID := strings.TrimSpace(comment.PostID)
	if commentID == "" {
		return fmt.Errorf("comment id is required")
	}
	createdAt := comment.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			commentID, postID, comment.UserID, comment.UserName, comment.Body, toMillis(createdAt),
		); err != nil {
			if isUniqueViolation(err, "comments.id") {
				return storage.ErrAlreadyExists
			}
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("put comment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET comments = comments + 1 WHERE id = ?`, postID); err != nil {
			return fmt.Errorf("increment comments: %w", err)
		}
		return nil
	})
}

// GetComment returns one comment by ID.
func (s *Store) GetComment(ctx context.Context, commentID string) (storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Comment{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, strings.TrimSpace(commentID))
	comment, err := scanComment(row)
	if err != nil {
		return storage.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// ListCommentsByPost returns a post's comments, oldest first.
func (s *Store) ListCommentsByPost(ctx context.Context, postID string, limit int, offset int) ([]storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	limit, offset = normalizeLimit(limit, offset)
	return s.queryComments(ctx, "list post comments",
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		strings.TrimSpace(postID), limit, offset)
}

// ListComments returns comments across all posts, newest first.
func (s *Store) ListComments(ctx context.Context, limit int, offset int) ([]storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	limit, offset = normalizeLimit(limit, offset)
	return s.queryComments(ctx, "list comments",
		`SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		limit, offset)
}

// DeleteComment removes a comment and decrements the post counter in one
// transaction.
func (s *Store) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	commentID = strings.TrimSpace(commentID)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var postID string
		if err := tx.QueryRowContext(ctx, `SELECT post_id FROM comments WHERE id = ?`, commentID).Scan(&postID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("delete comment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET comments = comments - 1 WHERE id = ?`, postID); err != nil {
			return fmt.Errorf("decrement comments: %w", err)
		}
		return nil
	})
}

func (s *Store) queryComments(ctx context.Context, op string, query string, args ...any) ([]storage.Comment, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []storage.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

func scanComment(row rowScanner) (storage.Comment, error) {
	var (
		comment   storage.Comment
		createdAt int64
	)
	if err := row.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.UserName, &comment.Body, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Comment{}, storage.ErrNotFound
		}
		return storage.Comment{}, err
	}
	comment.CreatedAt = fromMillis(createdAt)
	return comment, nil
}
