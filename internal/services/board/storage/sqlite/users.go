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

const userColumns = `id, handle, name, bio, moderator, created_at, updated_at`

// CreateUser inserts a user together with their credential.
func (s *Store) CreateUser(ctx context.Context, user storage.User, credential storage.Credential) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID := strings.TrimSpace(user.ID)
	handle := strings.TrimSpace(user.Handle)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if handle == "" {
		return fmt.Errorf("handle is required")
	}
	if strings.TrimSpace(credential.PasswordHash) == "" {
		return fmt.Errorf("password hash is required")
	}
	createdAt := user.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := user.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, handle, name, bio, moderator, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, handle, user.Name, user.Bio, boolToInt(user.Moderator),
			toMillis(createdAt), toMillis(updatedAt),
		); err != nil {
			if isUniqueViolation(err, "users.handle") {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (user_id, password_hash, updated_at) VALUES (?, ?, ?)`,
			userID, credential.PasswordHash, toMillis(updatedAt),
		); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		return nil
	})
}

// GetUser returns one user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, strings.TrimSpace(userID))
	user, err := scanUser(row)
	if err != nil {
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByHandle returns one user by canonical handle.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE handle = ?`, strings.TrimSpace(handle))
	user, err := scanUser(row)
	if err != nil {
		return storage.User{}, fmt.Errorf("get user by handle: %w", err)
	}
	return user, nil
}

// ListUsers returns users ordered by handle.
func (s *Store) ListUsers(ctx context.Context, limit int, offset int) ([]storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	limit, offset = normalizeLimit(limit, offset)
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY handle ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetModerator grants or revokes the moderator flag.
func (s *Store) SetModerator(ctx context.Context, userID string, moderator bool, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET moderator = ?, updated_at = ? WHERE id = ?`,
		boolToInt(moderator), toMillis(updatedAt), strings.TrimSpace(userID))
	if err != nil {
		return fmt.Errorf("set moderator: %w", err)
	}
	return requireAffected(result, "set moderator")
}

// DeleteUser removes a user, their content and their activity on other
// users' posts in one transaction.
func (s *Store) DeleteUser(ctx context.Context, userID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	var postIDs []string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var found int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&found); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("delete user: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `SELECT id FROM posts WHERE user_id = ?`, userID)
		if err != nil {
			return fmt.Errorf("delete user posts: %w", err)
		}
		for rows.Next() {
			var postID string
			if err := rows.Scan(&postID); err != nil {
				rows.Close()
				return fmt.Errorf("delete user posts: %w", err)
			}
			postIDs = append(postIDs, postID)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("delete user posts: %w", err)
		}

		// Counters of posts that survive the cascade.
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET likes = likes - 1
			 WHERE user_id <> ? AND id IN (SELECT post_id FROM likes WHERE user_id = ?)`,
			userID, userID,
		); err != nil {
			return fmt.Errorf("delete user likes: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET comments = comments - (
			   SELECT COUNT(*) FROM comments c WHERE c.post_id = posts.id AND c.user_id = ?
			 )
			 WHERE user_id <> ? AND id IN (SELECT post_id FROM comments WHERE user_id = ?)`,
			userID, userID, userID,
		); err != nil {
			return fmt.Errorf("delete user comments: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}

// GetCredential returns the password hash for a user.
func (s *Store) GetCredential(ctx context.Context, userID string) (storage.Credential, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Credential{}, err
	}
	var (
		credential storage.Credential
		updatedAt  int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT user_id, password_hash, updated_at FROM credentials WHERE user_id = ?`,
		strings.TrimSpace(userID),
	).Scan(&credential.UserID, &credential.PasswordHash, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Credential{}, storage.ErrNotFound
		}
		return storage.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	credential.UpdatedAt = fromMillis(updatedAt)
	return credential, nil
}

func scanUser(row rowScanner) (storage.User, error) {
	var (
		user      storage.User
		moderator int
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&user.ID, &user.Handle, &user.Name, &user.Bio, &moderator, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, err
	}
	user.Moderator = moderator != 0
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
