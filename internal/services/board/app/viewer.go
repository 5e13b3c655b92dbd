package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/liftboard/internal/platform/id"
	"github.com/louisbranch/liftboard/internal/services/board/handle"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Viewer is the request's session state.
type Viewer struct {
	SignedIn  bool
	UserID    string
	Handle    string
	Name      string
	Moderator bool
	// Stale marks a request whose token matched no live session.
	Stale bool
}

// CanManage reports whether the viewer may delete content owned by ownerID.
func (v Viewer) CanManage(ownerID string) bool {
	return v.SignedIn && (v.Moderator || (ownerID != "" && v.UserID == ownerID))
}

func viewerFor(user storage.User) Viewer {
	return Viewer{
		SignedIn:  true,
		UserID:    user.ID,
		Handle:    user.Handle,
		Name:      user.Name,
		Moderator: user.Moderator,
	}
}

// Session is an opened session. Token is only ever held by the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SignUpInput carries the signup form.
type SignUpInput struct {
	Handle   string
	Name     string
	Password string
	Bio      string
}

// SignUp creates a user and opens a session for them.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (user storage.User, session Session, err error) {
	ctx, end := s.start(ctx, "SignUp")
	defer end(&err)

	if strings.TrimSpace(input.Handle) == "" {
		return storage.User{}, Session{}, invalid("handle", "missing handle")
	}
	canonical, err := handle.Canonicalize(input.Handle)
	if err != nil {
		return storage.User{}, Session{}, invalid("handle", "%s", err.Error())
	}
	profile, err := normalizeProfile(input.Name, input.Bio)
	if err != nil {
		return storage.User{}, Session{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return storage.User{}, Session{}, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return storage.User{}, Session{}, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.generateID()
	if err != nil {
		return storage.User{}, Session{}, err
	}

	now := s.clock()
	user = storage.User{
		ID:        userID,
		Handle:    canonical,
		Name:      profile.Name,
		Bio:       profile.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user, storage.Credential{UserID: userID, PasswordHash: hash, UpdatedAt: now}); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.User{}, Session{}, ErrHandleTaken
		}
		return storage.User{}, Session{}, fmt.Errorf("create user: %w", err)
	}
	session, err = s.openSession(ctx, userID)
	if err != nil {
		return storage.User{}, Session{}, err
	}
	s.logger.Info("user signed up", zap.String("user_id", userID), zap.String("handle", canonical))
	return user, session, nil
}

// SignIn verifies a password and opens a session.
func (s *Service) SignIn(ctx context.Context, rawHandle string, plain string) (user storage.User, session Session, err error) {
	ctx, end := s.start(ctx, "SignIn")
	defer end(&err)

	canonical, err := handle.Canonicalize(rawHandle)
	if err != nil {
		return storage.User{}, Session{}, ErrUserNotFound
	}
	user, err = s.store.GetUserByHandle(ctx, canonical)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, Session{}, ErrUserNotFound
		}
		return storage.User{}, Session{}, fmt.Errorf("get user: %w", err)
	}
	credential, err := s.store.GetCredential(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, Session{}, ErrInvalidCredentials
		}
		return storage.User{}, Session{}, fmt.Errorf("get credential: %w", err)
	}
	ok, err := s.hasher.Verify(plain, credential.PasswordHash)
	if err != nil {
		return storage.User{}, Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return storage.User{}, Session{}, ErrInvalidCredentials
	}
	session, err = s.openSession(ctx, user.ID)
	if err != nil {
		return storage.User{}, Session{}, err
	}
	return user, session, nil
}

// SignOut deletes the session behind token. Unknown tokens are ignored.
func (s *Service) SignOut(ctx context.Context, token string) (err error) {
	ctx, end := s.start(ctx, "SignOut")
	defer end(&err)

	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, id.HashToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveViewer maps a session token to the viewer it belongs to. Empty,
// unknown and expired tokens yield a signed-out viewer.
func (s *Service) ResolveViewer(ctx context.Context, token string) (viewer Viewer, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Viewer{}, nil
	}
	ctx, end := s.start(ctx, "ResolveViewer")
	defer end(&err)

	tokenHash := id.HashToken(token)
	session, err := s.store.GetSession(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Viewer{Stale: true}, nil
		}
		return Viewer{}, fmt.Errorf("get session: %w", err)
	}
	if !session.ExpiresAt.After(s.clock()) {
		if err := s.store.DeleteSession(ctx, tokenHash); err != nil {
			s.logger.Warn("delete expired session", zap.Error(err))
		}
		return Viewer{Stale: true}, nil
	}
	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Viewer{Stale: true}, nil
		}
		return Viewer{}, fmt.Errorf("get user: %w", err)
	}
	return viewerFor(user), nil
}

// PruneSessions deletes every session that has expired.
func (s *Service) PruneSessions(ctx context.Context) (deleted int64, err error) {
	ctx, end := s.start(ctx, "PruneSessions")
	defer end(&err)

	deleted, err = s.store.DeleteExpiredSessions(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return deleted, nil
}

func (s *Service) openSession(ctx context.Context, userID string) (Session, error) {
	token, err := s.newToken()
	if err != nil {
		return Session{}, fmt.Errorf("generate session token: %w", err)
	}
	now := s.clock()
	session := storage.Session{
		TokenHash: id.HashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return Session{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func userAttr(userID string) attribute.KeyValue {
	return attribute.String("board.user_id", userID)
}
