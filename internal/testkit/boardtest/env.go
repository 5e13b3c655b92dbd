// Package boardtest builds board app services backed by temporary storage
// for handler and integration tests.
package boardtest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/louisbranch/liftboard/internal/platform/password"
	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/storage/sqlite"
	"github.com/louisbranch/liftboard/internal/services/board/thumbcache"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
)

// PNG is the smallest payload the thumbnail sniffer accepts as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

// Password is the password of every account created by SignUp.
const Password = "correct horse"

// Env is a board service with its backing stores.
type Env struct {
	Service *app.Service
	Store   *sqlite.Store
	Blobs   blob.Store
	Cache   *thumbcache.Cache

	mu  sync.Mutex
	now time.Time
}

// Account is a signed-up user and their session token.
type Account struct {
	User   storage.User
	Token  string
	Viewer app.Viewer
}

// New returns an Env with a page size of pageSize, or the default when
// pageSize is zero.
func New(t testing.TB, pageSize int) *Env {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(filepath.Join(dir, "board.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	blobs, err := blob.OpenFS(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("open blobs: %v", err)
	}
	env := &Env{
		Store: store,
		Blobs: blobs,
		Cache: thumbcache.New(16),
		now:   time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC),
	}
	var next int
	svc, err := app.New(app.Config{
		Store:      store,
		Blobs:      blobs,
		Thumbnails: env.Cache,
		Hasher: password.NewHasherWithParams(&argon2id.Params{
			Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
		}),
		PageSize: pageSize,
		Now:      env.Now,
		NewID: func() (string, error) {
			env.mu.Lock()
			defer env.mu.Unlock()
			next++
			return fmt.Sprintf("id%04d", next), nil
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	env.Service = svc
	return env
}

// Now returns the service clock. Each call advances it by a second so
// listings ordered by creation time are deterministic.
func (e *Env) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(time.Second)
	return e.now
}

// SignUp creates handle with Password and returns its session.
func (e *Env) SignUp(t testing.TB, handle string) Account {
	t.Helper()
	user, session, err := e.Service.SignUp(context.Background(), app.SignUpInput{
		Handle:   handle,
		Name:     strings.ToUpper(handle[:1]) + handle[1:],
		Password: Password,
	})
	if err != nil {
		t.Fatalf("sign up %s: %v", handle, err)
	}
	viewer, err := e.Service.ResolveViewer(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("resolve %s: %v", handle, err)
	}
	return Account{User: user, Token: session.Token, Viewer: viewer}
}

// Moderator signs up handle and grants it moderation.
func (e *Env) Moderator(t testing.TB, handle string) Account {
	t.Helper()
	account := e.SignUp(t, handle)
	if _, err := e.Service.SetModerator(context.Background(), handle, true); err != nil {
		t.Fatalf("grant moderator %s: %v", handle, err)
	}
	viewer, err := e.Service.ResolveViewer(context.Background(), account.Token)
	if err != nil {
		t.Fatalf("resolve %s: %v", handle, err)
	}
	account.Viewer = viewer
	return account
}

// Post creates a post owned by account.
func (e *Env) Post(t testing.TB, account Account, title string) storage.Post {
	t.Helper()
	post, err := e.Service.CreatePost(context.Background(), account.Viewer, app.PostInput{
		Title:       title,
		Description: "**" + title + "**",
		Lift:        "Squat",
		Weight:      "140",
	}, bytes.NewReader(PNG))
	if err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}

// Comment adds a comment by account to postID.
func (e *Env) Comment(t testing.TB, account Account, postID string, body string) storage.Comment {
	t.Helper()
	comment, err := e.Service.CreateComment(context.Background(), account.Viewer, postID, body)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return comment
}

// Cookie returns the session cookie for account.
func (a Account) Cookie() *http.Cookie {
	return &http.Cookie{Name: sessioncookie.Name, Value: a.Token}
}

// ResolveViewer resolves the session cookie of r against the service.
func (e *Env) ResolveViewer(r *http.Request) app.Viewer {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return app.Viewer{}
	}
	viewer, err := e.Service.ResolveViewer(r.Context(), token)
	if err != nil {
		return app.Viewer{}
	}
	return viewer
}
