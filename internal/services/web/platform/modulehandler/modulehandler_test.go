package modulehandler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
)

var likeMessages = Messages{
	SignIn:  "Sign in to like",
	Invalid: "Provide a valid post to like",
	Failure: "Failed to like post",
}

func TestWriteMutationErrorMapsAppErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		viewer     app.Viewer
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "signed out", err: app.ErrNotSignedIn, wantStatus: http.StatusUnauthorized, wantBody: "Sign in to like"},
		{name: "stale cookie", viewer: app.Viewer{Stale: true}, err: app.ErrNotSignedIn, wantStatus: http.StatusUnauthorized, wantBody: InvalidCookieMessage},
		{name: "missing post", err: fmt.Errorf("like: %w", app.ErrPostNotFound), wantStatus: http.StatusBadRequest, wantBody: "Provide a valid post to like"},
		{name: "forbidden default", err: app.ErrForbidden, wantStatus: http.StatusForbidden, wantBody: "Must be owner to delete"},
		{name: "validation", err: app.ValidationError{Field: "title", Message: "missing title"}, wantStatus: http.StatusBadRequest, wantBody: "missing title"},
		{name: "credentials", err: app.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantBody: "Invalid credentials"},
		{name: "handle taken", err: app.ErrHandleTaken, wantStatus: http.StatusConflict, wantBody: "handle is already taken"},
		{name: "internal", err: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantBody: "Failed to like post"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			base := NewBase(module.Dependencies{})
			rr := httptest.NewRecorder()
			base.WriteMutationError(rr, httptest.NewRequest(http.MethodPost, "/likePost/p1", nil), tc.viewer, tc.err, likeMessages)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if got := rr.Body.String(); got != tc.wantBody {
				t.Fatalf("body = %q, want %q", got, tc.wantBody)
			}
		})
	}
}

func TestWriteMutationErrorAnswersJSONWhenPreferred(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Dependencies{})
	req := httptest.NewRequest(http.MethodPost, "/likePost/p1", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	base.WriteMutationError(rr, req, app.Viewer{}, app.ErrNotSignedIn, likeMessages)
	if got := rr.Body.String(); got != `{"error":"Sign in to like"}` {
		t.Fatalf("body = %q", got)
	}
}

func TestWriteMutationErrorLogsInternalFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	base := NewBase(module.Dependencies{Logger: zap.New(core)})
	base.WriteMutationError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/likePost/p1", nil), app.Viewer{}, errors.New("disk full"), likeMessages)
	base.WriteMutationError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/likePost/p1", nil), app.Viewer{}, app.ErrNotSignedIn, likeMessages)
	if logs.Len() != 1 {
		t.Fatalf("error logs = %d, want 1", logs.Len())
	}
}

func TestWritePageErrorRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	base := NewBase(module.Dependencies{})
	rr := httptest.NewRecorder()
	base.WritePageError(rr, httptest.NewRequest(http.MethodGet, "/post/x", nil), app.Viewer{}, app.ErrPostNotFound)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Page not found") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestViewerDelegatesToResolver(t *testing.T) {
	t.Parallel()

	want := app.Viewer{SignedIn: true, UserID: "u1"}
	base := NewBase(module.Dependencies{ResolveViewer: func(*http.Request) app.Viewer { return want }})
	if got := base.Viewer(httptest.NewRequest(http.MethodGet, "/", nil)); got != want {
		t.Fatalf("Viewer() = %+v", got)
	}
	if got := NewBase(module.Dependencies{}).Viewer(httptest.NewRequest(http.MethodGet, "/", nil)); got.SignedIn {
		t.Fatal("nil resolver should yield signed-out viewer")
	}
}
