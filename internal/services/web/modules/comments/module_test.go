package comments

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/testkit/boardtest"
)

func newHandler(t *testing.T, env *boardtest.Env) http.Handler {
	t.Helper()
	routes, err := New(module.Dependencies{Service: env.Service, ResolveViewer: env.ResolveViewer}).Routes()
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	mux := http.NewServeMux()
	for _, route := range routes {
		mux.Handle(route.Method+" "+route.Pattern, route.Handler)
	}
	return mux
}

func postForm(h http.Handler, target string, form url.Values, account *boardtest.Account) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if account != nil {
		req.AddCookie(account.Cookie())
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSubmitComment(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	post := env.Post(t, ana, "Press")
	h := newHandler(t, env)

	tests := []struct {
		name       string
		target     string
		body       string
		account    *boardtest.Account
		wantStatus int
		wantBody   string
	}{
		{name: "signed out", target: "/submitComment/" + post.ID, body: "nice", wantStatus: http.StatusUnauthorized, wantBody: "Sign in to comment"},
		{name: "empty", target: "/submitComment/" + post.ID, body: "   ", account: &ana, wantStatus: http.StatusBadRequest, wantBody: "missing comment"},
		{name: "missing post", target: "/submitComment/nope", body: "nice", account: &ana, wantStatus: http.StatusBadRequest, wantBody: "Provide a valid post to comment on"},
		{name: "created", target: "/submitComment/" + post.ID, body: "nice", account: &ana, wantStatus: http.StatusSeeOther},
	}
	for _, tc := range tests {
		rr := postForm(h, tc.target, url.Values{"body": {tc.body}}, tc.account)
		if rr.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d (%q)", tc.name, rr.Code, rr.Body.String())
		}
		if tc.wantBody != "" && rr.Body.String() != tc.wantBody {
			t.Fatalf("%s: body = %q", tc.name, rr.Body.String())
		}
		if tc.wantStatus == http.StatusSeeOther && rr.Header().Get("Location") != "/post/"+post.ID {
			t.Fatalf("%s: location = %q", tc.name, rr.Header().Get("Location"))
		}
	}

	view, err := env.Service.GetPost(t.Context(), app.Viewer{}, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if view.Comments != 1 {
		t.Fatalf("comments = %d, want 1", view.Comments)
	}
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	bob := env.SignUp(t, "bob")
	cat := env.SignUp(t, "cat")
	post := env.Post(t, ana, "Pull")
	byBob := env.Comment(t, bob, post.ID, "first")
	second := env.Comment(t, bob, post.ID, "second")
	h := newHandler(t, env)

	tests := []struct {
		name       string
		target     string
		account    *boardtest.Account
		wantStatus int
		wantBody   string
	}{
		{name: "signed out", target: "/deleteComment/" + byBob.ID, wantStatus: http.StatusUnauthorized, wantBody: "Sign in to delete comments"},
		{name: "missing", target: "/deleteComment/nope", account: &bob, wantStatus: http.StatusBadRequest, wantBody: "Provide a valid comment to delete"},
		{name: "stranger", target: "/deleteComment/" + byBob.ID, account: &cat, wantStatus: http.StatusForbidden, wantBody: "Must be owner to delete"},
		{name: "author", target: "/deleteComment/" + byBob.ID, account: &bob, wantStatus: http.StatusNoContent},
		{name: "post owner", target: "/deleteComment/" + second.ID, account: &ana, wantStatus: http.StatusNoContent},
	}
	for _, tc := range tests {
		rr := postForm(h, tc.target, nil, tc.account)
		if rr.Code != tc.wantStatus || rr.Body.String() != tc.wantBody {
			t.Fatalf("%s = %d %q, want %d %q", tc.name, rr.Code, rr.Body.String(), tc.wantStatus, tc.wantBody)
		}
	}
}
