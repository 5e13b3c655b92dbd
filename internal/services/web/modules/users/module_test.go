package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
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

func serve(h http.Handler, method string, target string, account *boardtest.Account) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if account != nil {
		req.AddCookie(account.Cookie())
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestUserPage(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	env.Post(t, ana, "Front squat")
	h := newHandler(t, env)

	rr := serve(h, http.MethodGet, "/user/"+ana.User.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(".profile .handle").Text(); got != "@ana" {
		t.Fatalf("handle = %q", got)
	}
	if got := doc.Find("article.post-card h2").Text(); got != "Front squat" {
		t.Fatalf("posts = %q", got)
	}
	if doc.Find(`button[data-delete="user"]`).Length() != 0 {
		t.Fatal("signed-out viewer should not see delete")
	}

	if rr := serve(h, http.MethodGet, "/user/nope", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("missing user = %d", rr.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	bob := env.SignUp(t, "bob")
	cat := env.SignUp(t, "cat")
	mod := env.Moderator(t, "mod")
	h := newHandler(t, env)

	tests := []struct {
		name       string
		target     string
		account    *boardtest.Account
		wantStatus int
		wantBody   string
	}{
		{name: "signed out", target: "/deleteUser/" + ana.User.ID, wantStatus: http.StatusUnauthorized, wantBody: "Sign in to delete users"},
		{name: "other user", target: "/deleteUser/" + ana.User.ID, account: &bob, wantStatus: http.StatusForbidden, wantBody: "Must be owner to delete"},
		{name: "missing as other user", target: "/deleteUser/nope", account: &bob, wantStatus: http.StatusBadRequest, wantBody: "Provide a valid user to delete"},
		{name: "missing as moderator", target: "/deleteUser/nope", account: &mod, wantStatus: http.StatusBadRequest, wantBody: "Provide a valid user to delete"},
		{name: "moderator", target: "/deleteUser/" + cat.User.ID, account: &mod, wantStatus: http.StatusNoContent},
	}
	for _, tc := range tests {
		rr := serve(h, http.MethodPost, tc.target, tc.account)
		if rr.Code != tc.wantStatus || rr.Body.String() != tc.wantBody {
			t.Fatalf("%s = %d %q, want %d %q", tc.name, rr.Code, rr.Body.String(), tc.wantStatus, tc.wantBody)
		}
	}

	rr := serve(h, http.MethodPost, "/deleteUser/"+ana.User.ID, &ana)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("self delete = %d", rr.Code)
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("self delete should clear the session cookie")
	}
	if rr := serve(h, http.MethodGet, "/user/"+ana.User.ID, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("deleted user page = %d", rr.Code)
	}
}

func TestHandleExists(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	env.SignUp(t, "ana")
	h := newHandler(t, env)

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{target: "/handleExists/ana", wantStatus: http.StatusOK, wantBody: "true"},
		{target: "/handleExists/ANA", wantStatus: http.StatusOK, wantBody: "true"},
		{target: "/handleExists/bob", wantStatus: http.StatusOK, wantBody: "false"},
		{target: "/handleExists/%20", wantStatus: http.StatusBadRequest, wantBody: "invalid handle"},
		{target: "/handleExists/a!", wantStatus: http.StatusBadRequest, wantBody: "invalid handle"},
	}
	for _, tc := range tests {
		rr := serve(h, http.MethodGet, tc.target, nil)
		if rr.Code != tc.wantStatus || rr.Body.String() != tc.wantBody {
			t.Fatalf("%s = %d %q", tc.target, rr.Code, rr.Body.String())
		}
	}
}
