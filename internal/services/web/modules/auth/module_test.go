package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

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

func sessionToken(rr *httptest.ResponseRecorder) string {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			return cookie.Value
		}
	}
	return ""
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	h := newHandler(t, env)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
	}{
		{name: "unknown handle", form: url.Values{"handle": {"zed"}, "password": {boardtest.Password}}, wantStatus: http.StatusBadRequest, wantBody: "User zed not found"},
		{name: "wrong password", form: url.Values{"handle": {"ana"}, "password": {"wrong password"}}, wantStatus: http.StatusUnauthorized, wantBody: "Invalid credentials"},
	}
	for _, tc := range tests {
		rr := postForm(h, "/loginSubmit", tc.form, nil)
		if rr.Code != tc.wantStatus || rr.Body.String() != tc.wantBody {
			t.Fatalf("%s = %d %q", tc.name, rr.Code, rr.Body.String())
		}
	}

	rr := postForm(h, "/loginSubmit", url.Values{"handle": {"@Ana"}, "password": {boardtest.Password}}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d (%q)", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "/user/"+ana.User.ID {
		t.Fatalf("location = %q", got)
	}
	token := sessionToken(rr)
	if token == "" {
		t.Fatal("expected session cookie")
	}
	viewer, err := env.Service.ResolveViewer(t.Context(), token)
	if err != nil || viewer.UserID != ana.User.ID {
		t.Fatalf("viewer = %+v, %v", viewer, err)
	}
}

func TestSignup(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	env.SignUp(t, "ana")
	h := newHandler(t, env)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
	}{
		{name: "missing handle", form: url.Values{"name": {"Bo"}, "password": {boardtest.Password}}, wantStatus: http.StatusBadRequest, wantBody: "missing handle"},
		{name: "missing name", form: url.Values{"handle": {"bob"}, "password": {boardtest.Password}}, wantStatus: http.StatusBadRequest, wantBody: "missing name"},
		{name: "missing password", form: url.Values{"handle": {"bob"}, "name": {"Bob"}}, wantStatus: http.StatusBadRequest, wantBody: "missing password"},
		{name: "taken", form: url.Values{"handle": {"ANA"}, "name": {"Ana"}, "password": {boardtest.Password}}, wantStatus: http.StatusConflict, wantBody: "handle is already taken"},
	}
	for _, tc := range tests {
		rr := postForm(h, "/signupForm", tc.form, nil)
		if rr.Code != tc.wantStatus || rr.Body.String() != tc.wantBody {
			t.Fatalf("%s = %d %q", tc.name, rr.Code, rr.Body.String())
		}
	}

	rr := postForm(h, "/signupForm", url.Values{"handle": {"bob"}, "name": {"Bob"}, "password": {boardtest.Password}, "bio": {"lifts"}}, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("signup = %d (%q)", rr.Code, rr.Body.String())
	}
	if !strings.HasPrefix(rr.Header().Get("Location"), "/user/") || sessionToken(rr) == "" {
		t.Fatalf("signup location %q without session", rr.Header().Get("Location"))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	h := newHandler(t, env)

	rr := postForm(h, "/logout", nil, &ana)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("logout = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	viewer, err := env.Service.ResolveViewer(t.Context(), ana.Token)
	if err != nil {
		t.Fatalf("ResolveViewer: %v", err)
	}
	if viewer.SignedIn || !viewer.Stale {
		t.Fatalf("viewer after logout = %+v", viewer)
	}
}

func TestPagesRedirectSignedInViewers(t *testing.T) {
	t.Parallel()

	env := boardtest.New(t, 0)
	ana := env.SignUp(t, "ana")
	h := newHandler(t, env)

	for _, target := range []string{"/login", "/signup"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<form") {
			t.Fatalf("%s signed out = %d", target, rr.Code)
		}

		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.AddCookie(ana.Cookie())
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s signed in = %d", target, rr.Code)
		}
	}
}
