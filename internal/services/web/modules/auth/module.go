// Package auth serves the login, signup and logout flows backed by
// password credentials and opaque session cookies.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

var (
	loginMessages  = modulehandler.Messages{Failure: "Failed to sign in"}
	signupMessages = modulehandler.Messages{Failure: "Failed to sign up"}
	logoutMessages = modulehandler.Messages{Failure: "Failed to sign out"}
)

// Module provides authentication routes.
type Module struct {
	modulehandler.Base
	policy requestmeta.SchemePolicy
}

// New returns the auth module.
func New(deps module.Dependencies) Module {
	return Module{Base: modulehandler.NewBase(deps), policy: deps.SchemePolicy}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "auth"
}

// Routes returns the login, signup and logout routes.
func (m Module) Routes() ([]module.Route, error) {
	return []module.Route{
		module.Get(routepath.Login, m.handleLoginPage),
		module.Post(routepath.LoginSubmit, m.handleLogin),
		module.Post(routepath.Logout, m.handleLogout),
		module.Get(routepath.Signup, m.handleSignupPage),
		module.Post(routepath.SignupSubmit, m.handleSignup),
	}, nil
}

func (m Module) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	if viewer.SignedIn {
		httpx.WriteRedirect(w, r, routepath.User(viewer.UserID))
		return
	}
	page := m.Page(w, r, viewer)
	page.Title = webtemplates.T(page.Loc, "login.title")
	m.WritePage(w, r, page, webtemplates.LoginPage(page))
}

func (m Module) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	if viewer.SignedIn {
		httpx.WriteRedirect(w, r, routepath.User(viewer.UserID))
		return
	}
	page := m.Page(w, r, viewer)
	page.Title = webtemplates.T(page.Loc, "signup.title")
	m.WritePage(w, r, page, webtemplates.SignupPage(page))
}

func (m Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	rawHandle := strings.TrimSpace(r.FormValue("handle"))
	user, session, err := m.Service().SignIn(r.Context(), rawHandle, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			err = app.ValidationError{Field: "handle", Message: fmt.Sprintf("User %s not found", rawHandle)}
		}
		m.WriteMutationError(w, r, viewer, err, loginMessages)
		return
	}
	m.Logger().Info("user signed in", zap.String("user_id", user.ID))
	sessioncookie.Write(w, r, session.Token, session.ExpiresAt, m.policy)
	httpx.WriteRedirect(w, r, routepath.User(user.ID))
}

func (m Module) handleSignup(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	user, session, err := m.Service().SignUp(r.Context(), app.SignUpInput{
		Handle:   r.FormValue("handle"),
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
		Bio:      r.FormValue("bio"),
	})
	if err != nil {
		m.WriteMutationError(w, r, viewer, err, signupMessages)
		return
	}
	sessioncookie.Write(w, r, session.Token, session.ExpiresAt, m.policy)
	httpx.WriteRedirect(w, r, routepath.User(user.ID))
}

func (m Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		if err := m.Service().SignOut(r.Context(), token); err != nil {
			m.WriteMutationError(w, r, m.Viewer(r), err, logoutMessages)
			return
		}
	}
	sessioncookie.Clear(w, r, m.policy)
	httpx.WriteRedirect(w, r, routepath.Root)
}
