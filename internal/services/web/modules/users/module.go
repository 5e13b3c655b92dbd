// Package users serves profile pages, account deletion and the handle
// availability probe used by the signup form.
package users

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/liftboard/internal/services/board/handle"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

var deleteMessages = modulehandler.Messages{
	SignIn:    "Sign in to delete users",
	Invalid:   "Provide a valid user to delete",
	Forbidden: "Must be owner to delete",
	Failure:   "Failed to delete user",
}

// Module provides user routes.
type Module struct {
	modulehandler.Base
	policy requestmeta.SchemePolicy
}

// New returns the users module.
func New(deps module.Dependencies) Module {
	return Module{Base: modulehandler.NewBase(deps), policy: deps.SchemePolicy}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "users"
}

// Routes returns the profile, delete and handle probe routes.
func (m Module) Routes() ([]module.Route, error) {
	return []module.Route{
		module.Get(routepath.UserPattern, m.handleUser),
		module.Post(routepath.DeleteUserPattern, m.handleDelete),
		module.Get(routepath.HandleExistsPattern, m.handleExists),
	}, nil
}

func (m Module) handleUser(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	ctx := r.Context()
	user, err := m.Service().GetUser(ctx, r.PathValue("id"))
	if err != nil {
		m.WritePageError(w, r, viewer, err)
		return
	}
	posts, err := m.Service().ListPostsByUser(ctx, viewer, user.ID, r.URL.Query().Get(routepath.PageQueryKey))
	if err != nil {
		m.WritePageError(w, r, viewer, err)
		return
	}
	page := m.Page(w, r, viewer)
	page.Title = user.Name
	listing := webtemplates.ListingOf(routepath.User(user.ID), posts)
	m.WritePage(w, r, page, webtemplates.UserPage(page, user, posts.Items, listing))
}

func (m Module) handleDelete(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	userID := r.PathValue("id")
	if err := m.Service().DeleteUser(r.Context(), viewer, userID); err != nil {
		m.WriteMutationError(w, r, viewer, err, deleteMessages)
		return
	}
	if viewer.UserID == userID {
		sessioncookie.Clear(w, r, m.policy)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m Module) handleExists(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("handle")
	if strings.TrimSpace(raw) == "" {
		httpx.WriteMessage(w, r, http.StatusBadRequest, "invalid handle")
		return
	}
	if _, err := handle.Canonicalize(raw); err != nil {
		httpx.WriteMessage(w, r, http.StatusBadRequest, "invalid handle")
		return
	}
	exists, err := m.Service().HandleExists(r.Context(), raw)
	if err != nil {
		m.WriteMutationError(w, r, m.Viewer(r), err, modulehandler.Messages{Failure: "Failed to look up handle"})
		return
	}
	_ = httpx.WriteText(w, http.StatusOK, strconv.FormatBool(exists))
}
