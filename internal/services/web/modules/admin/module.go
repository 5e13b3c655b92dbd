// Package admin serves the moderator dashboard.
package admin

import (
	"net/http"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// Module provides the moderator dashboard.
type Module struct {
	modulehandler.Base
}

// New returns the admin module.
func New(deps module.Dependencies) Module {
	return Module{Base: modulehandler.NewBase(deps)}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "admin"
}

// Routes returns the dashboard route.
func (m Module) Routes() ([]module.Route, error) {
	return []module.Route{module.Get(routepath.Admin, m.handleDashboard)}, nil
}

// handleDashboard hides the dashboard behind a 404 for everyone but
// moderators.
func (m Module) handleDashboard(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	if !viewer.SignedIn || !viewer.Moderator {
		m.WriteNotFound(w, r, viewer)
		return
	}
	ctx := r.Context()
	posts, err := m.Service().ListTopPosts(ctx, viewer, "")
	if err != nil {
		m.WritePageError(w, r, viewer, err)
		return
	}
	users, err := m.Service().ListUsers(ctx, "")
	if err != nil {
		m.WritePageError(w, r, viewer, err)
		return
	}
	comments, err := m.Service().ListAllComments(ctx, viewer, "")
	if err != nil {
		m.WritePageError(w, r, viewer, err)
		return
	}
	page := m.Page(w, r, viewer)
	page.Title = webtemplates.T(page.Loc, "admin.title")
	m.WritePage(w, r, page, webtemplates.AdminPage(page, webtemplates.AdminData{
		Posts:    posts.Items,
		Users:    users.Items,
		Comments: comments.Items,
	}))
}
