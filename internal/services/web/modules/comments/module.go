// Package comments serves comment creation and deletion.
package comments

import (
	"net/http"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

var (
	submitMessages = modulehandler.Messages{
		SignIn:  "Sign in to comment",
		Invalid: "Provide a valid post to comment on",
		Failure: "Failed to add comment",
	}
	deleteMessages = modulehandler.Messages{
		SignIn:    "Sign in to delete comments",
		Invalid:   "Provide a valid comment to delete",
		Forbidden: "Must be owner to delete",
		Failure:   "Failed to delete comment",
	}
)

// Module provides comment routes.
type Module struct {
	modulehandler.Base
}

// New returns the comments module.
func New(deps module.Dependencies) Module {
	return Module{Base: modulehandler.NewBase(deps)}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "comments"
}

// Routes returns the comment mutation routes.
func (m Module) Routes() ([]module.Route, error) {
	return []module.Route{
		module.Post(routepath.SubmitCommentRoute, m.handleSubmit),
		module.Post(routepath.DeleteCommentRoute, m.handleDelete),
	}, nil
}

func (m Module) handleSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	postID := r.PathValue("postID")
	if _, err := m.Service().CreateComment(r.Context(), viewer, postID, r.FormValue("body")); err != nil {
		m.WriteMutationError(w, r, viewer, err, submitMessages)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Post(postID))
}

func (m Module) handleDelete(w http.ResponseWriter, r *http.Request) {
	viewer := m.Viewer(r)
	if err := m.Service().DeleteComment(r.Context(), viewer, r.PathValue("id")); err != nil {
		m.WriteMutationError(w, r, viewer, err, deleteMessages)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
