// Package posts serves post pages and the post mutations the client calls.
package posts

import (
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// Module provides post routes.
type Module struct {
	handlers handlers
}

// New returns the posts module.
func New(deps module.Dependencies) Module {
	return Module{handlers: handlers{Base: modulehandler.NewBase(deps)}}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "posts"
}

// Routes returns the post page, submit and like routes.
func (m Module) Routes() ([]module.Route, error) {
	h := m.handlers
	return []module.Route{
		module.Get(routepath.PostPattern, h.handlePost),
		module.Get(routepath.Submit, h.handleSubmitForm),
		module.Post(routepath.SubmitPost, h.handleSubmitPost),
		module.Post(routepath.LikePattern, h.handleLike),
		module.Post(routepath.RemoveLikePattern, h.handleRemoveLike),
		module.Post(routepath.DeletePostPattern, h.handleDelete),
	}, nil
}
