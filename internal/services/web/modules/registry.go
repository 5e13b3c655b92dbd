// Package modules lists the web feature modules in mount order.
package modules

import (
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/modules/admin"
	"github.com/louisbranch/liftboard/internal/services/web/modules/assets"
	"github.com/louisbranch/liftboard/internal/services/web/modules/auth"
	"github.com/louisbranch/liftboard/internal/services/web/modules/comments"
	"github.com/louisbranch/liftboard/internal/services/web/modules/feed"
	"github.com/louisbranch/liftboard/internal/services/web/modules/health"
	"github.com/louisbranch/liftboard/internal/services/web/modules/posts"
	"github.com/louisbranch/liftboard/internal/services/web/modules/users"
)

// Registry builds the module set for one server.
type Registry struct{}

// NewRegistry returns the default registry.
func NewRegistry() Registry {
	return Registry{}
}

// Build returns every module wired to deps.
func (Registry) Build(deps module.Dependencies) []module.Module {
	return []module.Module{
		health.New(),
		assets.New(deps),
		feed.New(deps),
		posts.New(deps),
		comments.New(deps),
		users.New(deps),
		auth.New(deps),
		admin.New(deps),
	}
}
