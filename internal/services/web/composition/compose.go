// Package composition assembles the web root handler from the module
// registry and request-scoped resolvers.
package composition

import (
	"net/http"

	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	webapp "github.com/louisbranch/liftboard/internal/services/web/app"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/modules"
)

// ModuleRegistry builds web module sets from shared dependencies.
type ModuleRegistry interface {
	Build(module.Dependencies) []module.Module
}

// ComposeInput describes the contracts needed to compose the application mux.
type ComposeInput struct {
	Dependencies module.Dependencies
	Limiter      *ratelimit.Limiter
	Registry     ModuleRegistry
}

// ComposeAppHandler builds the web app handler with the registry's modules.
func ComposeAppHandler(input ComposeInput) (http.Handler, error) {
	registry := input.Registry
	if registry == nil {
		registry = modules.NewRegistry()
	}
	return webapp.BuildRootHandler(webapp.Config{
		Dependencies: input.Dependencies,
		Modules:      registry.Build(input.Dependencies),
		Limiter:      input.Limiter,
	})
}
