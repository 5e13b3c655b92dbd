// Package health serves the liveness probe.
package health

import (
	"net/http"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// Module provides the health route.
type Module struct{}

// New returns the health module.
func New() Module {
	return Module{}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "health"
}

// Routes returns the health route.
func (Module) Routes() ([]module.Route, error) {
	return []module.Route{module.Get(routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteText(w, http.StatusOK, "ok")
	})}, nil
}
