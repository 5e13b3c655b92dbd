package app

import (
	"github.com/louisbranch/liftboard/internal/platform/ratelimit"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	Dependencies module.Dependencies
	Modules      []module.Module
	Limiter      *ratelimit.Limiter
}
