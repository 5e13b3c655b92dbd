// Package assets serves the embedded stylesheet and script, plus the
// optional WebAssembly client build.
package assets

import (
	"net/http"
	"strings"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// Module provides static file routes.
type Module struct {
	assets  http.Handler
	wasmDir string
}

// New returns the assets module.
func New(deps module.Dependencies) Module {
	return Module{assets: deps.Assets, wasmDir: strings.TrimSpace(deps.WASMDir)}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "assets"
}

// Routes returns /public/ and, when a client build is configured, /client/.
func (m Module) Routes() ([]module.Route, error) {
	var routes []module.Route
	if m.assets != nil {
		routes = append(routes, module.Route{
			Method:  http.MethodGet,
			Pattern: routepath.PublicPrefix,
			Handler: http.StripPrefix(routepath.PublicPrefix, m.assets),
		})
	}
	if m.wasmDir != "" {
		routes = append(routes, module.Route{
			Method:  http.MethodGet,
			Pattern: routepath.ClientPrefix,
			Handler: http.StripPrefix(routepath.ClientPrefix, noListing(http.FileServer(http.Dir(m.wasmDir)))),
		})
	}
	return routes, nil
}

// noListing hides directory indexes.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
