// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/platform/requestmeta"
)

// ResolveViewer resolves the signed-in state for a request.
type ResolveViewer func(*http.Request) app.Viewer

// Route binds one method and pattern to a handler. Mutation routes get
// same-origin and rate-limit guards at composition time.
type Route struct {
	Method   string
	Pattern  string
	Handler  http.Handler
	Mutation bool
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Routes() ([]Route, error)
}

// Dependencies carries the shared services every module may use.
type Dependencies struct {
	Service       *app.Service
	ResolveViewer ResolveViewer
	Logger        *zap.Logger
	SchemePolicy  requestmeta.SchemePolicy
	// ClientEnabled includes the WebAssembly client loader in pages.
	ClientEnabled bool
	// Assets serves the embedded stylesheet and script.
	Assets http.Handler
	// WASMDir holds the built WebAssembly client, if any.
	WASMDir string
}

// Get is a convenience for GET routes.
func Get(pattern string, handler http.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Pattern: pattern, Handler: handler}
}

// Post is a convenience for mutation routes.
func Post(pattern string, handler http.HandlerFunc) Route {
	return Route{Method: http.MethodPost, Pattern: pattern, Handler: handler, Mutation: true}
}
