package app

import (
	"net/http"

	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/platform/weberror"
)

// BuildRootHandler composes the configured modules behind a 404 page
// catch-all.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	deps := cfg.Dependencies
	resolveViewer := deps.ResolveViewer
	if resolveViewer == nil {
		resolveViewer = func(*http.Request) boardapp.Viewer { return boardapp.Viewer{} }
	}
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weberror.WritePage(w, r, http.StatusNotFound, resolveViewer(r), deps.ClientEnabled)
	})
	return Compose(ComposeInput{
		Modules:             cfg.Modules,
		RequestSchemePolicy: deps.SchemePolicy,
		Limiter:             cfg.Limiter,
		NotFound:            notFound,
	})
}
