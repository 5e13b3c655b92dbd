package web

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/sessioncookie"
)

type requestPrincipalState struct {
	viewerOnce sync.Once
	viewer     boardapp.Viewer
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	service *boardapp.Service
	logger  *zap.Logger
}

func newPrincipalResolver(service *boardapp.Service, logger *zap.Logger) principalResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return principalResolver{service: service, logger: logger}
}

func (r principalResolver) resolveViewerUncached(request *http.Request) boardapp.Viewer {
	if request == nil || r.service == nil {
		return boardapp.Viewer{}
	}
	token, ok := sessioncookie.Read(request)
	if !ok {
		return boardapp.Viewer{}
	}
	viewer, err := r.service.ResolveViewer(request.Context(), token)
	if err != nil {
		r.logger.Warn("resolve viewer", zap.String("request_id", httpx.RequestIDFrom(request)), zap.Error(err))
		return boardapp.Viewer{}
	}
	return viewer
}

// resolveViewer looks the session up at most once per request.
func (r principalResolver) resolveViewer(request *http.Request) boardapp.Viewer {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.viewerOnce.Do(func() {
			state.viewer = r.resolveViewerUncached(request)
		})
		return state.viewer
	}
	return r.resolveViewerUncached(request)
}

func withRequestPrincipalState() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, &requestPrincipalState{})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestPrincipalStateFromRequest(request *http.Request) *requestPrincipalState {
	if request == nil {
		return nil
	}
	state, _ := request.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}
