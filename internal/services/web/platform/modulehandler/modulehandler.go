// Package modulehandler provides a composable base for web module handlers.
//
// Modules share viewer resolution, localization, page rendering and the
// translation of app errors into responses. Modules embed Base rather than
// duplicating that scaffold.
package modulehandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	module "github.com/louisbranch/liftboard/internal/services/web/module"
	apperrors "github.com/louisbranch/liftboard/internal/services/web/platform/errors"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/pagerender"
	"github.com/louisbranch/liftboard/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// InvalidCookieMessage answers requests whose session cookie matched no
// live session.
const InvalidCookieMessage = "Invalid cookie"

// Messages holds the client-facing text a route uses for app errors.
type Messages struct {
	// SignIn answers ErrNotSignedIn.
	SignIn string
	// Invalid answers a missing post, user or comment.
	Invalid string
	// Forbidden answers ErrForbidden.
	Forbidden string
	// Failure answers unexpected errors.
	Failure string
}

// Base carries the shared request-scoped dependencies of module handlers.
type Base struct {
	service       *app.Service
	resolveViewer module.ResolveViewer
	logger        *zap.Logger
	clientEnabled bool
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Base{
		service:       deps.Service,
		resolveViewer: deps.ResolveViewer,
		logger:        logger,
		clientEnabled: deps.ClientEnabled,
	}
}

// Service returns the board app service.
func (b Base) Service() *app.Service {
	return b.service
}

// Logger returns the module logger.
func (b Base) Logger() *zap.Logger {
	return b.logger
}

// Viewer resolves the signed-in state for r.
func (b Base) Viewer(r *http.Request) app.Viewer {
	if r == nil || b.resolveViewer == nil {
		return app.Viewer{}
	}
	return b.resolveViewer(r)
}

// Page resolves the layout context for r.
func (b Base) Page(w http.ResponseWriter, r *http.Request, viewer app.Viewer) webtemplates.PageContext {
	return pagerender.Context(w, r, viewer, b.clientEnabled)
}

// WritePage renders a full page, falling back to the error page when
// rendering fails.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, body templ.Component) {
	if err := pagerender.WritePage(w, r, page, http.StatusOK, body); err != nil {
		b.logger.Error("render page", zap.String("path", requestPath(r)), zap.Error(err))
		weberror.WritePage(w, r, http.StatusInternalServerError, page.Viewer, b.clientEnabled)
	}
}

// WriteNotFound renders the 404 page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request, viewer app.Viewer) {
	weberror.WritePage(w, r, http.StatusNotFound, viewer, b.clientEnabled)
}

// WritePageError answers a page request that failed with err. Missing
// resources render the 404 page.
func (b Base) WritePageError(w http.ResponseWriter, r *http.Request, viewer app.Viewer, err error) {
	mapped := b.translate(viewer, err, Messages{})
	switch {
	case errors.Is(err, app.ErrPostNotFound), errors.Is(err, app.ErrUserNotFound), errors.Is(err, app.ErrCommentNotFound):
		mapped = apperrors.Wrap(apperrors.KindNotFound, "not found", err)
	}
	if apperrors.HTTPStatus(mapped) >= http.StatusInternalServerError {
		b.logger.Error("page request failed", zap.String("path", requestPath(r)), zap.Error(err))
	}
	weberror.WriteError(w, r, mapped, viewer, b.clientEnabled)
}

// WriteMutationError answers a mutation that failed with err using the
// route's messages.
func (b Base) WriteMutationError(w http.ResponseWriter, r *http.Request, viewer app.Viewer, err error, messages Messages) {
	mapped := b.translate(viewer, err, messages)
	if apperrors.HTTPStatus(mapped) >= http.StatusInternalServerError {
		b.logger.Error("mutation failed", zap.String("path", requestPath(r)), zap.Error(err))
	}
	httpx.WriteError(w, r, mapped)
}

// translate maps an app error to a typed web error.
func (b Base) translate(viewer app.Viewer, err error, messages Messages) error {
	if validation, ok := app.AsValidation(err); ok {
		return apperrors.Wrap(apperrors.KindInvalidInput, validation.Message, err)
	}
	switch {
	case errors.Is(err, app.ErrNotSignedIn):
		if viewer.Stale {
			return apperrors.Wrap(apperrors.KindUnauthorized, InvalidCookieMessage, err)
		}
		return apperrors.Wrap(apperrors.KindUnauthorized, orDefault(messages.SignIn, "Sign in first"), err)
	case errors.Is(err, app.ErrForbidden):
		return apperrors.Wrap(apperrors.KindForbidden, orDefault(messages.Forbidden, "Must be owner to delete"), err)
	case errors.Is(err, app.ErrPostNotFound), errors.Is(err, app.ErrUserNotFound), errors.Is(err, app.ErrCommentNotFound):
		return apperrors.Wrap(apperrors.KindInvalidInput, orDefault(messages.Invalid, err.Error()), err)
	case errors.Is(err, app.ErrThumbnailNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, "thumbnail not found", err)
	case errors.Is(err, app.ErrInvalidCredentials):
		return apperrors.Wrap(apperrors.KindUnauthorized, "Invalid credentials", err)
	case errors.Is(err, app.ErrHandleTaken):
		return apperrors.Wrap(apperrors.KindConflict, "handle is already taken", err)
	}
	var typed apperrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperrors.Wrap(apperrors.KindUnknown, orDefault(messages.Failure, http.StatusText(http.StatusInternalServerError)), err)
}

func orDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
