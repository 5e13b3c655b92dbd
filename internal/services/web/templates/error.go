package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

const (
	errorNotFoundTitleKey = "core.error.not_found.title"
	errorNotFoundBodyKey  = "core.error.not_found.body"
	errorServerTitleKey   = "core.error.server.title"
	errorServerBodyKey    = "core.error.server.body"
)

// ErrorPageTitle returns the browser page title for error pages.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorNotFoundTitleKey)
	}
	return T(loc, errorServerTitleKey)
}

// ErrorState renders the body of a 404 or 500 page.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		bodyKey := errorServerBodyKey
		if normalizeErrorStatus(statusCode) == http.StatusNotFound {
			bodyKey = errorNotFoundBodyKey
		}
		h.open("section", "class", "error-state")
		h.element("h1", ErrorPageTitle(statusCode, loc))
		h.element("p", T(loc, bodyKey))
		h.link(routepath.Root, T(loc, "core.nav.top"))
		h.close("section")
	})
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
