// Package weberror renders shared error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	apperrors "github.com/louisbranch/liftboard/internal/services/web/platform/errors"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/liftboard/internal/services/web/platform/i18n"
	"github.com/louisbranch/liftboard/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// ShouldRenderPage reports whether status should use the error page UX.
func ShouldRenderPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	return apperrors.PublicMessage(err)
}

// WritePage writes a localized 404 or 500 page.
func WritePage(w http.ResponseWriter, r *http.Request, statusCode int, viewer app.Viewer, clientEnabled bool) {
	if w == nil {
		return
	}
	if !ShouldRenderPage(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	page := pagerender.Context(w, r, viewer, clientEnabled)
	page.Title = webtemplates.ErrorPageTitle(statusCode, page.Loc)
	if err := pagerender.WritePage(w, r, page, statusCode, webtemplates.ErrorState(statusCode, page.Loc)); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteError answers a page request: 404 and 5xx errors get an error page,
// everything else a short message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, viewer app.Viewer, clientEnabled bool) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderPage(statusCode) {
		WritePage(w, r, statusCode, viewer, clientEnabled)
		return
	}
	loc, _ := webi18n.ResolveLocalizer(w, r)
	httpx.WriteMessage(w, r, statusCode, PublicMessage(loc, err))
}
