// Package pagerender centralizes full-page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/liftboard/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// Context resolves the shared layout context for a request. The language
// cookie is persisted when the request chose a language explicitly.
func Context(w http.ResponseWriter, r *http.Request, viewer app.Viewer, clientEnabled bool) webtemplates.PageContext {
	loc, lang := webi18n.ResolveLocalizer(w, r)
	page := webtemplates.PageContext{
		Lang:          lang,
		Loc:           loc,
		Viewer:        viewer,
		ClientEnabled: clientEnabled,
	}
	if r != nil && r.URL != nil {
		page.CurrentPath = r.URL.Path
		page.CurrentQuery = r.URL.RawQuery
	}
	return page
}

// WritePage renders body inside the layout. Nothing is written when
// rendering fails, so callers can still answer with an error page.
func WritePage(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, statusCode int, body templ.Component) error {
	if w == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if body == nil {
		body = templ.NopComponent
	}
	var buf bytes.Buffer
	ctx := templ.WithChildren(httpx.RequestContext(r), body)
	if err := webtemplates.Layout(page).Render(ctx, &buf); err != nil {
		return err
	}
	return httpx.WriteHTML(w, statusCode, buf.Bytes())
}
