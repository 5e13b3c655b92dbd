// Package feed serves the front page and post thumbnails.
package feed

import (
	"net/http"
	"strconv"

	module "github.com/louisbranch/liftboard/internal/services/web/module"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// thumbnailMaxAge is how long browsers may cache a thumbnail. Thumbnails
// never change once uploaded.
const thumbnailMaxAge = 24 * 60 * 60

// Module provides the front page routes.
type Module struct {
	base modulehandler.Base
}

// New returns the feed module.
func New(deps module.Dependencies) Module {
	return Module{base: modulehandler.NewBase(deps)}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "feed"
}

// Routes returns the front page and thumbnail routes.
func (m Module) Routes() ([]module.Route, error) {
	return []module.Route{
		module.Get(routepath.Root+"{$}", m.handleFront),
		module.Get(routepath.ThumbnailRoute, m.handleThumbnail),
	}, nil
}

func (m Module) handleFront(w http.ResponseWriter, r *http.Request) {
	viewer := m.base.Viewer(r)
	posts, err := m.base.Service().ListTopPosts(r.Context(), viewer, r.URL.Query().Get(routepath.PageQueryKey))
	if err != nil {
		m.base.WritePageError(w, r, viewer, err)
		return
	}
	page := m.base.Page(w, r, viewer)
	page.Title = webtemplates.T(page.Loc, "core.nav.top")
	m.base.WritePage(w, r, page, webtemplates.FrontPage(page, posts.Items, webtemplates.ListingOf(routepath.Root, posts)))
}

func (m Module) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	entry, err := m.base.Service().Thumbnail(r.Context(), r.PathValue("id"))
	if err != nil {
		m.base.WriteMutationError(w, r, m.base.Viewer(r), err, modulehandler.Messages{})
		return
	}
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.Data)))
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(thumbnailMaxAge))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(entry.Data)
	}
}
