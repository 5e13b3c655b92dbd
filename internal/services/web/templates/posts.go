package templates

import (
	"context"
	"sort"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/client/board"
	"github.com/louisbranch/liftboard/internal/services/board/app"
	webi18n "github.com/louisbranch/liftboard/internal/services/web/platform/i18n"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// Listing is one rendered page of items with its pager tokens.
type Listing struct {
	Path          string
	NextPageToken string
	PrevPageToken string
	HasPrev       bool
}

// ListingOf copies the pager fields of page.
func ListingOf[T any](path string, page app.Page[T]) Listing {
	return Listing{
		Path:          path,
		NextPageToken: page.NextPageToken,
		PrevPageToken: page.PrevPageToken,
		HasPrev:       page.HasPrev,
	}
}

// FrontPage lists the top posts.
func FrontPage(page PageContext, posts []app.PostView, listing Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(page.Loc, "core.nav.top"))
		h.render(ctx, PostList(page, posts, listing))
	})
}

// PostList renders post cards followed by the pager.
func PostList(page PageContext, posts []app.PostView, listing Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if len(posts) == 0 {
			h.element("p", T(page.Loc, "post.empty"), "class", "empty")
		}
		h.open("section", "class", "post-list")
		for _, post := range posts {
			h.render(ctx, PostCard(page, post, false))
		}
		h.close("section")
		h.render(ctx, Pager(page, listing))
	})
}

// PostCard renders one post with its like control.
func PostCard(page PageContext, post app.PostView, detail bool) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("article", "class", "post-card", board.CardAttribute, board.CardValue(board.KindPost, post.ID))
		if detail {
			h.element("h1", post.Title)
		} else {
			h.raw("<h2>")
			h.link(routepath.Post(post.ID), post.Title)
			h.raw("</h2>")
		}
		h.open("p", "class", "post-meta")
		h.text(T(page.Loc, "post.by", ""))
		h.link(routepath.User(post.UserID), post.UserName)
		h.raw(" · ")
		h.text(T(page.Loc, "post.lift", post.Lift, post.Weight))
		h.close("p")
		h.open("img", "class", "thumbnail", "src", routepath.Thumbnail(post.ID), "alt", post.Title, "loading", "lazy")
		if detail {
			h.raw(`<div class="post-description">`)
			h.render(ctx, Markdown(post.Description))
			h.raw("</div>")
		}
		h.render(ctx, LikeControl(page, post))
		h.open("p", "class", "post-actions")
		h.link(routepath.Post(post.ID), T(page.Loc, "post.comments", post.Comments))
		if post.CanDelete {
			h.raw(" ")
			h.render(ctx, DeleteButton(board.KindPost, post.ID, T(page.Loc, "post.delete")))
		}
		h.close("p")
		h.close("article")
	})
}

// LikeControl renders the like container. Its id is the post id and it
// carries the localized labels the client uses.
func LikeControl(page PageContext, post app.PostView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		labels := webi18n.LikeLabels(page.Loc)
		attrs := labels.Attributes()
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)

		h.raw("<div")
		h.attr("class", "like-control")
		h.attr("id", post.ID)
		for _, name := range names {
			h.attr(name, attrs[name])
		}
		h.raw(">")
		h.raw("<span")
		h.attr("id", board.LikeCounterID)
		h.intAttr(board.CountAttribute, post.Likes)
		h.raw(">")
		h.text(labels.FormatCount(post.Likes))
		h.raw("</span> ")
		class := "like"
		if post.Liked {
			class += " " + board.LikedClass
		}
		h.element("button", labels.ButtonText(post.Liked), "id", board.LikeButtonID, "type", "button", "class", class, "onclick", "like(this)")
		h.raw("</div>")
	})
}

// DeleteButton renders a fire-and-forget delete control for a card.
func DeleteButton(kind string, id string, label string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("button", label, "type", "button", "class", "delete", board.DeleteAttribute, kind, board.IDAttribute, id)
	})
}

// Pager renders previous and next links for a listing.
func Pager(page PageContext, listing Listing) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if !listing.HasPrev && listing.NextPageToken == "" {
			return
		}
		h.raw(`<nav class="pager">`)
		if listing.HasPrev {
			h.link(routepath.WithPage(listing.Path, listing.PrevPageToken), T(page.Loc, "core.page.prev"), "rel", "prev")
		}
		if listing.NextPageToken != "" {
			h.link(routepath.WithPage(listing.Path, listing.NextPageToken), T(page.Loc, "core.page.next"), "rel", "next")
		}
		h.raw("</nav>")
	})
}

// PostPage renders one post and its comments.
func PostPage(page PageContext, post app.PostView, comments []app.CommentView, listing Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.render(ctx, PostCard(page, post, true))
		h.render(ctx, CommentSection(page, post.ID, comments, listing))
	})
}
