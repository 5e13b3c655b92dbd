package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/client/board"
	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// AdminData is the moderator dashboard content.
type AdminData struct {
	Posts    []app.PostView
	Users    []storage.User
	Comments []app.CommentView
}

// AdminPage renders the moderator dashboard.
func AdminPage(page PageContext, data AdminData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", T(page.Loc, "admin.title"))

		h.open("section", "class", "admin-posts")
		h.element("h2", T(page.Loc, "admin.posts"))
		for _, post := range data.Posts {
			h.render(ctx, PostCard(page, post, false))
		}
		h.close("section")

		h.open("section", "class", "admin-users")
		h.element("h2", T(page.Loc, "admin.users"))
		h.raw("<ul>")
		for _, user := range data.Users {
			h.open("li", board.CardAttribute, board.CardValue(board.KindUser, user.ID))
			h.link(routepath.User(user.ID), user.Name)
			h.raw(" ")
			h.element("span", "@"+user.Handle, "class", "handle")
			if user.Moderator {
				h.raw(" ")
				h.element("span", T(page.Loc, "user.moderator"), "class", "badge")
			}
			h.raw(" ")
			h.render(ctx, DeleteButton(board.KindUser, user.ID, T(page.Loc, "user.delete")))
			h.close("li")
		}
		h.raw("</ul>")
		h.close("section")

		h.open("section", "class", "admin-comments")
		h.element("h2", T(page.Loc, "admin.comments"))
		for _, comment := range data.Comments {
			h.render(ctx, CommentCard(page, comment))
		}
		h.close("section")
	})
}
