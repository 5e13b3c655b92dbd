package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/client/board"
	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage"
)

// UserPage renders a profile and the user's posts.
func UserPage(page PageContext, user storage.User, posts []app.PostView, listing Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("section", "class", "profile", board.CardAttribute, board.CardValue(board.KindUser, user.ID))
		h.element("h1", user.Name)
		h.element("p", "@"+user.Handle, "class", "handle")
		if user.Moderator {
			h.element("span", T(page.Loc, "user.moderator"), "class", "badge")
		}
		if user.Bio != "" {
			h.element("p", user.Bio, "class", "bio")
		}
		if page.Viewer.CanManage(user.ID) {
			h.render(ctx, DeleteButton(board.KindUser, user.ID, T(page.Loc, "user.delete")))
		}
		h.close("section")
		h.element("h2", T(page.Loc, "user.posts", user.Name))
		h.render(ctx, PostList(page, posts, listing))
	})
}
