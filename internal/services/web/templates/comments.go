package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/client/board"
	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// CommentSection renders the comments of a post and, for signed-in
// viewers, the comment form.
func CommentSection(page PageContext, postID string, comments []app.CommentView, listing Listing) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("section", "class", "comments", "id", "comments")
		h.element("h2", T(page.Loc, "comment.heading"))
		if len(comments) == 0 {
			h.element("p", T(page.Loc, "comment.empty"), "class", "empty")
		}
		for _, comment := range comments {
			h.render(ctx, CommentCard(page, comment))
		}
		h.render(ctx, Pager(page, listing))
		if page.Viewer.SignedIn {
			h.open("form", "method", "post", "action", routepath.SubmitComment(postID), "class", "comment-form")
			h.element("label", T(page.Loc, "comment.body"), "for", "comment-body")
			h.open("textarea", "id", "comment-body", "name", "body", "required", "required", "maxlength", "1000")
			h.close("textarea")
			h.element("button", T(page.Loc, "comment.submit"), "type", "submit")
			h.close("form")
		} else {
			h.open("p", "class", "hint")
			h.link(routepath.Login, T(page.Loc, "comment.sign_in"))
			h.close("p")
		}
		h.close("section")
	})
}

// CommentCard renders one comment.
func CommentCard(page PageContext, comment app.CommentView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("article", "class", "comment", board.CardAttribute, board.CardValue(board.KindComment, comment.ID))
		h.open("p", "class", "comment-meta")
		h.link(routepath.User(comment.UserID), comment.UserName)
		h.raw(" ")
		h.element("time", comment.CreatedAt.Format("2006-01-02 15:04"), "datetime", comment.CreatedAt.Format(time.RFC3339))
		h.close("p")
		h.element("p", comment.Body, "class", "comment-body")
		if comment.CanDelete {
			h.render(ctx, DeleteButton(board.KindComment, comment.ID, T(page.Loc, "comment.delete")))
		}
		h.close("article")
	})
}
