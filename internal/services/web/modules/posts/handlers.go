package posts

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/platform/httpx"
	"github.com/louisbranch/liftboard/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/liftboard/internal/services/web/templates"
)

// multipartOverhead bounds the non-file form fields of a submission.
const multipartOverhead = 1 << 20

var (
	submitMessages = modulehandler.Messages{
		SignIn:  "Sign in to post",
		Failure: "Failed to submit post due to internal error",
	}
	likeMessages = modulehandler.Messages{
		SignIn:  "Sign in to like",
		Invalid: "Provide a valid post to like",
		Failure: "Failed to like post",
	}
	removeLikeMessages = modulehandler.Messages{
		SignIn:  "Sign in to remove like",
		Invalid: "Provide a valid post to remove like",
		Failure: "Failed to remove like",
	}
	deleteMessages = modulehandler.Messages{
		SignIn:    "Sign in to delete posts",
		Invalid:   "Provide a valid post to delete",
		Forbidden: "Must be owner to delete",
		Failure:   "Failed to delete post",
	}
)

type handlers struct {
	modulehandler.Base
}

func (h handlers) handlePost(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	ctx := r.Context()
	post, err := h.Service().GetPost(ctx, viewer, r.PathValue("id"))
	if err != nil {
		h.WritePageError(w, r, viewer, err)
		return
	}
	comments, err := h.Service().ListComments(ctx, viewer, post.ID, r.URL.Query().Get(routepath.PageQueryKey))
	if err != nil {
		h.WritePageError(w, r, viewer, err)
		return
	}
	page := h.Page(w, r, viewer)
	page.Title = post.Title
	listing := webtemplates.ListingOf(routepath.Post(post.ID), comments)
	h.WritePage(w, r, page, webtemplates.PostPage(page, post, comments.Items, listing))
}

func (h handlers) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	if !viewer.SignedIn {
		h.WriteMutationError(w, r, viewer, app.ErrNotSignedIn, submitMessages)
		return
	}
	page := h.Page(w, r, viewer)
	page.Title = webtemplates.T(page.Loc, "submit.title")
	h.WritePage(w, r, page, webtemplates.SubmitPage(page))
}

func (h handlers) handleSubmitPost(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	if !viewer.SignedIn {
		h.WriteMutationError(w, r, viewer, app.ErrNotSignedIn, submitMessages)
		return
	}
	maxBytes := h.Service().MaxThumbnailBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	file, _, err := r.FormFile("thumbnail")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteMutationError(w, r, viewer, app.ValidationError{Field: "thumbnail", Message: "Image is too large"}, submitMessages)
			return
		}
		h.WriteMutationError(w, r, viewer, app.ValidationError{Field: "thumbnail", Message: "Insert an image"}, submitMessages)
		return
	}
	defer func(file multipart.File) { _ = file.Close() }(file)

	post, err := h.Service().CreatePost(r.Context(), viewer, app.PostInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Lift:        r.FormValue("lift"),
		Weight:      r.FormValue("weight"),
	}, file)
	if err != nil {
		h.WriteMutationError(w, r, viewer, err, submitMessages)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Post(post.ID))
}

func (h handlers) handleLike(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	result, err := h.Service().LikePost(r.Context(), viewer, r.PathValue("id"))
	if err != nil {
		h.WriteMutationError(w, r, viewer, err, likeMessages)
		return
	}
	writeLikeResult(w, r, http.StatusCreated, result)
}

func (h handlers) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	result, err := h.Service().RemoveLike(r.Context(), viewer, r.PathValue("id"))
	if err != nil {
		h.WriteMutationError(w, r, viewer, err, removeLikeMessages)
		return
	}
	writeLikeResult(w, r, http.StatusNoContent, result)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	viewer := h.Viewer(r)
	if err := h.Service().DeletePost(r.Context(), viewer, r.PathValue("id")); err != nil {
		h.WriteMutationError(w, r, viewer, err, deleteMessages)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeLikeResult answers with an empty status, or with the counter as JSON
// when the client asks for it. A JSON body turns 204 into 200.
func writeLikeResult(w http.ResponseWriter, r *http.Request, status int, result app.LikeResult) {
	if !httpx.PrefersJSON(r) {
		w.WriteHeader(status)
		return
	}
	if status == http.StatusNoContent {
		status = http.StatusOK
	}
	_ = httpx.WriteJSON(w, status, result)
}
