// Package board models the browser-side like and delete interactions.
//
// The model is shared by the server templates, which render the initial
// state and label attributes, and by the WebAssembly client, which applies
// transitions to the DOM. Requests are fire-and-forget: a transition never
// depends on a response.
package board

import (
	"net/http"
	"strconv"
	"strings"
)

// DOM contract shared with the rendered page.
const (
	ThumbnailSelector = ".thumbnail"
	ThumbnailFullSize = "thumbnail-full"
	LikeCounterID     = "likeCounter"
	LikeButtonID      = "like"
	LikedClass        = "liked"
	CountAttribute    = "count"
	SignedInGlobal    = "signedIn"
	CountPlaceholder  = "{count}"
)

// Label attributes rendered on the like container.
const (
	LabelLikeAttribute       = "data-label-like"
	LabelUnlikeAttribute     = "data-label-unlike"
	LabelSignInAttribute     = "data-label-sign-in"
	LabelCountOneAttribute   = "data-label-count-one"
	LabelCountOtherAttribute = "data-label-count-other"
)

// Paths of the mutation endpoints the client calls.
const (
	LikePath          = "/likePost/"
	RemoveLikePath    = "/removeLike/"
	DeletePostPath    = "/deletePost/"
	DeleteUserPath    = "/deleteUser/"
	DeleteCommentPath = "/deleteComment/"
)

// Delete controls carry DeleteAttribute (the card kind) and IDAttribute.
// Cards removable after a delete carry CardAttribute set to CardValue.
const (
	CardAttribute   = "data-card"
	DeleteAttribute = "data-delete"
	IDAttribute     = "data-id"
)

// Card kinds.
const (
	KindPost    = "post"
	KindUser    = "user"
	KindComment = "comment"
)

// CardValue identifies the card of one post, user or comment.
func CardValue(kind string, id string) string {
	return kind + ":" + id
}

// Labels is the UI copy used by like transitions.
type Labels struct {
	Like       string
	Unlike     string
	SignIn     string
	CountOne   string
	CountOther string
}

// DefaultLabels returns the English copy.
func DefaultLabels() Labels {
	return Labels{
		Like:       "Like post",
		Unlike:     "Remove like",
		SignIn:     "Sign in to like",
		CountOne:   CountPlaceholder + " likes",
		CountOther: CountPlaceholder + " likes",
	}
}

// WithDefaults fills blank labels from DefaultLabels.
func (l Labels) WithDefaults() Labels {
	defaults := DefaultLabels()
	if strings.TrimSpace(l.Like) == "" {
		l.Like = defaults.Like
	}
	if strings.TrimSpace(l.Unlike) == "" {
		l.Unlike = defaults.Unlike
	}
	if strings.TrimSpace(l.SignIn) == "" {
		l.SignIn = defaults.SignIn
	}
	if strings.TrimSpace(l.CountOne) == "" {
		l.CountOne = defaults.CountOne
	}
	if strings.TrimSpace(l.CountOther) == "" {
		l.CountOther = defaults.CountOther
	}
	return l
}

// Attributes returns the label data attributes for the like container.
func (l Labels) Attributes() map[string]string {
	l = l.WithDefaults()
	return map[string]string{
		LabelLikeAttribute:       l.Like,
		LabelUnlikeAttribute:     l.Unlike,
		LabelSignInAttribute:     l.SignIn,
		LabelCountOneAttribute:   l.CountOne,
		LabelCountOtherAttribute: l.CountOther,
	}
}

// FormatCount renders count with the singular or plural label.
func (l Labels) FormatCount(count int) string {
	l = l.WithDefaults()
	template := l.CountOther
	if count == 1 || count == -1 {
		template = l.CountOne
	}
	value := strconv.Itoa(count)
	if !strings.Contains(template, CountPlaceholder) {
		return value + " " + strings.TrimSpace(template)
	}
	return strings.ReplaceAll(template, CountPlaceholder, value)
}

// ButtonText returns the like button text for a rendered state.
func (l Labels) ButtonText(liked bool) string {
	l = l.WithDefaults()
	if liked {
		return l.Unlike
	}
	return l.Like
}

// Request is one fire-and-forget call.
type Request struct {
	Method string
	Path   string
}

// LikeState is the client-side state of one post's like control.
type LikeState struct {
	PostID   string
	Count    int
	Liked    bool
	SignedIn bool
}

// LikeView is what the DOM shows after a transition.
type LikeView struct {
	ButtonText  string
	CounterText string
	Count       int
	Liked       bool
	// CounterChanged is false when the counter must be left untouched.
	CounterChanged bool
}

// Toggle applies a click on the like button. When the viewer is signed out
// no request is returned and the count does not change.
func Toggle(state LikeState, labels Labels) (LikeState, LikeView, *Request) {
	labels = labels.WithDefaults()
	if !state.SignedIn {
		return state, LikeView{ButtonText: labels.SignIn, Count: state.Count, Liked: state.Liked}, nil
	}
	next := state
	var request Request
	if state.Liked {
		request = Request{Method: http.MethodPost, Path: RemoveLikePath + state.PostID}
		next.Count--
		next.Liked = false
	} else {
		request = Request{Method: http.MethodPost, Path: LikePath + state.PostID}
		next.Count++
		next.Liked = true
	}
	view := LikeView{
		ButtonText:     labels.ButtonText(next.Liked),
		CounterText:    labels.FormatCount(next.Count),
		Count:          next.Count,
		Liked:          next.Liked,
		CounterChanged: true,
	}
	return next, view, &request
}

// DeletePost returns the request deleting post id.
func DeletePost(id string) Request {
	return Request{Method: http.MethodPost, Path: DeletePostPath + id}
}

// DeleteUser returns the request deleting user id.
func DeleteUser(id string) Request {
	return Request{Method: http.MethodPost, Path: DeleteUserPath + id}
}

// DeleteComment returns the request deleting comment id.
func DeleteComment(id string) Request {
	return Request{Method: http.MethodPost, Path: DeleteCommentPath + id}
}

// Delete returns the delete request for a card kind. Unknown kinds and
// blank ids report false.
func Delete(kind string, id string) (Request, bool) {
	if strings.TrimSpace(id) == "" {
		return Request{}, false
	}
	switch kind {
	case KindPost:
		return DeletePost(id), true
	case KindUser:
		return DeleteUser(id), true
	case KindComment:
		return DeleteComment(id), true
	default:
		return Request{}, false
	}
}

// ParseCount reads a counter attribute. Malformed values count as zero.
func ParseCount(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

// ToggleThumbnail flips the full-size class in a class list.
func ToggleThumbnail(classes []string) []string {
	out := make([]string, 0, len(classes)+1)
	found := false
	for _, class := range classes {
		if class == ThumbnailFullSize {
			found = true
			continue
		}
		out = append(out, class)
	}
	if !found {
		out = append(out, ThumbnailFullSize)
	}
	return out
}
