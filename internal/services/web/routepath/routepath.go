// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Health = "/up"

	PostPrefix      = "/post/"
	PostPattern     = PostPrefix + "{id}"
	UserPrefix      = "/user/"
	UserPattern     = UserPrefix + "{id}"
	ThumbnailPrefix = "/upload/post/"
	ThumbnailRoute  = ThumbnailPrefix + "{id}"

	Submit     = "/submit"
	SubmitPost = "/submitPost"

	LikePrefix          = "/likePost/"
	LikePattern         = LikePrefix + "{id}"
	RemoveLikePrefix    = "/removeLike/"
	RemoveLikePattern   = RemoveLikePrefix + "{id}"
	DeletePostPrefix    = "/deletePost/"
	DeletePostPattern   = DeletePostPrefix + "{id}"
	DeleteUserPrefix    = "/deleteUser/"
	DeleteUserPattern   = DeleteUserPrefix + "{id}"
	DeleteCommentPrefix = "/deleteComment/"
	DeleteCommentRoute  = DeleteCommentPrefix + "{id}"
	SubmitCommentPrefix = "/submitComment/"
	SubmitCommentRoute  = SubmitCommentPrefix + "{postID}"

	Login        = "/login"
	LoginSubmit  = "/loginSubmit"
	Logout       = "/logout"
	Signup       = "/signup"
	SignupSubmit = "/signupForm"

	HandleExistsPrefix  = "/handleExists/"
	HandleExistsPattern = HandleExistsPrefix + "{handle}"

	Admin = "/admin"

	PublicPrefix = "/public/"
	ClientPrefix = "/client/"

	PageQueryKey = "page"
)

// Post returns the post page route.
func Post(postID string) string {
	return PostPrefix + escapeSegment(postID)
}

// User returns the user page route.
func User(userID string) string {
	return UserPrefix + escapeSegment(userID)
}

// Thumbnail returns the post image route.
func Thumbnail(postID string) string {
	return ThumbnailPrefix + escapeSegment(postID)
}

// SubmitComment returns the comment form action for a post.
func SubmitComment(postID string) string {
	return SubmitCommentPrefix + escapeSegment(postID)
}

// WithPage returns path with the page token query set. A blank token
// returns path unchanged.
func WithPage(path string, token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return path
	}
	return path + "?" + PageQueryKey + "=" + url.QueryEscape(token)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
