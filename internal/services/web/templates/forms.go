package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// SubmitPage renders the new post form.
func SubmitPage(page PageContext) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", T(page.Loc, "submit.title"))
		h.open("form", "method", "post", "action", routepath.SubmitPost, "enctype", "multipart/form-data", "class", "form")
		field(h, T(page.Loc, "submit.field.title"), "title", "text", "maxlength", strconv.Itoa(app.MaxTitleLength), "required", "required")
		h.element("label", T(page.Loc, "submit.field.description"), "for", "description")
		h.open("textarea", "id", "description", "name", "description", "maxlength", strconv.Itoa(app.MaxDescriptionLength))
		h.close("textarea")
		field(h, T(page.Loc, "submit.field.lift"), "lift", "text", "maxlength", strconv.Itoa(app.MaxLiftLength), "required", "required")
		field(h, T(page.Loc, "submit.field.weight"), "weight", "number", "min", "0", "max", strconv.Itoa(app.MaxWeight), "required", "required")
		field(h, T(page.Loc, "submit.field.thumbnail"), "thumbnail", "file", "accept", "image/jpeg,image/png,image/gif,image/webp", "required", "required")
		h.element("button", T(page.Loc, "submit.button"), "type", "submit")
		h.close("form")
	})
}

// LoginPage renders the sign-in form.
func LoginPage(page PageContext) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", T(page.Loc, "login.title"))
		h.open("form", "method", "post", "action", routepath.LoginSubmit, "class", "form")
		field(h, T(page.Loc, "login.handle"), "handle", "text", "autocomplete", "username", "required", "required")
		field(h, T(page.Loc, "login.password"), "password", "password", "autocomplete", "current-password", "required", "required")
		h.element("button", T(page.Loc, "login.button"), "type", "submit")
		h.close("form")
		h.open("p", "class", "hint")
		h.link(routepath.Signup, T(page.Loc, "login.no_account"))
		h.close("p")
	})
}

// SignupPage renders the account creation form.
func SignupPage(page PageContext) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", T(page.Loc, "signup.title"))
		h.open("form", "method", "post", "action", routepath.SignupSubmit, "class", "form")
		field(h, T(page.Loc, "login.handle"), "handle", "text", "autocomplete", "username", "required", "required", "data-handle-check", routepath.HandleExistsPrefix)
		field(h, T(page.Loc, "signup.name"), "name", "text", "maxlength", strconv.Itoa(app.MaxNameLength), "required", "required")
		field(h, T(page.Loc, "login.password"), "password", "password", "autocomplete", "new-password", "required", "required")
		h.element("label", T(page.Loc, "signup.bio"), "for", "bio")
		h.open("textarea", "id", "bio", "name", "bio", "maxlength", strconv.Itoa(app.MaxBioLength))
		h.close("textarea")
		h.element("button", T(page.Loc, "signup.button"), "type", "submit")
		h.close("form")
	})
}

func field(h *htmlWriter, label string, name string, inputType string, attrs ...string) {
	h.element("label", label, "for", name)
	h.open("input", append([]string{"id", name, "name", name, "type", inputType}, attrs...)...)
}
