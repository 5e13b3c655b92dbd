package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/liftboard/internal/services/web/routepath"
)

// Asset paths referenced by the layout.
const (
	StylesheetPath  = routepath.PublicPrefix + "style.css"
	ScriptPath      = routepath.PublicPrefix + "main.js"
	WASMExecPath    = routepath.ClientPrefix + "wasm_exec.js"
	WASMBinaryPath  = routepath.ClientPrefix + "boardclient.wasm"
	wasmLoaderInner = `(function(){var fallback=function(){var s=document.createElement("script");s.src="` + ScriptPath + `";document.body.appendChild(s);};` +
		`if(typeof Go==="undefined"||!WebAssembly.instantiateStreaming){fallback();return;}` +
		`var go=new Go();WebAssembly.instantiateStreaming(fetch("` + WASMBinaryPath + `"),go.importObject).then(function(r){go.run(r.instance);}).catch(fallback);})();`
)

// Layout renders the full HTML document around the children in ctx.
func Layout(page PageContext) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = "en-US"
		}
		appName := T(page.Loc, "core.app_name")
		title := appName
		if strings.TrimSpace(page.Title) != "" {
			title = page.Title + " · " + appName
		}

		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", lang)
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.element("title", title)
		h.open("link", "rel", "stylesheet", "href", StylesheetPath)
		h.raw("</head><body>")
		if page.Viewer.SignedIn {
			h.raw("<script>window.signedIn = true;</script>")
		} else {
			h.raw("<script>window.signedIn = false;</script>")
		}
		h.render(ctx, navigation(page))
		h.open("main", "class", "content")
		h.render(ctx, templ.GetChildren(ctx))
		h.close("main")
		if page.ClientEnabled {
			h.open("script", "src", WASMExecPath)
			h.close("script")
			h.raw("<script>" + wasmLoaderInner + "</script>")
		} else {
			h.open("script", "src", ScriptPath)
			h.close("script")
		}
		h.raw("</body></html>")
	})
}

func navigation(page PageContext) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<header class="site-header"><nav class="site-nav">`)
		h.link(routepath.Root, T(page.Loc, "core.app_name"), "class", "brand")
		h.link(routepath.Root, T(page.Loc, "core.nav.top"))
		viewer := page.Viewer
		if viewer.SignedIn {
			h.link(routepath.Submit, T(page.Loc, "core.nav.submit"))
			h.link(routepath.User(viewer.UserID), T(page.Loc, "core.nav.profile"))
			if viewer.Moderator {
				h.link(routepath.Admin, T(page.Loc, "core.nav.admin"))
			}
			h.open("form", "method", "post", "action", routepath.Logout, "class", "inline")
			h.element("button", T(page.Loc, "core.nav.logout"), "type", "submit")
			h.close("form")
		} else {
			h.link(routepath.Login, T(page.Loc, "core.nav.login"))
			h.link(routepath.Signup, T(page.Loc, "core.nav.signup"))
		}
		h.raw(`<span class="languages">`)
		for _, option := range LanguageOptions(page) {
			if option.Active {
				h.element("strong", option.Label, "lang", option.Tag)
				continue
			}
			h.link(LanguageURL(page, option.Tag), option.Label, "lang", option.Tag)
		}
		h.raw("</span></nav></header>")
	})
}
