package templates

import (
	"github.com/louisbranch/liftboard/internal/services/board/app"
	webi18n "github.com/louisbranch/liftboard/internal/services/web/platform/i18n"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Title        string
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Viewer       app.Viewer
	// ClientEnabled loads the WebAssembly client instead of main.js.
	ClientEnabled bool
}

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(page PageContext) []webi18n.LanguageOption {
	return webi18n.LanguageOptions(page.Loc, page.Lang)
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(page PageContext, tag string) string {
	return webi18n.LanguageURL(page.CurrentPath, page.CurrentQuery, tag)
}
