// Package i18n resolves the request language and localized copy for web
// handlers.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/liftboard/internal/client/board"
	"github.com/louisbranch/liftboard/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "liftboard_lang"
)

// Localizer provides translated strings for templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// Printer returns a message printer for tag with the catalogs registered.
func Printer(tag language.Tag) *message.Printer {
	_ = catalog.Default()
	return message.NewPrinter(tag)
}

// ResolveTag picks the request language from the lang query parameter, the
// language cookie, then Accept-Language. The bool reports whether the query
// parameter chose it and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return catalog.DefaultTag(), false
	}
	if r.URL != nil {
		if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
			if tag, ok := catalog.ParseTag(value); ok {
				return tag, true
			}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := catalog.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return catalog.MatchTags(tags), false
		}
	}
	return catalog.DefaultTag(), false
}

// SetLanguageCookie persists the selected language.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveLocalizer resolves the request language, persisting an explicit
// choice, and returns its printer and tag string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) (Localizer, string) {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return Printer(tag), tag.String()
}

// LikeLabels returns the like control copy for loc.
func LikeLabels(loc Localizer) board.Labels {
	if loc == nil {
		return board.DefaultLabels()
	}
	return board.Labels{
		Like:       loc.Sprintf("like.button"),
		Unlike:     loc.Sprintf("like.remove"),
		SignIn:     loc.Sprintf("like.sign_in"),
		CountOne:   loc.Sprintf("like.count_one"),
		CountOther: loc.Sprintf("like.count_other"),
	}.WithDefaults()
}

// LanguageOptions lists supported languages with the active one marked.
func LanguageOptions(loc Localizer, active string) []LanguageOption {
	activeTag, ok := catalog.ParseTag(active)
	if !ok {
		activeTag = catalog.DefaultTag()
	}
	tags := catalog.SupportedTags()
	options := make([]LanguageOption, 0, len(tags))
	for _, tag := range tags {
		label := tag.String()
		if loc != nil {
			label = loc.Sprintf(languageKey(tag))
		}
		options = append(options, LanguageOption{Tag: tag.String(), Label: label, Active: tag == activeTag})
	}
	return options
}

// LanguageURL returns path and query with the lang parameter set to tag.
func LanguageURL(path string, rawQuery string, tag string) string {
	if strings.TrimSpace(path) == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

func languageKey(tag language.Tag) string {
	if tag == language.BrazilianPortuguese {
		return "core.nav.lang_pt_br"
	}
	return "core.nav.lang_en"
}
