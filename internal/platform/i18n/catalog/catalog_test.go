package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{"en-US", "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if missing := bundle.MissingKeys("pt-BR"); len(missing) != 0 {
		t.Fatalf("pt-BR is missing keys: %v", missing)
	}
}

func TestRegisteredMessagesPrint(t *testing.T) {
	t.Parallel()

	_ = Default()
	printer := message.NewPrinter(language.BrazilianPortuguese)
	if got := printer.Sprintf("like.button"); got != "Curtir" {
		t.Fatalf("pt-BR like.button = %q", got)
	}
	printer = message.NewPrinter(language.AmericanEnglish)
	if got := printer.Sprintf("post.by", "Ana"); got != "by Ana" {
		t.Fatalf("en-US post.by = %q", got)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "core.only": "base"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/core.yaml"), `locale: "pt-BR"
namespace: "core"
messages:
  "core.other": "outro"
`)
	bundle, err := LoadFromFS(os.DirFS(tempDir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, ok := bundle.Message("pt-BR", "core.only"); !ok || got != "base" {
		t.Fatalf("message = %q, %v", got, ok)
	}
	if missing := bundle.MissingKeys("pt-BR"); len(missing) != 1 || missing[0] != "core.only" {
		t.Fatalf("missing = %v", missing)
	}
}

func TestLoadFromFSRejectsInvalidCatalogs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "core key outside core namespace",
			files: map[string]string{
				"locales/en-US/web.yaml": "locale: \"en-US\"\nnamespace: \"web\"\nmessages:\n  \"core.bad\": \"nope\"\n",
			},
		},
		{
			name: "duplicate keys across namespaces",
			files: map[string]string{
				"locales/en-US/core.yaml": "locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  \"a.key\": \"a\"\n",
				"locales/en-US/web.yaml":  "locale: \"en-US\"\nnamespace: \"web\"\nmessages:\n  \"a.key\": \"b\"\n",
			},
		},
		{
			name: "locale path mismatch",
			files: map[string]string{
				"locales/en-US/core.yaml": "locale: \"pt-BR\"\nnamespace: \"core\"\nmessages:\n  \"a\": \"b\"\n",
			},
		},
		{
			name: "missing base locale",
			files: map[string]string{
				"locales/pt-BR/core.yaml": "locale: \"pt-BR\"\nnamespace: \"core\"\nmessages:\n  \"a\": \"b\"\n",
			},
		},
		{
			name: "messages not a mapping",
			files: map[string]string{
				"locales/en-US/core.yaml": "locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  - \"a\"\n",
			},
		},
		{
			name: "missing messages",
			files: map[string]string{
				"locales/en-US/core.yaml": "locale: \"en-US\"\nnamespace: \"core\"\n",
			},
		},
		{
			name: "unterminated value",
			files: map[string]string{
				"locales/en-US/core.yaml": "locale: \"en-US\"\nnamespace: \"core\"\nmessages:\n  \"a\": \"b\n",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tempDir := t.TempDir()
			for name, content := range tc.files {
				mustWriteFile(t, filepath.Join(tempDir, name), content)
			}
			if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseTagAndMatch(t *testing.T) {
	t.Parallel()

	if tag, ok := ParseTag("pt-br"); !ok || tag != language.BrazilianPortuguese {
		t.Fatalf("ParseTag(pt-br) = %v, %v", tag, ok)
	}
	if _, ok := ParseTag("!!"); ok {
		t.Fatal("expected invalid tag to fail")
	}
	if _, ok := ParseTag("ja"); ok {
		t.Fatal("expected unsupported tag to fail")
	}
	if got := MatchTags([]language.Tag{language.Japanese}); got != DefaultTag() {
		t.Fatalf("MatchTags(ja) = %v", got)
	}
	if got := MatchTags([]language.Tag{language.Portuguese}); got != language.BrazilianPortuguese {
		t.Fatalf("MatchTags(pt) = %v", got)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
