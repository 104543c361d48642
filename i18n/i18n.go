// Package i18n localizes icucheck's own messages: rule descriptions,
// findings and CLI output.
//
// It wraps the gotext library. Catalogs are embedded in the binary and
// loaded by Init. Until Init is called, T and N pass their input through,
// which is what the tests of other packages rely on.
//
//	i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("No problems found"))
//	fmt.Println(i18n.N("%d problem", "%d problems", n))
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"

	"github.com/minios-linux/icucheck/langmeta"
)

// locales holds the catalogs: locales/{lang}/LC_MESSAGES/icucheck.po
//
//go:embed all:locales
var locales embed.FS

const domain = "icucheck"

var po *gotext.Locale

// Init loads the catalog for lang, or for the language found in the
// environment when lang is empty. It returns the language it settled on.
func Init(lang string) string {
	if lang == "" {
		lang = detectLanguage()
	}
	lang = strings.ReplaceAll(langmeta.Canonicalize(lang), "-", "_")

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// T translates msgid, or returns it unchanged.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates a format string and applies args to it.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N picks the singular or plural form for n and translates it. The result
// still contains the verbs of the format; callers apply n themselves.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8 → ru_RU, sr_RS@latin → sr_RS
		if idx := strings.IndexAny(val, ".@"); idx >= 0 {
			val = val[:idx]
		}
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
