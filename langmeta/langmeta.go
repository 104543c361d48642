// Package langmeta normalizes locale identifiers and answers the few
// questions the checker asks about them: which language, which script,
// and what to call it in a report.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Canonicalize turns pt_br, " EN-us " and friends into pt-BR, en-US.
func Canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		switch len(parts[i]) {
		case 2:
			parts[i] = strings.ToUpper(parts[i])
		case 4:
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, "-")
}

// Parse parses a locale identifier into a BCP-47 tag.
func Parse(lang string) (language.Tag, error) {
	return language.Parse(Canonicalize(lang))
}

// Base returns the lowercase language subtag ("ru" for "ru-RU"). Locales
// that do not parse fall back to their first subtag.
func Base(lang string) string {
	if tag, err := Parse(lang); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	return strings.SplitN(Canonicalize(lang), "-", 2)[0]
}

// BaseScript returns the language subtag and the script, inferring the
// likely script when the locale does not spell one out (zh-TW → Hant).
func BaseScript(lang string) (string, string) {
	tag, err := Parse(lang)
	if err != nil {
		return Base(lang), ""
	}
	base, _ := tag.Base()
	script, _ := tag.Script()
	return base.String(), script.String()
}

// SameLanguageAndScript reports whether two locales are variants of one
// written language, such as en-US and en-GB. zh-CN and zh-TW are not.
func SameLanguageAndScript(a, b string) bool {
	baseA, scriptA := BaseScript(a)
	baseB, scriptB := BaseScript(b)
	return baseA == baseB && scriptA == scriptB
}

// DisplayName returns the language's own name for itself, or lang when it
// is unknown.
func DisplayName(lang string) string {
	tag, err := Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return lang
}
