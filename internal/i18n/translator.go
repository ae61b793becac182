// Package i18n holds the message catalogs and the Accept-Language negotiation
// used to localize user facing messages.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves dotted message keys per language. It is read-only after
// construction and safe to share between requests.
type Translator struct {
	catalogs map[string]map[string]string
	langs    []string // langs[i] corresponds to the matcher's tag i; langs[0] is the default
	matcher  language.Matcher
}

// New loads the embedded catalogs. defaultLang must be one of them.
func New(defaultLang string) (*Translator, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".json")

		raw, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}

		var tree map[string]any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)
		catalogs[lang] = flat
	}

	if _, ok := catalogs[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no catalog", defaultLang)
	}

	langs := []string{defaultLang}
	for lang := range catalogs {
		if lang != defaultLang {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs[1:])

	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tags[i] = language.Make(lang)
	}

	return &Translator{
		catalogs: catalogs,
		langs:    langs,
		matcher:  language.NewMatcher(tags),
	}, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}

// Default returns the fallback language
func (t *Translator) Default() string {
	return t.langs[0]
}

// Languages lists the supported languages, default first
func (t *Translator) Languages() []string {
	return append([]string(nil), t.langs...)
}

// Detect picks the best supported language for an Accept-Language header
func (t *Translator) Detect(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t.Default()
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.Default()
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.Default()
	}
	return t.langs[idx]
}

// Normalize maps an explicit locale such as "es-MX" onto a supported language.
// ok is false when the locale is not supported.
func (t *Translator) Normalize(locale string) (lang string, ok bool) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if _, found := t.catalogs[base.String()]; found {
		return base.String(), true
	}
	return "", false
}

// T returns the message for key in lang, falling back to the default
// language and finally to the key itself.
func (t *Translator) T(lang, key string) string {
	if catalog, ok := t.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := t.catalogs[t.Default()][key]; ok {
		return msg
	}
	return key
}
