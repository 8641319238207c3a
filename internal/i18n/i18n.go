// Package i18n selects the UI language and translates user facing strings.
// Catalog keys are the English strings themselves, so an untranslated key
// renders as English.
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// EnvLang is the environment variable that selects the UI language.
const EnvLang = "GEO_LANG"

// DefaultLang is used when GEO_LANG is unset or unsupported.
const DefaultLang = "it"

// SupportedLangs lists the languages with a catalog, default first.
var SupportedLangs = []string{"it", "en"}

// Normalize maps a user supplied language value onto a supported language.
// Matching is case-insensitive and accepts BCP 47 tags such as en-US or
// it_IT. Anything else yields DefaultLang.
func Normalize(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return DefaultLang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLang
	}
	base, conf := tag.Base()
	if conf == language.No {
		return DefaultLang
	}
	for _, l := range SupportedLangs {
		if base.String() == l {
			return l
		}
	}
	return DefaultLang
}

// GetLang returns the language selected by GEO_LANG.
func GetLang() string {
	return Normalize(os.Getenv(EnvLang))
}

// Translator looks up strings in one language catalog.
type Translator struct {
	lang    string
	catalog map[string]string
}

// New returns a Translator for lang, falling back to DefaultLang.
func New(lang string) *Translator {
	lang = Normalize(lang)
	return &Translator{lang: lang, catalog: catalogs[lang]}
}

// Lang returns the catalog language.
func (t *Translator) Lang() string {
	if t == nil {
		return "en"
	}
	return t.lang
}

// T translates key. Keys without an entry are returned unchanged.
func (t *Translator) T(key string) string {
	if t == nil {
		return key
	}
	if v, ok := t.catalog[key]; ok {
		return v
	}
	return key
}

// Tf translates key and formats it with args.
func (t *Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

var (
	mu      sync.RWMutex
	current = New(GetLang())
)

// SetLang switches the package level translator. Unsupported values select
// DefaultLang.
func SetLang(lang string) {
	tr := New(lang)
	mu.Lock()
	current = tr
	mu.Unlock()
}

// Current returns the package level translator.
func Current() *Translator {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T translates key with the package level translator.
func T(key string) string {
	return Current().T(key)
}
