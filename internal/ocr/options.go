package ocr

import "strings"

// PageSegMode mirrors Tesseract's page segmentation modes.
type PageSegMode int

const (
	PageSegAuto       PageSegMode = 3
	PageSegSingleLine PageSegMode = 7
	PageSegSingleWord PageSegMode = 8
)

// NumericWhitelist restricts recognition to digits and decimal separators.
const NumericWhitelist = "0123456789.,"

// EngineConfig is the recognition configuration. It is built once at startup
// and passed by value to every Recognize call; the With* methods return
// modified copies and never touch the receiver.
type EngineConfig struct {
	pageSegMode    PageSegMode
	whitelist      string
	languages      []string
	tessdataPrefix string
}

// PriceConfig returns the configuration used for price extraction: a single
// line of text, numeric characters only, English.
func PriceConfig() EngineConfig {
	return EngineConfig{
		pageSegMode: PageSegSingleLine,
		whitelist:   NumericWhitelist,
		languages:   []string{"eng"},
	}
}

// WithLanguages returns a copy using the given languages. Blank entries are dropped.
func (c EngineConfig) WithLanguages(langs ...string) EngineConfig {
	cleaned := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	if len(cleaned) > 0 {
		c.languages = cleaned
	}
	return c
}

// WithTessdataPrefix returns a copy reading trained data from prefix.
func (c EngineConfig) WithTessdataPrefix(prefix string) EngineConfig {
	c.tessdataPrefix = strings.TrimSpace(prefix)
	return c
}

// WithPageSegMode returns a copy using mode.
func (c EngineConfig) WithPageSegMode(mode PageSegMode) EngineConfig {
	c.pageSegMode = mode
	return c
}

// WithWhitelist returns a copy restricted to the characters in whitelist.
func (c EngineConfig) WithWhitelist(whitelist string) EngineConfig {
	c.whitelist = whitelist
	return c
}

func (c EngineConfig) PageSegMode() PageSegMode { return c.pageSegMode }
func (c EngineConfig) Whitelist() string        { return c.whitelist }
func (c EngineConfig) TessdataPrefix() string   { return c.tessdataPrefix }

// Languages returns a copy of the configured languages.
func (c EngineConfig) Languages() []string {
	out := make([]string, len(c.languages))
	copy(out, c.languages)
	return out
}

// ParseLanguages splits a "+" or "," separated language list such as "eng+deu".
func ParseLanguages(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
}
