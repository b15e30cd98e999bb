package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// numberTier is one pattern in the parse order. normalize rewrites the match
// into a form strconv.ParseFloat accepts.
type numberTier struct {
	pattern   *regexp.Regexp
	normalize func(string) string
}

// Tiers are tried in order, each over the whole cleaned text. A period decimal
// anywhere in the text wins over a comma decimal that appears earlier.
var numberTiers = []numberTier{
	{pattern: regexp.MustCompile(`\d+\.\d+`)},
	{pattern: regexp.MustCompile(`\d+,\d+`), normalize: func(s string) string {
		return strings.Replace(s, ",", ".", 1)
	}},
	{pattern: regexp.MustCompile(`\d+`)},
}

// CleanText collapses whitespace runs to a single space and trims the result.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// ExtractFirstNumber returns the first number found in text using the tier
// order period decimal, comma decimal, integer. A match that fails conversion
// falls through to the next tier.
func ExtractFirstNumber(text string) (float64, bool) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return 0, false
	}

	for _, tier := range numberTiers {
		m := tier.pattern.FindString(cleaned)
		if m == "" {
			continue
		}
		if tier.normalize != nil {
			m = tier.normalize(m)
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}
