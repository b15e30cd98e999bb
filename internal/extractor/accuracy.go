package extractor

import (
	"unicode/utf8"

	"github.com/arbovm/levenshtein"

	"go-price-ocr/pkg/models"
)

// CompareText measures how far the recognized text is from what the caller
// expected to see. Both sides are whitespace normalised first. CER is the edit
// distance over the expected length in runes.
func CompareText(expected, actual string) *models.TextMatch {
	exp := CleanText(expected)
	act := CleanText(actual)

	distance := levenshtein.Distance(exp, act)

	var cer float64
	switch n := utf8.RuneCountInString(exp); {
	case n > 0:
		cer = float64(distance) / float64(n)
	case distance > 0:
		cer = 1
	}

	return &models.TextMatch{
		ExpectedText: expected,
		Distance:     distance,
		CER:          cer,
		Exact:        exp == act,
	}
}
