package bench

import (
	"strings"
	"unicode"
)

const (
	// UnreadableMarker replaces previews that are mostly symbols or noise
	UnreadableMarker = "unreadable text"
	// DefaultPreviewLimit bounds the preview length in runes
	DefaultPreviewLimit = 90

	minAlnumRatio = 0.35
)

// SafePreview strips control and replacement characters from text and returns
// at most limit runes. Text that is mostly non-alphanumeric is replaced by
// UnreadableMarker. An empty input stays empty.
func SafePreview(text string, limit int) string {
	if text == "" {
		return ""
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	var b strings.Builder
	runes, alnum := 0, 0
	for _, r := range text {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		runes++
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			alnum++
		}
	}
	if runes == 0 {
		return UnreadableMarker
	}
	if float64(alnum)/float64(runes) < minAlnumRatio {
		return UnreadableMarker
	}

	cleaned := []rune(b.String())
	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return string(cleaned)
}
