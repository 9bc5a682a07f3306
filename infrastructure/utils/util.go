package utils

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// Slugify lowercases s, folds accents and joins alphanumeric runs with single
// hyphens. It returns "" when nothing usable remains.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if r > unicode.MaxASCII {
				continue
			}
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	slug := b.String()
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}

// TruncateWords shortens s to at most limit runes, cutting on a word boundary
// and appending an ellipsis when something was removed.
func TruncateWords(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	cut := string(runes[:limit-1])
	if !unicode.IsSpace(runes[limit-1]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(cut, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsPunct(r) }) + "…"
}
