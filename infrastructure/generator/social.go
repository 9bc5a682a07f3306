package generator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"newsroom/domain/model"
	"newsroom/infrastructure/utils"
)

const (
	xMaxChars         = 280
	xURLWeight        = 23
	maxHashtags       = 5
	defaultFBQuestion = "What do you think?"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+`)
	hashtag      = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	blankRun     = regexp.MustCompile(`\n{3,}`)
)

// FormatSocialPost turns raw model text into a post that satisfies the
// platform's shape. The link, when given, is always the last line on its own.
func FormatSocialPost(platform model.Platform, raw, link string) (string, error) {
	body := sanitize(raw, link)

	switch platform {
	case model.PlatformFacebook:
		if body == "" {
			return "", errors.New("empty social post")
		}
		if !strings.HasSuffix(body, "?") {
			body += "\n\n" + defaultFBQuestion
		}
		return withLink(body, link), nil

	case model.PlatformInstagram:
		tags := uniqueTags(hashtag.FindAllString(body, -1), maxHashtags)
		body = tidy(hashtag.ReplaceAllString(body, ""))
		if body == "" {
			return "", errors.New("empty social post")
		}
		if len(tags) > 0 {
			body += "\n\n" + strings.Join(tags, " ")
		}
		return withLink(body, link), nil

	case model.PlatformX:
		body = strings.Join(strings.Fields(body), " ")
		if body == "" {
			return "", errors.New("empty social post")
		}
		budget := xMaxChars
		if link != "" {
			budget -= xURLWeight + 1
		}
		return withLinkInline(utils.TruncateWords(body, budget), link), nil
	}
	return "", errors.New("unsupported platform " + string(platform))
}

// XLength counts a post the way X does: every URL weighs a fixed 23 characters.
func XLength(post string) int {
	n := utf8.RuneCountInString(post)
	for _, u := range bareURL.FindAllString(post, -1) {
		n += xURLWeight - utf8.RuneCountInString(u)
	}
	return n
}

func sanitize(raw, link string) string {
	s := stripEmoji(raw)
	s = markdownLink.ReplaceAllString(s, "$1")
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	if link != "" {
		s = strings.ReplaceAll(s, link, "")
	}
	s = bareURL.ReplaceAllString(s, "")
	return tidy(strings.ReplaceAll(s, "\r\n", "\n"))
}

// tidy collapses runs of spaces inside lines and runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRun.ReplaceAllString(s, "\n\n"))
}

func uniqueTags(tags []string, limit int) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, limit)
	for _, t := range tags {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}

func withLink(body, link string) string {
	if link == "" {
		return body
	}
	return body + "\n\n" + link
}

func withLinkInline(body, link string) string {
	if link == "" {
		return body
	}
	return body + "\n" + link
}

func stripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, s)
}

// singleEmoji holds the Extended_Pictographic code points and emoji
// modifiers that sit outside the ranges below.
var singleEmoji = map[rune]struct{}{
	0x00A9: {}, 0x00AE: {}, // © ®
	0x200D: {}, 0x20E3: {}, // ZWJ, keycap
	0x203C: {}, 0x2049: {}, // ‼ ⁉
	0x2122: {}, 0x2139: {}, // ™ ℹ
	0x24C2: {},             // Ⓜ
	0x3030: {}, 0x303D: {},
	0x3297: {}, 0x3299: {}, // ㊗ ㊙
}

func isEmoji(r rune) bool {
	if _, ok := singleEmoji[r]; ok {
		return true
	}
	switch {
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0x2190 && r <= 0x21FF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x25A0 && r <= 0x27BF:
		return true
	case r >= 0x2900 && r <= 0x297F:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x1FC00 && r <= 0x1FFFD:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	}
	return false
}
