// Package emoji decides when a message renders as oversized emoji. This is
// a presentation rule only; message content is never transformed.
package emoji

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// DisplayAsLargeEmoji reports whether a message should render its emoji
// oversized: the text consists of emoji only, at most three of them.
func DisplayAsLargeEmoji(text string) bool {
	if !IsOnlyEmojis(text) {
		return false
	}
	n := CountEmojis(text)
	return n > 0 && n <= 3
}

// IsOnlyEmojis reports whether the text contains nothing but emoji and
// whitespace, and at least one emoji.
func IsOnlyEmojis(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	g := uniseg.NewGraphemes(trimmed)
	for g.Next() {
		cluster := g.Str()
		if isWhitespace(cluster) {
			continue
		}
		if !isEmojiCluster(g.Runes()) {
			return false
		}
	}
	return true
}

// CountEmojis counts emoji in the text. A joined sequence (flags, skin
// tones, families) counts as one.
func CountEmojis(text string) int {
	count := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if isWhitespace(g.Str()) {
			continue
		}
		if isEmojiCluster(g.Runes()) {
			count++
		}
	}
	return count
}

func isWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// isEmojiCluster reports whether a grapheme cluster is an emoji. A cluster
// qualifies if it leads with a pictographic rune, or is forced into emoji
// presentation by VS16.
func isEmojiCluster(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	if isPictographic(runes[0]) {
		return true
	}
	for _, r := range runes[1:] {
		if r == 0xFE0F { // variation selector-16
			return true
		}
	}
	return false
}

func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // stars, arrows
		return true
	case r == 0x203C || r == 0x2049 || r == 0x2122 || r == 0x2139:
		return true
	default:
		return false
	}
}
