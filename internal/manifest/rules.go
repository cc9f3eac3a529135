// Package manifest extracts structured shipment entries from roll-call text
// pasted out of group chats, and renders entries back into that format.
//
// Extraction is a fixed pipeline of ordered heuristics. Every function in this
// package is total: any input string yields a value, never an error or panic.
// Compiled patterns are package-level and read-only, so all functions are safe
// for concurrent use.
package manifest

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"express-ledger-service/internal/domain"
)

// MaxBlockRunes bounds the text examined for a single entry.
// Longer blocks are truncated before extraction.
const MaxBlockRunes = 4096

// addressGlyphs are characters that mark a fragment as part of an address.
const addressGlyphs = "省市区县街道路号"

var (
	phonePattern   = regexp.MustCompile(`1[3-9]\d{9}`)
	bracketPattern = regexp.MustCompile(`[（(]([^）)]+)[）)]`)
	addressGlyph   = regexp.MustCompile(`[` + addressGlyphs + `]`)

	// ordinalPrefix matches list markers such as "1、" or "2." inside a span.
	ordinalPrefix = regexp.MustCompile(`^\d+[、.]`)
	entryOrdinal  = regexp.MustCompile(`^\d+\.\s*`)

	whitespaceRun     = regexp.MustCompile(`\s+`)
	leadingSeparators = regexp.MustCompile(`^[，,、]\s*`)
)

// separators are trimmed from the edges of spans around the phone number.
const separators = " \t\r\n，,。.、；;：:！!"

func hasAddressGlyph(s string) bool { return addressGlyph.MatchString(s) }

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func trimSeparators(s string) string { return strings.Trim(s, separators) }

func trimRightSeparators(s string) string { return strings.TrimRight(s, separators) }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeSpaces maps the full-width and no-break spaces common in chat
// clients to ASCII spaces so that `\s` in the patterns below sees them.
var normalizeSpaces = strings.NewReplacer("\u3000", " ", "\u00a0", " ", "\r", "")

// truncateRunes keeps at most n runes of s.
func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// categoryPatterns holds one `<digits><glyph>` extractor per category,
// indexed by domain.Category.
var categoryPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(domain.Categories))
	for _, c := range domain.Categories {
		out[c] = regexp.MustCompile(`(\d+)\s*[` + c.Glyphs() + `]`)
	}
	return out
}()

// quantityBearing matches bracket contents that carry a count.
var quantityBearing = func() *regexp.Regexp {
	var glyphs strings.Builder
	for _, c := range domain.Categories {
		glyphs.WriteString(c.Glyphs())
	}
	return regexp.MustCompile(`[\d` + glyphs.String() + `]`)
}()
